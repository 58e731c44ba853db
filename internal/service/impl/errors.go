package impl

import (
	"errors"

	"mater/internal/domain"
)

var (
	ErrEmptyPassword = errors.New("empty password")
	ErrNilStore      = errors.New("nil store")
)

// opError keeps client-safe errors and hides everything else behind a generic failure.
func opError(err error) error {
	if err == nil {
		return nil
	}
	var de *domain.Error
	if errors.As(err, &de) {
		return err
	}
	return domain.ErrOperationFailed.WithCause(err)
}
