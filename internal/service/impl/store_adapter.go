package impl

import (
	"context"
	"time"

	"gorm.io/datatypes"

	"mater/internal/domain"
	"mater/internal/store"
)

type dataStore interface {
	storeTx
	WithTx(ctx context.Context, fn func(tx storeTx) error) error
	DeleteUserData(ctx context.Context, userID domain.UserID) (map[string]int64, error)
}

type storeTx interface {
	Users() userStore
	MFA() mfaStore
	Flags() flagStore
	Settings() settingStore
}

type userStore interface {
	Create(ctx context.Context, usr *domain.User) error
	GetByID(ctx context.Context, id domain.UserID) (*domain.User, error)
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
	GetByLogin(ctx context.Context, identifier string) (*domain.User, error)
	LockByID(ctx context.Context, id domain.UserID) (*domain.User, error)
	UsernameExists(ctx context.Context, username string) (bool, error)
	EmailExists(ctx context.Context, email string) (bool, error)
	Count(ctx context.Context) (int64, error)
	List(ctx context.Context) ([]domain.User, error)
	UpdatePassword(ctx context.Context, id domain.UserID, hash string) error
}

type mfaStore interface {
	ListEnabled(ctx context.Context, userID domain.UserID) ([]domain.MFAMethod, error)
	Get(ctx context.Context, userID domain.UserID, kind domain.MethodKind) (*domain.MFAMethod, error)
	GetPrimary(ctx context.Context, userID domain.UserID) (*domain.MFAMethod, error)
	Create(ctx context.Context, m *domain.MFAMethod) error
	Save(ctx context.Context, m *domain.MFAMethod) error
	ClearPrimary(ctx context.Context, userID domain.UserID) error
	MarkPrimary(ctx context.Context, userID domain.UserID, kind domain.MethodKind) error
	Disable(ctx context.Context, userID domain.UserID, kind domain.MethodKind) error
	Delete(ctx context.Context, userID domain.UserID, kind domain.MethodKind) error
	SwapBackupCodes(ctx context.Context, id uint, prev, next datatypes.JSON) (bool, error)
}

type flagStore interface {
	Claim(ctx context.Context, name string) (bool, error)
}

type settingStore interface {
	ListVisible(ctx context.Context, userID domain.UserID) ([]domain.AppSetting, error)
	GetGlobal(ctx context.Context, name string) (*domain.AppSetting, error)
	GetByID(ctx context.Context, id uint) (*domain.AppSetting, error)
	Create(ctx context.Context, s *domain.AppSetting) error
	CreateBatch(ctx context.Context, settings []domain.AppSetting) error
	UpdateValue(ctx context.Context, id uint, value string) error
	Delete(ctx context.Context, id uint) error
}

// OTPRepository persists challenges. Both the gorm store and redisotp.Store
// satisfy it.
type OTPRepository interface {
	Create(ctx context.Context, c *domain.OTPChallenge) error
	Consume(ctx context.Context, userID domain.UserID, code string) (*domain.OTPChallenge, error)
	PurgeExpired(ctx context.Context, now time.Time) (int64, error)
	DeleteByUser(ctx context.Context, userID domain.UserID) error
}

type gormStoreAdapter struct {
	store *store.Store
}

func newDataStore(st *store.Store) dataStore { return gormStoreAdapter{store: st} }

func (g gormStoreAdapter) WithTx(ctx context.Context, fn func(tx storeTx) error) error {
	if g.store == nil {
		return ErrNilStore
	}
	return g.store.WithTx(ctx, func(tx *store.Store) error {
		return fn(gormStoreAdapter{store: tx})
	})
}

func (g gormStoreAdapter) DeleteUserData(ctx context.Context, userID domain.UserID) (map[string]int64, error) {
	return g.store.DeleteUserData(ctx, userID)
}

func (g gormStoreAdapter) Users() userStore { return g.store.Users() }
func (g gormStoreAdapter) MFA() mfaStore { return g.store.MFA() }
func (g gormStoreAdapter) Flags() flagStore { return g.store.Flags() }
func (g gormStoreAdapter) Settings() settingStore { return g.store.Settings() }
