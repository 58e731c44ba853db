package service

type PasswordService interface {
	Hash(password string) (string, error)
	// Verify reports whether password matches hash. A malformed hash is a mismatch.
	Verify(password, hash string) bool
}
