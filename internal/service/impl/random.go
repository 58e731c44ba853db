package impl

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"math/big"
	"strings"
)

const (
	otpDigits        = 6
	backupCodeCount  = 10
	backupCodeLength = 8
	backupAlphabet   = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
)

// randomString draws n characters uniformly from alphabet.
func randomString(alphabet string, n int) (string, error) {
	var b strings.Builder
	b.Grow(n)
	max := big.NewInt(int64(len(alphabet)))
	for i := 0; i < n; i++ {
		idx, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		b.WriteByte(alphabet[idx.Int64()])
	}
	return b.String(), nil
}

// newOTP returns a zero-padded numeric code of otpDigits digits.
func newOTP() (string, error) {
	return randomString("0123456789", otpDigits)
}

func newBackupCodes() ([]string, error) {
	codes := make([]string, backupCodeCount)
	for i := range codes {
		c, err := randomString(backupAlphabet, backupCodeLength)
		if err != nil {
			return nil, err
		}
		codes[i] = c
	}
	return codes, nil
}

func hashBackupCode(code string) string {
	sum := sha256.Sum256([]byte(strings.ToUpper(strings.TrimSpace(code))))
	return hex.EncodeToString(sum[:])
}
