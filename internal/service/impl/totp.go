package impl

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha1"
	"crypto/subtle"
	"encoding/base32"
	"encoding/binary"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"
)

const totpSecretBytes = 20

var totpEncoding = base32.StdEncoding.WithPadding(base32.NoPadding)

// TOTPConfig follows RFC 6238 with HMAC-SHA1.
type TOTPConfig struct {
	Issuer string
	Period uint
	Digits int
	Skew   uint
}

func (c TOTPConfig) withDefaults() TOTPConfig {
	if c.Issuer == "" {
		c.Issuer = "MATER"
	}
	if c.Period == 0 {
		c.Period = 30
	}
	if c.Digits < 6 || c.Digits > 8 {
		c.Digits = 6
	}
	return c
}

type totpManager struct {
	cfg TOTPConfig
}

func newTOTPManager(cfg TOTPConfig) *totpManager {
	return &totpManager{cfg: cfg.withDefaults()}
}

// GenerateSecret returns a fresh base32 secret without padding.
func (m *totpManager) GenerateSecret() (string, error) {
	raw := make([]byte, totpSecretBytes)
	if _, err := rand.Read(raw); err != nil {
		return "", err
	}
	return totpEncoding.EncodeToString(raw), nil
}

func (m *totpManager) ProvisionURI(secret, account string) string {
	label := url.PathEscape(m.cfg.Issuer + ":" + account)

	v := url.Values{}
	v.Set("secret", secret)
	v.Set("issuer", m.cfg.Issuer)
	v.Set("period", strconv.FormatUint(uint64(m.cfg.Period), 10))
	v.Set("digits", strconv.Itoa(m.cfg.Digits))
	v.Set("algorithm", "SHA1")

	return "otpauth://totp/" + label + "?" + v.Encode()
}

// Code computes the code for the time step containing now.
func (m *totpManager) Code(secret string, now time.Time) (string, error) {
	key, err := decodeSecret(secret)
	if err != nil {
		return "", err
	}
	return hotp(key, uint64(now.Unix())/uint64(m.cfg.Period), m.cfg.Digits), nil
}

// Verify accepts codes within ±Skew steps of now.
func (m *totpManager) Verify(secret, code string, now time.Time) (bool, error) {
	code = strings.TrimSpace(code)
	if len(code) != m.cfg.Digits || !isNumeric(code) {
		return false, nil
	}
	key, err := decodeSecret(secret)
	if err != nil {
		return false, err
	}

	base := int64(now.Unix()) / int64(m.cfg.Period)
	skew := int64(m.cfg.Skew)
	for step := -skew; step <= skew; step++ {
		counter := base + step
		if counter < 0 {
			continue
		}
		if subtle.ConstantTimeCompare([]byte(hotp(key, uint64(counter), m.cfg.Digits)), []byte(code)) == 1 {
			return true, nil
		}
	}
	return false, nil
}

func decodeSecret(secret string) ([]byte, error) {
	if secret == "" {
		return nil, errors.New("empty totp secret")
	}
	key, err := totpEncoding.DecodeString(strings.ToUpper(strings.TrimRight(secret, "=")))
	if err != nil {
		return nil, fmt.Errorf("decode totp secret: %w", err)
	}
	return key, nil
}

func hotp(key []byte, counter uint64, digits int) string {
	var msg [8]byte
	binary.BigEndian.PutUint64(msg[:], counter)

	mac := hmac.New(sha1.New, key)
	_, _ = mac.Write(msg[:])
	sum := mac.Sum(nil)

	offset := sum[len(sum)-1] & 0x0f
	bin := binary.BigEndian.Uint32(sum[offset:offset+4]) & 0x7fffffff

	mod := uint32(1)
	for i := 0; i < digits; i++ {
		mod *= 10
	}
	return fmt.Sprintf("%0*d", digits, bin%mod)
}

func isNumeric(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return s != ""
}
