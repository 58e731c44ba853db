package impl

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"mater/internal/domain"
)

func TestPasswordService_HashIsSaltedAndVerifies(t *testing.T) {
	p := NewPasswordServiceBcrypt(bcrypt.MinCost)

	h1, err := p.Hash("hunter2")
	require.NoError(t, err)
	h2, err := p.Hash("hunter2")
	require.NoError(t, err)

	assert.NotEqual(t, h1, h2)
	assert.True(t, p.Verify("hunter2", h1))
	assert.True(t, p.Verify("hunter2", h2))
	assert.False(t, p.Verify("hunter3", h1))
}

func TestPasswordService_MalformedHashIsMismatch(t *testing.T) {
	p := NewPasswordServiceBcrypt(bcrypt.MinCost)
	assert.False(t, p.Verify("x", "not-a-bcrypt-hash"))
	assert.False(t, p.Verify("x", ""))
}

func TestPasswordService_EmptyPassword(t *testing.T) {
	_, err := NewPasswordServiceBcrypt(0).Hash("")
	assert.ErrorIs(t, err, ErrEmptyPassword)
}

func TestPasswordService_RejectsOverlongPassword(t *testing.T) {
	p := NewPasswordServiceBcrypt(bcrypt.MinCost)

	_, err := p.Hash(strings.Repeat("a", 73))
	assert.ErrorIs(t, err, domain.ErrPasswordTooLong)

	h, err := p.Hash(strings.Repeat("a", 72))
	require.NoError(t, err)
	assert.True(t, p.Verify(strings.Repeat("a", 72), h))
}
