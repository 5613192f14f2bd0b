package auth

import (
	"strings"
	"testing"
	"time"

	"placify-backend/shared/database/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenRoundTrip(t *testing.T) {
	m := NewTokenManager("test-secret", time.Hour, 24*time.Hour)
	p := Principal{UserID: uuid.New(), Email: "u1@example.com", Role: models.RoleCompany}

	pair, err := m.IssuePair(p)
	require.NoError(t, err)
	assert.NotEmpty(t, pair.Token)
	assert.NotEmpty(t, pair.RefreshToken)

	claims, err := m.ValidateAccess(pair.Token)
	require.NoError(t, err)
	got, err := claims.Principal()
	require.NoError(t, err)
	assert.Equal(t, p, got)

	_, err = m.ValidateRefresh(pair.RefreshToken)
	require.NoError(t, err)
}

func TestTokenTypesAreNotInterchangeable(t *testing.T) {
	m := NewTokenManager("test-secret", time.Hour, time.Hour)
	pair, err := m.IssuePair(Principal{UserID: uuid.New()})
	require.NoError(t, err)

	_, err = m.ValidateAccess(pair.RefreshToken)
	assert.Error(t, err)
	_, err = m.ValidateRefresh(pair.Token)
	assert.Error(t, err)
}

func TestTokenRejectsOtherSecretAndTampering(t *testing.T) {
	m := NewTokenManager("secret-a", time.Hour, time.Hour)
	other := NewTokenManager("secret-b", time.Hour, time.Hour)
	pair, err := m.IssuePair(Principal{UserID: uuid.New()})
	require.NoError(t, err)

	_, err = other.ValidateAccess(pair.Token)
	assert.Error(t, err)

	parts := strings.Split(pair.Token, ".")
	require.Len(t, parts, 3)
	tampered := parts[0] + "." + parts[1] + "x." + parts[2]
	_, err = m.ValidateAccess(tampered)
	assert.Error(t, err)
}

func TestTokenExpiry(t *testing.T) {
	m := NewTokenManager("secret", time.Minute, time.Minute)
	issued := time.Now().Add(-time.Hour)
	m.now = func() time.Time { return issued }
	pair, err := m.IssuePair(Principal{UserID: uuid.New()})
	require.NoError(t, err)

	m.now = time.Now
	_, err = m.ValidateAccess(pair.Token)
	assert.Error(t, err)
}

func TestPasswordHash(t *testing.T) {
	hash, err := HashPassword("s3cretpass")
	require.NoError(t, err)
	assert.True(t, CheckPasswordHash("s3cretpass", hash))
	assert.False(t, CheckPasswordHash("wrong", hash))
}

func TestValidators(t *testing.T) {
	assert.NoError(t, ValidateEmail("a@b.co"))
	assert.Error(t, ValidateEmail(" "))
	assert.Error(t, ValidateEmail("nope"))

	assert.NoError(t, ValidatePhone(""))
	assert.NoError(t, ValidatePhone("+1 (555) 123-4567"))
	assert.Error(t, ValidatePhone("call me"))

	assert.NoError(t, ValidatePassword("abcdefg1"))
	assert.Error(t, ValidatePassword("short1"))
	assert.Error(t, ValidatePassword("onlyletters"))

	assert.EqualError(t, ValidateLength("ab", "name", 3, 10), "name must be at least 3 characters")
	assert.EqualError(t, ValidateRequired("  ", "title"), "title is required")
}
