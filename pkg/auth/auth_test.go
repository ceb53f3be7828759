package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("Harbor#2024")
	require.NoError(t, err)

	assert.True(t, IsBcryptHash(hash))
	assert.True(t, VerifyPassword("Harbor#2024", hash))
	assert.False(t, VerifyPassword("harbor#2024", hash))
}

func TestSecretEqual(t *testing.T) {
	assert.True(t, SecretEqual("letmein", "letmein"))
	assert.False(t, SecretEqual("letmein", "letmeout"))
	assert.False(t, SecretEqual("", ""))
}

func TestSignerRoundTrip(t *testing.T) {
	s, err := NewSigner("test-secret", "realty")
	require.NoError(t, err)

	token, exp, err := s.Issue("admin", AudienceAdmin, time.Hour)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Hour), exp, 5*time.Second)

	claims, err := s.Verify(token, AudienceAdmin)
	require.NoError(t, err)
	assert.Equal(t, "admin", claims.Subject)
	assert.NotEmpty(t, claims.ID)
}

func TestSignerRejects(t *testing.T) {
	s, err := NewSigner("test-secret", "realty")
	require.NoError(t, err)

	t.Run("wrong audience", func(t *testing.T) {
		token, _, err := s.Issue("editor", AudiencePreview, time.Hour)
		require.NoError(t, err)
		_, err = s.Verify(token, AudienceAdmin)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("expired", func(t *testing.T) {
		s.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
		token, _, err := s.Issue("admin", AudienceAdmin, time.Hour)
		require.NoError(t, err)
		s.now = time.Now
		_, err = s.Verify(token, AudienceAdmin)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("other secret", func(t *testing.T) {
		other, err := NewSigner("another-secret", "realty")
		require.NoError(t, err)
		token, _, err := other.Issue("admin", AudienceAdmin, time.Hour)
		require.NoError(t, err)
		_, err = s.Verify(token, AudienceAdmin)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("garbage", func(t *testing.T) {
		_, err := s.Verify("not.a.token", AudienceAdmin)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	_, err = NewSigner("", "realty")
	assert.Error(t, err)
}
