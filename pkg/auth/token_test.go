package auth

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenManager_IssueAndParse(t *testing.T) {
	manager := NewTokenManager("test-secret", time.Hour)
	principal := Principal{
		UserID:   uuid.New(),
		Username: "dona.rosa",
		Role:     RoleAdmin,
	}

	token, err := manager.Issue(principal)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	parsed, err := manager.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, principal, parsed)
}

func TestTokenManager_RejectsWrongSecret(t *testing.T) {
	token, err := NewTokenManager("secret-a", time.Hour).Issue(Principal{
		UserID: uuid.New(),
		Role:   RoleCollector,
	})
	require.NoError(t, err)

	_, err = NewTokenManager("secret-b", time.Hour).Parse(token)
	assert.Error(t, err)
}

func TestTokenManager_RejectsExpired(t *testing.T) {
	manager := NewTokenManager("test-secret", -time.Minute)
	token, err := manager.Issue(Principal{UserID: uuid.New(), Role: RoleCollector})
	require.NoError(t, err)

	_, err = manager.Parse(token)
	assert.Error(t, err)
}

func TestTokenManager_RejectsGarbage(t *testing.T) {
	_, err := NewTokenManager("test-secret", time.Hour).Parse("not.a.token")
	assert.Error(t, err)
}
