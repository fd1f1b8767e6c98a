package utils

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUserContext(t *testing.T) {
	ctx := SetUserContext(context.Background(), 42, "jane@example.com", RoleAdmin)

	id, ok := GetUserIDFromContext(ctx)
	assert.True(t, ok)
	assert.Equal(t, uint(42), id)
	assert.Equal(t, "jane@example.com", GetUserEmailFromContext(ctx))
	assert.Equal(t, RoleAdmin, GetUserRoleFromContext(ctx))
	assert.True(t, IsAdmin(ctx))
}

func TestUserContext_Empty(t *testing.T) {
	ctx := context.Background()

	_, ok := GetUserIDFromContext(ctx)
	assert.False(t, ok)
	assert.Equal(t, "", GetUserEmailFromContext(ctx))
	assert.False(t, IsAdmin(ctx))
}

func TestToUint(t *testing.T) {
	n, err := ToUint("123")
	assert.NoError(t, err)
	assert.Equal(t, uint(123), n)

	_, err = ToUint("abc")
	assert.Error(t, err)
}

func TestParseInt32(t *testing.T) {
	assert.Equal(t, int32(7), ParseInt32("7", 1))
	assert.Equal(t, int32(1), ParseInt32("", 1))
	assert.Equal(t, int32(1), ParseInt32("x", 1))
}
