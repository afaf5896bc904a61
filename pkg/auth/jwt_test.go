package auth

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mkartalkolcuoglu/randevuSistemi-sub004/internal/model"
)

func TestGenerateAndValidateToken(t *testing.T) {
	svc := NewJWTService("test-secret", time.Hour)

	actor := &model.Actor{
		UserType:   model.UserTypeCustomer,
		TenantID:   uuid.New(),
		CustomerID: uuid.New(),
	}

	token, expiresAt, err := svc.GenerateToken(actor)
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.WithinDuration(t, time.Now().Add(time.Hour), expiresAt, time.Minute)

	got, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, actor.UserType, got.UserType)
	assert.Equal(t, actor.TenantID, got.TenantID)
	assert.Equal(t, actor.CustomerID, got.CustomerID)
	assert.Equal(t, uuid.Nil, got.StaffID)
}

func TestValidateTokenWrongSecret(t *testing.T) {
	actor := &model.Actor{UserType: model.UserTypeOwner, TenantID: uuid.New()}

	token, _, err := NewJWTService("secret-a", time.Hour).GenerateToken(actor)
	require.NoError(t, err)

	_, err = NewJWTService("secret-b", time.Hour).ValidateToken(token)
	assert.Error(t, err)
}

func TestValidateTokenExpired(t *testing.T) {
	svc := NewJWTService("test-secret", -time.Minute)
	actor := &model.Actor{UserType: model.UserTypeStaff, TenantID: uuid.New(), StaffID: uuid.New()}

	token, _, err := svc.GenerateToken(actor)
	require.NoError(t, err)

	_, err = svc.ValidateToken(token)
	assert.Error(t, err)
}

func TestValidateTokenGarbage(t *testing.T) {
	svc := NewJWTService("test-secret", time.Hour)

	_, err := svc.ValidateToken("not.a.token")
	assert.Error(t, err)
}
