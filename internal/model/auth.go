package model

import (
	"github.com/google/uuid"
)

type UserType string

const (
	UserTypeCustomer UserType = "customer"
	UserTypeStaff    UserType = "staff"
	UserTypeOwner    UserType = "owner"
)

// Actor is the authenticated identity behind a request, decoded from
// the bearer token. CustomerID and StaffID are set according to
// UserType; owners carry neither.
type Actor struct {
	UserType   UserType  `json:"user_type"`
	TenantID   uuid.UUID `json:"tenant_id"`
	CustomerID uuid.UUID `json:"customer_id,omitempty"`
	StaffID    uuid.UUID `json:"staff_id,omitempty"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

type ChangePasswordRequest struct {
	Email           string `json:"email" validate:"required,email"`
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password" validate:"required,min=8"`
}

type TokenResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int64  `json:"expires_in"`
	UserType    string `json:"user_type"`
}
