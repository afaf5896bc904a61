package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/mkartalkolcuoglu/randevuSistemi-sub004/internal/model"
)

// Claims carried by every bearer token. CustomerID and StaffID are set
// depending on UserType.
type Claims struct {
	UserType   string `json:"userType"`
	TenantID   string `json:"tenantId"`
	CustomerID string `json:"customerId,omitempty"`
	StaffID    string `json:"staffId,omitempty"`
	jwt.RegisteredClaims
}

type JWTService interface {
	GenerateToken(actor *model.Actor) (string, time.Time, error)
	ValidateToken(token string) (*model.Actor, error)
}

type jwtService struct {
	secret []byte
	expiry time.Duration
}

func NewJWTService(secret string, expiry time.Duration) JWTService {
	return &jwtService{secret: []byte(secret), expiry: expiry}
}

func (s *jwtService) GenerateToken(actor *model.Actor) (string, time.Time, error) {
	expiresAt := time.Now().Add(s.expiry)
	claims := Claims{
		UserType: string(actor.UserType),
		TenantID: actor.TenantID.String(),
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}
	if actor.CustomerID != uuid.Nil {
		claims.CustomerID = actor.CustomerID.String()
	}
	if actor.StaffID != uuid.Nil {
		claims.StaffID = actor.StaffID.String()
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, expiresAt, nil
}

func (s *jwtService) ValidateToken(tokenString string) (*model.Actor, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("invalid token: %w", err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("invalid token claims")
	}

	tenantID, err := uuid.Parse(claims.TenantID)
	if err != nil {
		return nil, fmt.Errorf("invalid tenant id in token: %w", err)
	}

	actor := &model.Actor{
		UserType: model.UserType(claims.UserType),
		TenantID: tenantID,
	}
	switch actor.UserType {
	case model.UserTypeCustomer, model.UserTypeStaff, model.UserTypeOwner:
	default:
		return nil, fmt.Errorf("unknown user type in token: %s", claims.UserType)
	}

	if claims.CustomerID != "" {
		id, err := uuid.Parse(claims.CustomerID)
		if err != nil {
			return nil, fmt.Errorf("invalid customer id in token: %w", err)
		}
		actor.CustomerID = id
	}
	if claims.StaffID != "" {
		id, err := uuid.Parse(claims.StaffID)
		if err != nil {
			return nil, fmt.Errorf("invalid staff id in token: %w", err)
		}
		actor.StaffID = id
	}

	return actor, nil
}
