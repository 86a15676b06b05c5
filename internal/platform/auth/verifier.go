package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/foundrr/foundrr-backend/internal/platform/ctxutil"
)

var ErrUnauthenticated = errors.New("unauthenticated")

type Claims struct {
	Email string `json:"email,omitempty"`
	Role  string `json:"role,omitempty"`
	jwt.RegisteredClaims
}

// Verifier checks HS256 bearer tokens issued by the identity provider.
type Verifier struct {
	secret    []byte
	adminRole string
	leeway    time.Duration
}

func NewVerifier(secret, adminRole string) (*Verifier, error) {
	if strings.TrimSpace(secret) == "" {
		return nil, fmt.Errorf("missing JWT_SECRET_KEY")
	}
	if strings.TrimSpace(adminRole) == "" {
		adminRole = "admin"
	}
	return &Verifier{secret: []byte(secret), adminRole: adminRole, leeway: 30 * time.Second}, nil
}

func (v *Verifier) Verify(tokenString string) (*ctxutil.RequestData, error) {
	if tokenString == "" {
		return nil, fmt.Errorf("%w: missing token", ErrUnauthenticated)
	}
	parsed, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		return v.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithLeeway(v.leeway), jwt.WithExpirationRequired())
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnauthenticated, err)
	}
	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return nil, fmt.Errorf("%w: invalid or expired token", ErrUnauthenticated)
	}
	userID, err := uuid.Parse(claims.Subject)
	if err != nil || userID == uuid.Nil {
		return nil, fmt.Errorf("%w: invalid user id in token", ErrUnauthenticated)
	}
	return &ctxutil.RequestData{
		UserID:  userID,
		Email:   strings.ToLower(strings.TrimSpace(claims.Email)),
		Role:    claims.Role,
		IsAdmin: claims.Role == v.adminRole,
	}, nil
}

// SetContextFromToken verifies the token and attaches the caller to ctx.
func (v *Verifier) SetContextFromToken(ctx context.Context, tokenString string) (context.Context, error) {
	rd, err := v.Verify(tokenString)
	if err != nil {
		return ctx, err
	}
	return ctxutil.WithRequestData(ctx, rd), nil
}

// Issue signs a token for userID. Used by dev tooling and tests.
func (v *Verifier) Issue(userID uuid.UUID, email, role string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		Email: email,
		Role:  role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(v.secret)
}
