package auth

import (
	"context"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/irodova/placestay/internal/domain"
	"github.com/irodova/placestay/internal/repository"
)

type Claims struct {
	UserID string `json:"userId"`
	jwt.RegisteredClaims
}

// Gate verifies bearer credentials and, for privileged operations, resolves
// the caller's user record to check its role attribute. The role lives on the
// stored user, not in the token, so a revoked admin loses access on the next
// request.
type Gate struct {
	secret   []byte
	tokenTTL time.Duration
	users    repository.UserRepository
}

func NewGate(secret string, tokenTTL time.Duration, users repository.UserRepository) *Gate {
	return &Gate{secret: []byte(secret), tokenTTL: tokenTTL, users: users}
}

// MintToken issues an HS256 bearer token for the given user id.
func (g *Gate) MintToken(userID string) (string, error) {
	claims := Claims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(g.tokenTTL)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(g.secret)
}

// AuthorizeUser accepts any valid credential and returns the caller id.
func (g *Gate) AuthorizeUser(ctx context.Context, token string) (string, error) {
	claims, err := g.verify(token)
	if err != nil {
		return "", err
	}
	return claims.UserID, nil
}

// AuthorizeAdmin additionally requires the caller's stored role to be admin.
func (g *Gate) AuthorizeAdmin(ctx context.Context, token string) (string, error) {
	claims, err := g.verify(token)
	if err != nil {
		return "", err
	}

	user, err := g.users.GetByID(ctx, claims.UserID)
	if err != nil {
		return "", err
	}
	if user.Role != domain.RoleAdmin {
		return "", domain.ErrForbidden
	}
	return user.ID, nil
}

func (g *Gate) verify(tokenStr string) (*Claims, error) {
	if tokenStr == "" {
		return nil, domain.ErrUnauthorized
	}

	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return g.secret, nil
	})
	if err != nil {
		return nil, domain.ErrUnauthorized
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.UserID == "" {
		return nil, domain.ErrUnauthorized
	}
	return claims, nil
}
