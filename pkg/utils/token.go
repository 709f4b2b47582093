package utils

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// TokenKind selects which signing secret and lifetime apply. Access and
// refresh tokens are signed with independent secrets so one kind can never be
// replayed as the other.
type TokenKind string

const (
	AccessToken  TokenKind = "access"
	RefreshToken TokenKind = "refresh"
)

// ClaimsKey is the fiber Locals / context key under which the authenticated
// identity claims are stored for downstream handlers.
type contextKey string

const ClaimsKey contextKey = "identity_claims"

var (
	accessSecret  = []byte("secret")
	refreshSecret = []byte("secret")
	accessTTL     = 30 * time.Second
	refreshTTL    = 24 * time.Hour
)

// SetSecrets injects the kind-specific signing secrets from config.
func SetSecrets(access, refresh string) {
	accessSecret = []byte(access)
	refreshSecret = []byte(refresh)
}

// SetLifetimes injects token lifetimes from config.
func SetLifetimes(access, refresh time.Duration) {
	accessTTL = access
	refreshTTL = refresh
}

// IdentityClaims are embedded in both token kinds. Permissions starts empty at
// issue time; the permission gate fills in the matched permission name per
// request so handlers can tell e.g. read from read_own.
type IdentityClaims struct {
	UserID      string    `json:"id"`
	Email       string    `json:"email"`
	UserName    string    `json:"userName"`
	Role        string    `json:"role"`
	Permissions []string  `json:"permissions"`
	Kind        TokenKind `json:"kind"`
	jwt.RegisteredClaims
}

func secretFor(kind TokenKind) []byte {
	if kind == RefreshToken {
		return refreshSecret
	}
	return accessSecret
}

// GenerateToken mints one token of the given kind for the identity.
func GenerateToken(id primitive.ObjectID, email, userName, roleHex string, kind TokenKind) (string, error) {
	ttl := accessTTL
	if kind == RefreshToken {
		ttl = refreshTTL
	}

	claims := IdentityClaims{
		UserID:      id.Hex(),
		Email:       email,
		UserName:    userName,
		Role:        roleHex,
		Permissions: []string{},
		Kind:        kind,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ID:        uuid.NewString(),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(secretFor(kind))
}

// GeneratePair mints a matched access+refresh pair for one device session.
func GeneratePair(id primitive.ObjectID, email, userName, roleHex string) (access string, refresh string, err error) {
	access, err = GenerateToken(id, email, userName, roleHex, AccessToken)
	if err != nil {
		return "", "", err
	}
	refresh, err = GenerateToken(id, email, userName, roleHex, RefreshToken)
	if err != nil {
		return "", "", err
	}
	return access, refresh, nil
}

// ValidateToken verifies signature and expiry against the kind-specific secret
// and rejects tokens presented as the wrong kind.
func ValidateToken(tokenString string, kind TokenKind) (*IdentityClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &IdentityClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return secretFor(kind), nil
	})
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*IdentityClaims)
	if !ok || !token.Valid {
		return nil, jwt.ErrTokenSignatureInvalid
	}
	if claims.Kind != kind {
		return nil, jwt.ErrTokenInvalidClaims
	}
	return claims, nil
}
