package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// ErrInvalidToken is returned for tokens that fail signature or claim checks.
var ErrInvalidToken = errors.New("invalid token")

// DocumentTokenManager signs and verifies the public verification tokens
// printed on notarized documents. Tokens carry the document uid as subject
// and do not expire.
type DocumentTokenManager struct {
	secret []byte
	issuer string
	now    func() time.Time
}

// NewDocumentTokenManager creates a new token manager.
// secret must be at least 32 characters for HS256 security.
func NewDocumentTokenManager(secret, issuer string) *DocumentTokenManager {
	return &DocumentTokenManager{
		secret: []byte(secret),
		issuer: issuer,
		now:    time.Now,
	}
}

// documentClaims extends standard JWT claims with the document kind.
type documentClaims struct {
	jwt.RegisteredClaims
	DocumentType string `json:"doc_type,omitempty"`
}

// Generate creates a signed HS256 JWT for the document uid.
func (m *DocumentTokenManager) Generate(uid, documentType string) (string, error) {
	if uid == "" {
		return "", fmt.Errorf("document uid is empty")
	}

	claims := documentClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:       uuid.NewString(),
			Subject:  uid,
			Issuer:   m.issuer,
			IssuedAt: jwt.NewNumericDate(m.now()),
		},
		DocumentType: documentType,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}

	return signed, nil
}

// Validate parses a verification token and returns the document uid.
func (m *DocumentTokenManager) Validate(tokenString string) (string, error) {
	if tokenString == "" {
		return "", fmt.Errorf("token is empty: %w", ErrInvalidToken)
	}

	token, err := jwt.ParseWithClaims(tokenString, &documentClaims{}, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return m.secret, nil
	}, jwt.WithIssuer(m.issuer), jwt.WithTimeFunc(m.now))
	if err != nil {
		return "", fmt.Errorf("parse token: %w: %w", ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(*documentClaims)
	if !ok || !token.Valid || claims.Subject == "" {
		return "", fmt.Errorf("invalid token claims: %w", ErrInvalidToken)
	}

	return claims.Subject, nil
}

// NewDocumentUID returns a document uid of the form DOC-<year>-<uuid>.
func NewDocumentUID(now time.Time) string {
	return fmt.Sprintf("DOC-%d-%s", now.Year(), uuid.NewString())
}
