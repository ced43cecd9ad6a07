package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/wtusfo/song-and-singer/internal/models"
)

// ErrNoToken is returned when a request carries no session token.
var ErrNoToken = errors.New("no session token")

type AppMetadata struct {
	Role string `json:"role,omitempty"`
}

// Claims mirrors the access tokens minted by the identity provider.
type Claims struct {
	jwt.RegisteredClaims
	Email       string      `json:"email"`
	AppMetadata AppMetadata `json:"app_metadata"`
}

// Verifier checks HS256 session tokens signed with the provider's shared secret.
type Verifier struct {
	secret []byte
	issuer string
}

func NewVerifier(secret, issuer string) *Verifier {
	return &Verifier{secret: []byte(secret), issuer: issuer}
}

// Verify validates the signature and expiry and returns the session's account.
func (v *Verifier) Verify(token string) (*models.Account, error) {
	if token == "" {
		return nil, ErrNoToken
	}

	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
	}
	if v.issuer != "" {
		opts = append(opts, jwt.WithIssuer(v.issuer))
	}

	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (interface{}, error) {
		return v.secret, nil
	}, opts...)
	if err != nil {
		return nil, fmt.Errorf("invalid session token: %w", err)
	}
	if !parsed.Valid || claims.Subject == "" {
		return nil, fmt.Errorf("invalid session token: missing subject")
	}

	return &models.Account{
		ID:    claims.Subject,
		Email: claims.Email,
		Role:  claims.AppMetadata.Role,
	}, nil
}

// Sign mints a token for account in the provider's format. Used by tests and
// local development where no identity provider is running.
func (v *Verifier) Sign(account models.Account, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   account.ID,
			Issuer:    v.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		Email:       account.Email,
		AppMetadata: AppMetadata{Role: account.Role},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(v.secret)
}
