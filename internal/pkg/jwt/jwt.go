// Package jwt implements the signed-token codec for the two token kinds the
// auth core issues: the long-lived auth token and the short-lived
// email-verification token. Tokens are signed with RSA-PSS so that any
// process holding only the public key can verify them.
package jwt

import (
	"crypto/rsa"
	"errors"
	"fmt"
	"net/http"
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"

	"github.com/kaushik-sharma/full-stack-app/internal/models"
	"github.com/kaushik-sharma/full-stack-app/internal/pkg/apperr"
)

var (
	// ErrTokenExpired is returned when a token is past its expiry.
	ErrTokenExpired = apperr.New(http.StatusUnauthorized, "Auth token expired.")
	// ErrInvalidToken covers signature, audience, algorithm, and
	// missing-claim failures.
	ErrInvalidToken = apperr.New(http.StatusUnauthorized, "Invalid auth token.")
)

// schemaVersion is embedded in every token for forward compatibility.
const schemaVersion = 1

// Config holds the codec's signing material and policy.
type Config struct {
	PrivateKeyPEM []byte
	PublicKeyPEM  []byte
	Audience      string
	KeyID         string
	AuthTTL       time.Duration // typically 30 days
	EmailTTL      time.Duration // typically 10 minutes
}

// AuthClaims is the payload of an auth token. UserStatus is a snapshot taken
// at issuance; authorization decisions must re-derive the live status from
// the session store.
type AuthClaims struct {
	SessionID  string            `json:"sessionId"`
	UserID     string            `json:"userId"`
	UserStatus models.UserStatus `json:"userStatus"`
	Version    int               `json:"v"`
	jwtlib.RegisteredClaims
}

// EmailClaims is the payload of an email-verification token. HashedCodes is
// append-only across re-issuance within one verification flow.
type EmailClaims struct {
	HashedEmail string   `json:"hashedEmail"`
	HashedCodes []string `json:"hashedCodes"`
	Version     int      `json:"v"`
	jwtlib.RegisteredClaims
}

// Codec signs and verifies tokens. Construct once at startup and inject.
type Codec struct {
	privateKey *rsa.PrivateKey
	publicKey  *rsa.PublicKey
	audience   string
	keyID      string
	authTTL    time.Duration
	emailTTL   time.Duration
}

// NewCodec parses the PEM key pair and returns a ready codec.
func NewCodec(cfg Config) (*Codec, error) {
	priv, err := jwtlib.ParseRSAPrivateKeyFromPEM(cfg.PrivateKeyPEM)
	if err != nil {
		return nil, fmt.Errorf("parse private key: %w", err)
	}
	pub, err := jwtlib.ParseRSAPublicKeyFromPEM(cfg.PublicKeyPEM)
	if err != nil {
		return nil, fmt.Errorf("parse public key: %w", err)
	}
	if cfg.AuthTTL <= 0 || cfg.EmailTTL <= 0 {
		return nil, errors.New("token TTLs must be positive")
	}
	return &Codec{
		privateKey: priv,
		publicKey:  pub,
		audience:   cfg.Audience,
		keyID:      cfg.KeyID,
		authTTL:    cfg.AuthTTL,
		emailTTL:   cfg.EmailTTL,
	}, nil
}

// CreateAuthToken signs an auth token binding the session to its user, with
// the user's status snapshotted at issuance time.
func (c *Codec) CreateAuthToken(sessionID, userID string, status models.UserStatus) (string, error) {
	now := time.Now()
	claims := AuthClaims{
		SessionID:  sessionID,
		UserID:     userID,
		UserStatus: status,
		Version:    schemaVersion,
		RegisteredClaims: jwtlib.RegisteredClaims{
			Audience:  jwtlib.ClaimStrings{c.audience},
			ExpiresAt: jwtlib.NewNumericDate(now.Add(c.authTTL)),
			IssuedAt:  jwtlib.NewNumericDate(now),
		},
	}
	return c.sign(claims)
}

// RefreshAuthToken re-signs the identity claims of an already-validated
// token with a fresh expiry. It never touches the session store: the
// session's own lifetime in storage is unchanged.
func (c *Codec) RefreshAuthToken(sessionID, userID string, status models.UserStatus) (string, error) {
	return c.CreateAuthToken(sessionID, userID, status)
}

// VerifyAuthToken validates signature, algorithm, audience, and expiry, and
// requires the full identity claim set.
func (c *Codec) VerifyAuthToken(tokenStr string) (*AuthClaims, error) {
	claims := &AuthClaims{}
	if err := c.verify(tokenStr, claims, jwtlib.WithAudience(c.audience)); err != nil {
		return nil, err
	}
	if claims.SessionID == "" || claims.UserID == "" || !claims.UserStatus.Valid() {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// CreateEmailToken signs an email-verification token. No audience claim:
// the token is only ever round-tripped back to this service.
func (c *Codec) CreateEmailToken(hashedEmail string, hashedCodes []string) (string, error) {
	now := time.Now()
	claims := EmailClaims{
		HashedEmail: hashedEmail,
		HashedCodes: hashedCodes,
		Version:     schemaVersion,
		RegisteredClaims: jwtlib.RegisteredClaims{
			ExpiresAt: jwtlib.NewNumericDate(now.Add(c.emailTTL)),
			IssuedAt:  jwtlib.NewNumericDate(now),
		},
	}
	return c.sign(claims)
}

// VerifyEmailToken validates an email-verification token and returns the
// hashed email together with every hashed code issued in the flow so far.
func (c *Codec) VerifyEmailToken(tokenStr string) (string, []string, error) {
	claims := &EmailClaims{}
	if err := c.verify(tokenStr, claims); err != nil {
		return "", nil, err
	}
	if claims.HashedEmail == "" || len(claims.HashedCodes) == 0 {
		return "", nil, ErrInvalidToken
	}
	return claims.HashedEmail, claims.HashedCodes, nil
}

func (c *Codec) sign(claims jwtlib.Claims) (string, error) {
	token := jwtlib.NewWithClaims(jwtlib.SigningMethodPS512, claims)
	token.Header["kid"] = c.keyID
	return token.SignedString(c.privateKey)
}

func (c *Codec) verify(tokenStr string, claims jwtlib.Claims, opts ...jwtlib.ParserOption) error {
	opts = append(opts, jwtlib.WithValidMethods([]string{jwtlib.SigningMethodPS512.Alg()}))
	token, err := jwtlib.ParseWithClaims(tokenStr, claims, func(t *jwtlib.Token) (interface{}, error) {
		return c.publicKey, nil
	}, opts...)
	if err != nil {
		if errors.Is(err, jwtlib.ErrTokenExpired) {
			return ErrTokenExpired
		}
		return ErrInvalidToken
	}
	if !token.Valid {
		return ErrInvalidToken
	}
	return nil
}
