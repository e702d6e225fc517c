package jwt

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"testing"
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"

	"github.com/kaushik-sharma/full-stack-app/internal/models"
)

func testKeyPair(t *testing.T) (privPEM, pubPEM []byte, priv *rsa.PrivateKey) {
	t.Helper()
	priv, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		t.Fatalf("generate rsa key: %v", err)
	}
	privPEM = pem.EncodeToMemory(&pem.Block{
		Type:  "RSA PRIVATE KEY",
		Bytes: x509.MarshalPKCS1PrivateKey(priv),
	})
	pubDER, err := x509.MarshalPKIXPublicKey(&priv.PublicKey)
	if err != nil {
		t.Fatalf("marshal public key: %v", err)
	}
	pubPEM = pem.EncodeToMemory(&pem.Block{Type: "PUBLIC KEY", Bytes: pubDER})
	return privPEM, pubPEM, priv
}

func testCodec(t *testing.T, authTTL, emailTTL time.Duration) *Codec {
	t.Helper()
	privPEM, pubPEM, _ := testKeyPair(t)
	c, err := NewCodec(Config{
		PrivateKeyPEM: privPEM,
		PublicKeyPEM:  pubPEM,
		Audience:      "test-api",
		KeyID:         "ps512-v1",
		AuthTTL:       authTTL,
		EmailTTL:      emailTTL,
	})
	if err != nil {
		t.Fatalf("new codec: %v", err)
	}
	return c
}

func TestAuthTokenRoundTrip(t *testing.T) {
	c := testCodec(t, time.Hour, time.Minute)

	token, err := c.CreateAuthToken("sess-1", "user-1", models.StatusActive)
	if err != nil {
		t.Fatalf("create auth token: %v", err)
	}

	claims, err := c.VerifyAuthToken(token)
	if err != nil {
		t.Fatalf("verify auth token: %v", err)
	}
	if claims.SessionID != "sess-1" || claims.UserID != "user-1" {
		t.Fatalf("claims mismatch: %+v", claims)
	}
	if claims.UserStatus != models.StatusActive {
		t.Fatalf("status mismatch: %s", claims.UserStatus)
	}
	if claims.Version != schemaVersion {
		t.Fatalf("version mismatch: %d", claims.Version)
	}
}

func TestAuthTokenExpired(t *testing.T) {
	c := testCodec(t, time.Millisecond, time.Minute)

	token, err := c.CreateAuthToken("sess-1", "user-1", models.StatusActive)
	if err != nil {
		t.Fatalf("create auth token: %v", err)
	}
	time.Sleep(5 * time.Millisecond)

	if _, err := c.VerifyAuthToken(token); err != ErrTokenExpired {
		t.Fatalf("expected ErrTokenExpired, got %v", err)
	}
}

func TestAuthTokenWrongAudience(t *testing.T) {
	privPEM, pubPEM, _ := testKeyPair(t)
	issuer, err := NewCodec(Config{
		PrivateKeyPEM: privPEM,
		PublicKeyPEM:  pubPEM,
		Audience:      "other-api",
		KeyID:         "ps512-v1",
		AuthTTL:       time.Hour,
		EmailTTL:      time.Minute,
	})
	if err != nil {
		t.Fatalf("new codec: %v", err)
	}
	verifier, err := NewCodec(Config{
		PrivateKeyPEM: privPEM,
		PublicKeyPEM:  pubPEM,
		Audience:      "test-api",
		KeyID:         "ps512-v1",
		AuthTTL:       time.Hour,
		EmailTTL:      time.Minute,
	})
	if err != nil {
		t.Fatalf("new codec: %v", err)
	}

	token, err := issuer.CreateAuthToken("sess-1", "user-1", models.StatusActive)
	if err != nil {
		t.Fatalf("create auth token: %v", err)
	}
	if _, err := verifier.VerifyAuthToken(token); err != ErrInvalidToken {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestAuthTokenWrongAlgorithmRejected(t *testing.T) {
	c := testCodec(t, time.Hour, time.Minute)

	claims := AuthClaims{
		SessionID:  "sess-1",
		UserID:     "user-1",
		UserStatus: models.StatusActive,
		Version:    schemaVersion,
		RegisteredClaims: jwtlib.RegisteredClaims{
			Audience:  jwtlib.ClaimStrings{"test-api"},
			ExpiresAt: jwtlib.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	tok := jwtlib.NewWithClaims(jwtlib.SigningMethodHS256, claims)
	signed, err := tok.SignedString([]byte("secret-secret-secret-secret"))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}

	if _, err := c.VerifyAuthToken(signed); err != ErrInvalidToken {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestAuthTokenForeignKeyRejected(t *testing.T) {
	c := testCodec(t, time.Hour, time.Minute)
	other := testCodec(t, time.Hour, time.Minute)

	token, err := other.CreateAuthToken("sess-1", "user-1", models.StatusActive)
	if err != nil {
		t.Fatalf("create auth token: %v", err)
	}
	if _, err := c.VerifyAuthToken(token); err != ErrInvalidToken {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestAuthTokenMissingClaims(t *testing.T) {
	c := testCodec(t, time.Hour, time.Minute)

	claims := AuthClaims{
		SessionID: "sess-1",
		// UserID deliberately absent.
		UserStatus: models.StatusActive,
		Version:    schemaVersion,
		RegisteredClaims: jwtlib.RegisteredClaims{
			Audience:  jwtlib.ClaimStrings{"test-api"},
			ExpiresAt: jwtlib.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	signed, err := c.sign(claims)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	if _, err := c.VerifyAuthToken(signed); err != ErrInvalidToken {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestAuthTokenGarbage(t *testing.T) {
	c := testCodec(t, time.Hour, time.Minute)
	if _, err := c.VerifyAuthToken("not.a.token"); err != ErrInvalidToken {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestRefreshAuthTokenIssuesFreshToken(t *testing.T) {
	c := testCodec(t, time.Hour, time.Minute)

	token, err := c.RefreshAuthToken("sess-1", "user-1", models.StatusAnonymous)
	if err != nil {
		t.Fatalf("refresh auth token: %v", err)
	}
	claims, err := c.VerifyAuthToken(token)
	if err != nil {
		t.Fatalf("verify refreshed token: %v", err)
	}
	if claims.SessionID != "sess-1" || claims.UserStatus != models.StatusAnonymous {
		t.Fatalf("claims mismatch: %+v", claims)
	}
}

func TestEmailTokenRoundTrip(t *testing.T) {
	c := testCodec(t, time.Hour, time.Minute)

	token, err := c.CreateEmailToken("hashed-email", []string{"code-1", "code-2"})
	if err != nil {
		t.Fatalf("create email token: %v", err)
	}

	hashedEmail, hashedCodes, err := c.VerifyEmailToken(token)
	if err != nil {
		t.Fatalf("verify email token: %v", err)
	}
	if hashedEmail != "hashed-email" {
		t.Fatalf("hashed email mismatch: %s", hashedEmail)
	}
	if len(hashedCodes) != 2 || hashedCodes[0] != "code-1" || hashedCodes[1] != "code-2" {
		t.Fatalf("hashed codes mismatch: %v", hashedCodes)
	}
}

func TestEmailTokenExpired(t *testing.T) {
	c := testCodec(t, time.Hour, time.Millisecond)

	token, err := c.CreateEmailToken("hashed-email", []string{"code-1"})
	if err != nil {
		t.Fatalf("create email token: %v", err)
	}
	time.Sleep(5 * time.Millisecond)

	if _, _, err := c.VerifyEmailToken(token); err != ErrTokenExpired {
		t.Fatalf("expected ErrTokenExpired, got %v", err)
	}
}

func TestEmailTokenNotValidAsAuthToken(t *testing.T) {
	c := testCodec(t, time.Hour, time.Minute)

	token, err := c.CreateEmailToken("hashed-email", []string{"code-1"})
	if err != nil {
		t.Fatalf("create email token: %v", err)
	}
	if _, err := c.VerifyAuthToken(token); err == nil {
		t.Fatal("expected email token to fail auth verification")
	}
}

func TestNewCodecRejectsBadKeys(t *testing.T) {
	if _, err := NewCodec(Config{
		PrivateKeyPEM: []byte("junk"),
		PublicKeyPEM:  []byte("junk"),
		AuthTTL:       time.Hour,
		EmailTTL:      time.Minute,
	}); err == nil {
		t.Fatal("expected error for malformed keys")
	}
}
