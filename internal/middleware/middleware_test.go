package middleware

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/kaushik-sharma/full-stack-app/internal/models"
	"github.com/kaushik-sharma/full-stack-app/internal/modules/auth/auth"
	"github.com/kaushik-sharma/full-stack-app/internal/modules/auth/session"
	jwtpkg "github.com/kaushik-sharma/full-stack-app/internal/pkg/jwt"
	"github.com/kaushik-sharma/full-stack-app/internal/pkg/mail"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type staticSessions struct {
	entries map[string]session.Entry
}

func (s *staticSessions) Create(_ context.Context, _ *gorm.DB, _ string, _ models.UserStatus, _ session.Device) (string, error) {
	return "", fmt.Errorf("not implemented")
}

func (s *staticSessions) Resolve(_ context.Context, sessionID string) (session.Entry, error) {
	entry, ok := s.entries[sessionID]
	if !ok {
		return session.Entry{}, session.ErrNotFound
	}
	return entry, nil
}

func (s *staticSessions) DeleteAll(_ context.Context, _ *gorm.DB, _ string) error { return nil }

type noUsers struct{}

func (noUsers) FindByEmail(context.Context, string) (string, models.UserStatus, bool, error) {
	return "", "", false, nil
}
func (noUsers) EmailExists(context.Context, string) (bool, error)           { return false, nil }
func (noUsers) PhoneExists(context.Context, string, string) (bool, error)   { return false, nil }
func (noUsers) AnonymousExists(context.Context, string) (bool, error)       { return false, nil }
func (noUsers) Create(context.Context, *gorm.DB, *models.UserModel) (string, error) {
	return "", fmt.Errorf("not implemented")
}
func (noUsers) ConvertAnonymousToActive(context.Context, *gorm.DB, string, *models.UserModel) (string, error) {
	return "", fmt.Errorf("not implemented")
}
func (noUsers) DeleteAnonymous(context.Context, *gorm.DB, string) error       { return nil }
func (noUsers) SetActive(context.Context, *gorm.DB, string) error             { return nil }
func (noUsers) RemoveDeletionRequest(context.Context, *gorm.DB, string) error { return nil }

type noTx struct{}

func (noTx) InTx(_ context.Context, fn func(tx *gorm.DB) error) error { return fn(nil) }

type noMailer struct{}

func (noMailer) Send(mail.Message) error { return nil }

type authFixture struct {
	svc      *auth.Service
	codec    *jwtpkg.Codec
	sessions *staticSessions
}

func newAuthFixture(t *testing.T) *authFixture {
	t.Helper()
	priv, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		t.Fatalf("generate rsa key: %v", err)
	}
	privPEM := pem.EncodeToMemory(&pem.Block{
		Type:  "RSA PRIVATE KEY",
		Bytes: x509.MarshalPKCS1PrivateKey(priv),
	})
	pubDER, err := x509.MarshalPKIXPublicKey(&priv.PublicKey)
	if err != nil {
		t.Fatalf("marshal public key: %v", err)
	}
	pubPEM := pem.EncodeToMemory(&pem.Block{Type: "PUBLIC KEY", Bytes: pubDER})

	codec, err := jwtpkg.NewCodec(jwtpkg.Config{
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

	sessions := &staticSessions{entries: make(map[string]session.Entry)}
	svc := auth.NewService(codec, sessions, noUsers{}, noTx{}, noMailer{}, auth.VerificationPolicy{}, zap.NewNop())
	return &authFixture{svc: svc, codec: codec, sessions: sessions}
}

func (f *authFixture) tokenFor(t *testing.T, sessionID, userID string, status models.UserStatus) string {
	t.Helper()
	f.sessions.entries[sessionID] = session.Entry{UserID: userID, UserStatus: status}
	token, err := f.codec.CreateAuthToken(sessionID, userID, status)
	if err != nil {
		t.Fatalf("create token: %v", err)
	}
	return token
}

// doRequest runs one request through mw and reports the identity the
// terminal handler observed.
func doRequest(mw gin.HandlerFunc, authHeader string) (*httptest.ResponseRecorder, auth.Identity, bool) {
	w := httptest.NewRecorder()
	r := gin.New()
	var id auth.Identity
	var sawIdentity bool
	r.GET("/probe", mw, func(c *gin.Context) {
		id, sawIdentity = auth.CurrentIdentity(c)
		c.Status(http.StatusOK)
	})
	req := httptest.NewRequest(http.MethodGet, "/probe", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	r.ServeHTTP(w, req)
	return w, id, sawIdentity
}

func TestRequireAuthMissingToken(t *testing.T) {
	f := newAuthFixture(t)
	w, _, _ := doRequest(RequireAuth(f.svc, auth.ModeAuthenticated), "")
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d: %s", w.Code, w.Body.String())
	}
}

func TestRequireAuthAttachesIdentity(t *testing.T) {
	f := newAuthFixture(t)
	token := f.tokenFor(t, "sess-1", "user-1", models.StatusActive)

	w, id, ok := doRequest(RequireAuth(f.svc, auth.ModeAuthenticated), "Bearer "+token)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	if !ok {
		t.Fatal("expected identity in context")
	}
	if id.SessionID != "sess-1" || id.UserID != "user-1" {
		t.Fatalf("identity mismatch: %+v", id)
	}
}

func TestRequireAuthRejectsWrongMode(t *testing.T) {
	f := newAuthFixture(t)
	token := f.tokenFor(t, "sess-1", "user-1", models.StatusAnonymous)

	w, _, _ := doRequest(RequireAuth(f.svc, auth.ModeAuthenticated), "Bearer "+token)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d: %s", w.Code, w.Body.String())
	}
}

func TestOptionalAuthWithoutToken(t *testing.T) {
	f := newAuthFixture(t)
	w, _, ok := doRequest(OptionalAuth(f.svc), "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if ok {
		t.Fatal("no identity expected without a token")
	}
}

func TestOptionalAuthWithAnonymousToken(t *testing.T) {
	f := newAuthFixture(t)
	token := f.tokenFor(t, "sess-1", "anon-1", models.StatusAnonymous)

	w, id, ok := doRequest(OptionalAuth(f.svc), token)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	if !ok || id.UserID != "anon-1" {
		t.Fatalf("expected anonymous identity, got %+v (ok=%v)", id, ok)
	}
}

func TestOptionalAuthRejectsInvalidToken(t *testing.T) {
	f := newAuthFixture(t)
	w, _, _ := doRequest(OptionalAuth(f.svc), "Bearer garbage")
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", w.Code)
	}
}

func TestOptionalAuthRejectsActiveToken(t *testing.T) {
	f := newAuthFixture(t)
	token := f.tokenFor(t, "sess-1", "user-1", models.StatusActive)

	w, _, _ := doRequest(OptionalAuth(f.svc), token)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for non-anonymous token, got %d", w.Code)
	}
}

func TestNormalizeToken(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"", ""},
		{"   ", ""},
		{"abc.def.ghi", "abc.def.ghi"},
		{"Bearer abc.def.ghi", "abc.def.ghi"},
		{"bearer abc.def.ghi", "abc.def.ghi"},
		{"  Bearer   abc.def.ghi  ", "abc.def.ghi"},
	}
	for _, tc := range cases {
		if got := NormalizeToken(tc.in); got != tc.want {
			t.Fatalf("%q: want %q, got %q", tc.in, tc.want, got)
		}
	}
}

func TestCronAuth(t *testing.T) {
	handler := func(c *gin.Context) { c.Status(http.StatusOK) }

	w := httptest.NewRecorder()
	r := gin.New()
	r.POST("/cron", CronAuth("s3cret"), handler)

	req := httptest.NewRequest(http.MethodPost, "/cron", nil)
	req.Header.Set("X-Cron-Secret", "s3cret")
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 with correct secret, got %d", w.Code)
	}

	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodPost, "/cron", nil)
	req.Header.Set("X-Cron-Secret", "wrong")
	r.ServeHTTP(w, req)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 with wrong secret, got %d", w.Code)
	}

	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodPost, "/cron", nil)
	r.ServeHTTP(w, req)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 with missing secret, got %d", w.Code)
	}
}
