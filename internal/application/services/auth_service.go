package services

import (
	"net/url"
	"strings"
	"time"

	"github.com/summitcrest/realty/internal/config"
	"github.com/summitcrest/realty/pkg/auth"
	"github.com/summitcrest/realty/pkg/errors"
	"go.uber.org/zap"
)

const (
	adminSubject      = "admin"
	previewSubject    = "editor"
	defaultPreviewTTL = time.Hour
)

// Session is an issued cookie token
type Session struct {
	Token     string
	ExpiresAt time.Time
}

// AdminAuthService gates the back office behind a shared password
type AdminAuthService struct {
	signer       *auth.Signer
	password     string
	passwordHash string
	ttl          time.Duration
}

// NewAdminAuthService creates a new AdminAuthService
func NewAdminAuthService(signer *auth.Signer, cfg config.AdminConfig) *AdminAuthService {
	ttl := cfg.SessionTTL.Duration
	if ttl <= 0 {
		ttl = 8 * time.Hour
	}
	return &AdminAuthService{
		signer:       signer,
		password:     cfg.Password,
		passwordHash: cfg.PasswordHash,
		ttl:          ttl,
	}
}

// Configured reports whether any admin password is set
func (s *AdminAuthService) Configured() bool {
	return s.password != "" || s.passwordHash != ""
}

// Login checks the password and issues a session token.
// A bcrypt hash takes precedence over a plain password.
func (s *AdminAuthService) Login(password string) (*Session, error) {
	if !s.Configured() {
		return nil, errors.NewUnauthorizedError("admin login is not configured")
	}
	var ok bool
	if s.passwordHash != "" {
		ok = auth.VerifyPassword(password, s.passwordHash)
	} else {
		ok = auth.SecretEqual(password, s.password)
	}
	if !ok {
		zap.L().Warn("🔒 Admin login failed")
		return nil, errors.NewUnauthorizedError("invalid password")
	}

	token, expiresAt, err := s.signer.Issue(adminSubject, auth.AudienceAdmin, s.ttl)
	if err != nil {
		return nil, errors.NewInternalError("failed to issue session", err)
	}
	zap.L().Info("🔓 Admin logged in")
	return &Session{Token: token, ExpiresAt: expiresAt}, nil
}

// Validate checks an admin session token
func (s *AdminAuthService) Validate(token string) bool {
	if token == "" {
		return false
	}
	_, err := s.signer.Verify(token, auth.AudienceAdmin)
	return err == nil
}

// TTL is the admin session lifetime
func (s *AdminAuthService) TTL() time.Duration {
	return s.ttl
}

// PreviewService issues the draft-content preview cookie
type PreviewService struct {
	signer *auth.Signer
	secret string
	ttl    time.Duration
}

// NewPreviewService creates a new PreviewService
func NewPreviewService(signer *auth.Signer, secret string) *PreviewService {
	return &PreviewService{signer: signer, secret: secret, ttl: defaultPreviewTTL}
}

// Enable checks the shared preview secret and issues a preview token
func (s *PreviewService) Enable(secret string) (*Session, error) {
	if !auth.SecretEqual(secret, s.secret) {
		return nil, errors.NewUnauthorizedError("invalid preview secret")
	}
	token, expiresAt, err := s.signer.Issue(previewSubject, auth.AudiencePreview, s.ttl)
	if err != nil {
		return nil, errors.NewInternalError("failed to issue preview session", err)
	}
	return &Session{Token: token, ExpiresAt: expiresAt}, nil
}

// Validate checks a preview token
func (s *PreviewService) Validate(token string) bool {
	if token == "" {
		return false
	}
	_, err := s.signer.Verify(token, auth.AudiencePreview)
	return err == nil
}

// TTL is the preview session lifetime
func (s *PreviewService) TTL() time.Duration {
	return s.ttl
}

// SafeRedirect keeps preview redirects on this site
func SafeRedirect(target string) string {
	target = strings.TrimSpace(target)
	if target == "" || !strings.HasPrefix(target, "/") || strings.HasPrefix(target, "//") || strings.Contains(target, "\\") {
		return "/"
	}
	// Browsers drop tab and newline, so "/\t/host" would become "//host"
	if strings.IndexFunc(target, func(r rune) bool { return r < 0x20 || r == 0x7f }) >= 0 {
		return "/"
	}
	u, err := url.Parse(target)
	if err != nil || u.Scheme != "" || u.Host != "" {
		return "/"
	}
	return target
}
