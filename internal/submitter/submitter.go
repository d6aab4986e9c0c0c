// Package submitter implements the register and login form handlers: read the
// form, POST it as JSON, show the server's message, and on success store the
// session token and redirect.
package submitter

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/octobees/authform/internal/client"
	"github.com/octobees/authform/internal/dto"
	"github.com/octobees/authform/internal/page"
)

// Endpoints, pages and form control ids the handlers rely on.
const (
	RegisterPath = "/api/register"
	LoginPath    = "/api/login"

	LoginPage = "/login"
	HomePage  = "/"

	FieldName     = "name"
	FieldEmail    = "email"
	FieldPassword = "password"
	FieldRole     = "role"

	TokenCookie = "token"
	CookiePath  = "/"

	DefaultRedirectDelay = 1000 * time.Millisecond
)

// FormSubmitter wires the page to the auth backend. Calls are not
// de-duplicated: overlapping submissions race and the last write wins.
type FormSubmitter struct {
	page   page.Page
	poster client.Poster
	timers page.Scheduler
	delay  time.Duration
	logger *log.Logger
}

// Option customises a FormSubmitter.
type Option func(*FormSubmitter)

// WithRedirectDelay overrides the pause before navigating on success.
func WithRedirectDelay(d time.Duration) Option {
	return func(s *FormSubmitter) {
		if d >= 0 {
			s.delay = d
		}
	}
}

// WithLogger routes outcome lines to logger instead of the standard logger.
func WithLogger(logger *log.Logger) Option {
	return func(s *FormSubmitter) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// New constructs a FormSubmitter.
func New(p page.Page, poster client.Poster, timers page.Scheduler, opts ...Option) *FormSubmitter {
	s := &FormSubmitter{
		page:   p,
		poster: poster,
		timers: timers,
		delay:  DefaultRedirectDelay,
		logger: log.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Register submits the registration form and, on success, redirects to the
// login page after the redirect delay. Transport or decode failures are
// returned and leave the page untouched.
func (s *FormSubmitter) Register(ctx context.Context) error {
	req := dto.RegistrationRequest{
		Name:     s.page.FieldValue(FieldName),
		Email:    s.page.FieldValue(FieldEmail),
		Password: s.page.FieldValue(FieldPassword),
		Role:     s.page.FieldValue(FieldRole),
	}

	var result dto.AuthResponse
	status, err := s.poster.PostJSON(ctx, RegisterPath, req, &result)
	if err != nil {
		s.logger.Printf("action=register outcome=failed err=%v", err)
		return fmt.Errorf("register: %w", err)
	}

	s.page.SetMessage(result.DisplayText())
	if !isSuccess(status) {
		s.logger.Printf("action=register outcome=rejected status=%d", status)
		return nil
	}

	s.logger.Printf("action=register outcome=ok status=%d redirect=%s", status, LoginPage)
	s.redirect(LoginPage)
	return nil
}

// Login submits the login form. On success it stores the token cookie and
// redirects to the home page after the redirect delay.
func (s *FormSubmitter) Login(ctx context.Context) error {
	req := dto.LoginRequest{
		Email:    s.page.FieldValue(FieldEmail),
		Password: s.page.FieldValue(FieldPassword),
	}

	var result dto.AuthResponse
	status, err := s.poster.PostJSON(ctx, LoginPath, req, &result)
	if err != nil {
		s.logger.Printf("action=login outcome=failed err=%v", err)
		return fmt.Errorf("login: %w", err)
	}

	s.page.SetMessage(result.DisplayText())
	if !isSuccess(status) {
		s.logger.Printf("action=login outcome=rejected status=%d", status)
		return nil
	}

	if result.Token != "" {
		s.page.SetCookie(TokenCookie, result.Token, CookiePath)
	} else {
		s.logger.Printf("action=login warning=missing_token status=%d", status)
	}

	s.logger.Printf("action=login outcome=ok status=%d redirect=%s", status, HomePage)
	s.redirect(HomePage)
	return nil
}

func (s *FormSubmitter) redirect(target string) {
	p := s.page
	s.timers.AfterFunc(s.delay, func() {
		p.Navigate(target)
	})
}

func isSuccess(status int) bool {
	return status >= 200 && status <= 299
}
