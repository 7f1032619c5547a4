package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"social-web/internal/session"
	"social-web/internal/user"
)

var (
	ErrInvalid       = errors.New("auth: invalid input")
	ErrNoAccessToken = errors.New("auth: no access token in login response")
)

type API interface {
	Get(ctx context.Context, path string, out any) error
	Post(ctx context.Context, path string, in, out any) error
}

// Tokens is where a successful login is kept.
type Tokens interface {
	Save(ctx context.Context, t session.Tokens) error
	RefreshToken(ctx context.Context) (string, error)
	Purge(ctx context.Context) error
}

// InvalidError carries the validation failures of a form.
type InvalidError struct {
	Fields []FieldError
}

func (e *InvalidError) Error() string {
	parts := make([]string, len(e.Fields))
	for i := range e.Fields {
		parts[i] = e.Fields[i].Error()
	}
	return strings.Join(parts, "; ")
}

func (e *InvalidError) Is(target error) bool { return target == ErrInvalid }

func check(v any) error {
	if fields := Validate(v); len(fields) > 0 {
		return &InvalidError{Fields: fields}
	}
	return nil
}

type Service struct {
	api    API
	tokens Tokens
	log    *logrus.Entry
}

func NewService(api API, tokens Tokens, log *logrus.Entry) *Service {
	return &Service{api: api, tokens: tokens, log: log.WithField("component", "auth")}
}

func (s *Service) Register(ctx context.Context, req RegisterRequest) error {
	req.Email = strings.TrimSpace(req.Email)
	req.Nickname = strings.TrimSpace(req.Nickname)
	if err := check(req); err != nil {
		return err
	}
	if err := s.api.Post(ctx, "auth/register", req, nil); err != nil {
		return fmt.Errorf("register: %w", err)
	}
	s.log.WithField("email", req.Email).Info("user registered")
	return nil
}

// Login exchanges credentials for tokens and stores both in the session.
func (s *Service) Login(ctx context.Context, req LoginRequest) error {
	req.Email = strings.TrimSpace(req.Email)
	if err := check(req); err != nil {
		return err
	}
	var res LoginResponse
	if err := s.api.Post(ctx, "auth/login", req, &res); err != nil {
		return fmt.Errorf("login: %w", err)
	}
	if res.AccessToken == "" {
		return ErrNoAccessToken
	}
	if err := s.tokens.Save(ctx, session.Tokens{AccessToken: res.AccessToken, RefreshToken: res.RefreshToken}); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	s.log.WithField("user_id", session.Subject(res.AccessToken)).Info("user logged in")
	return nil
}

// Logout revokes the refresh token when there is one. Revocation failures
// are only logged; local credentials are dropped regardless.
func (s *Service) Logout(ctx context.Context) error {
	refresh, err := s.tokens.RefreshToken(ctx)
	if err != nil {
		s.log.WithError(err).Warn("read refresh token")
	}
	if refresh != "" {
		if err := s.api.Post(ctx, "auth/logout", logoutRequest{RefreshToken: refresh}, nil); err != nil {
			s.log.WithError(err).Warn("logout request failed")
		}
	}
	return s.tokens.Purge(ctx)
}

func (s *Service) Me(ctx context.Context) (*user.User, error) {
	var u user.User
	if err := s.api.Get(ctx, "users/me", &u); err != nil {
		return nil, fmt.Errorf("current user: %w", err)
	}
	return &u, nil
}

// ForgotPassword only validates the form; the API has no reset flow.
func (s *Service) ForgotPassword(req ForgotPasswordRequest) error {
	req.Email = strings.TrimSpace(req.Email)
	return check(req)
}
