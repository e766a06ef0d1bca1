package user

import (
	"context"
	"errors"
	"fmt"

	"ecocollect/internal/api"
	"ecocollect/internal/auth"
	"ecocollect/internal/logger"
	"ecocollect/internal/notify"
	"ecocollect/internal/session"

	"go.uber.org/zap"
)

type Service interface {
	Login(ctx context.Context, email, password string) error
	Logout() error
	Register(ctx context.Context, req RegisterRequest) error
	ForgotPassword(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, email, token, newPassword string) error
	ConfirmEmail(ctx context.Context, email, token string) error
	SelectRole(ctx context.Context, role auth.Role) error
	Profile(ctx context.Context) (*Profile, error)
	Points(ctx context.Context) (*Points, error)
}

type service struct {
	repo  Repository
	sess  *session.Session
	queue *notify.Queue
}

func NewService(repo Repository, sess *session.Session, queue *notify.Queue) Service {
	return &service{repo: repo, sess: sess, queue: queue}
}

// Login exchanges credentials for a token and establishes the local
// session from its decoded claims.
func (s *service) Login(ctx context.Context, email, password string) error {
	token, err := s.repo.Login(ctx, email, password)
	if err != nil {
		return s.fail(ctx, "login", err)
	}

	if err := s.sess.Establish(token); err != nil {
		return fmt.Errorf("persist session: %w", err)
	}

	logger.FromCtx(ctx).Info("logged in",
		zap.String("email", email),
		zap.String("role", string(s.sess.Role())),
	)
	return nil
}

// Logout clears the session. Safe to call when already logged out.
func (s *service) Logout() error {
	return s.sess.Clear()
}

func (s *service) Register(ctx context.Context, req RegisterRequest) error {
	if err := s.repo.Register(ctx, req); err != nil {
		return s.fail(ctx, "register", err)
	}

	if s.queue != nil {
		s.queue.Push(notify.LevelSuccess, "Registered. Check your email to confirm your account.")
	}
	return nil
}

func (s *service) ForgotPassword(ctx context.Context, email string) error {
	if err := s.repo.ForgotPassword(ctx, email); err != nil {
		return s.fail(ctx, "forgot password", err)
	}
	return nil
}

func (s *service) ResetPassword(ctx context.Context, email, token, newPassword string) error {
	if err := s.repo.ResetPassword(ctx, email, token, newPassword); err != nil {
		return s.fail(ctx, "reset password", err)
	}
	return nil
}

func (s *service) ConfirmEmail(ctx context.Context, email, token string) error {
	if err := s.repo.ConfirmEmail(ctx, email, token); err != nil {
		return s.fail(ctx, "confirm email", err)
	}
	return nil
}

// SelectRole records the one-time role choice, backend first, then the
// local session.
func (s *service) SelectRole(ctx context.Context, role auth.Role) error {
	if role == auth.RoleNone {
		return fmt.Errorf("a role must be chosen")
	}
	if err := s.repo.SelectRole(ctx, role); err != nil {
		return s.fail(ctx, "select role", err)
	}
	return s.sess.SelectRole(role)
}

func (s *service) Profile(ctx context.Context) (*Profile, error) {
	p, err := s.repo.Profile(ctx)
	if err != nil {
		return nil, s.fail(ctx, "fetch profile", err)
	}
	return p, nil
}

func (s *service) Points(ctx context.Context) (*Points, error) {
	pts, err := s.repo.Points(ctx)
	if err != nil {
		return nil, s.fail(ctx, "fetch points", err)
	}
	return pts, nil
}

func (s *service) fail(ctx context.Context, op string, err error) error {
	if s.queue != nil {
		s.queue.Push(notify.LevelError, userMessage(err))
	}
	logger.FromCtx(ctx).Error(op, zap.Error(err))
	return err
}

// userMessage prefers the package sentinels over the generic API
// taxonomy so auth forms can show precise text.
func userMessage(err error) string {
	switch {
	case errors.Is(err, ErrInvalidCredentials):
		return "Invalid email or password."
	case errors.Is(err, ErrEmailExists):
		return "This email is already registered."
	case errors.Is(err, ErrUserNotFound):
		return "The requested user was not found."
	default:
		return api.UserMessage(err)
	}
}
