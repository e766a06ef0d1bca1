package user

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strings"

	"ecocollect/internal/api"
	"ecocollect/internal/auth"
)

// Repository is the Auth/User API surface.
type Repository interface {
	Login(ctx context.Context, email, password string) (string, error)
	Register(ctx context.Context, req RegisterRequest) error
	ForgotPassword(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, email, token, newPassword string) error
	ConfirmEmail(ctx context.Context, email, token string) error
	SelectRole(ctx context.Context, role auth.Role) error
	Profile(ctx context.Context) (*Profile, error)
	Points(ctx context.Context) (*Points, error)
}

type repository struct {
	client *api.Client
}

func NewRepository(client *api.Client) Repository {
	return &repository{client: client}
}

func (r *repository) Login(ctx context.Context, email, password string) (string, error) {
	body := map[string]string{"email": email, "password": password}

	var resp struct {
		Token string `json:"token"`
	}
	err := r.client.Post(ctx, "/Auth/login", body, &resp)
	if err != nil {
		if api.StatusOf(err) == http.StatusUnauthorized || api.StatusOf(err) == http.StatusBadRequest {
			return "", ErrInvalidCredentials
		}
		return "", err
	}
	return resp.Token, nil
}

func (r *repository) Register(ctx context.Context, req RegisterRequest) error {
	err := r.client.Post(ctx, "/Auth/register", req, nil)
	if err != nil {
		var apiErr *api.Error
		if errors.As(err, &apiErr) && strings.Contains(strings.ToLower(apiErr.Message), "email") {
			return ErrEmailExists
		}
		return err
	}
	return nil
}

func (r *repository) ForgotPassword(ctx context.Context, email string) error {
	return r.client.Post(ctx, "/Auth/forgot-password", map[string]string{"email": email}, nil)
}

func (r *repository) ResetPassword(ctx context.Context, email, token, newPassword string) error {
	body := map[string]string{
		"email":       email,
		"token":       token,
		"newPassword": newPassword,
	}
	return r.client.Post(ctx, "/Auth/reset-password", body, nil)
}

func (r *repository) ConfirmEmail(ctx context.Context, email, token string) error {
	query := url.Values{"email": {email}, "token": {token}}
	return r.client.Get(ctx, "/Auth/confirm-email?"+query.Encode(), nil)
}

func (r *repository) SelectRole(ctx context.Context, role auth.Role) error {
	return r.client.Put(ctx, "/User/role", map[string]string{"role": string(role)}, nil)
}

func (r *repository) Profile(ctx context.Context) (*Profile, error) {
	var p Profile
	err := r.client.Get(ctx, "/User/profile", &p)
	if err != nil {
		if api.StatusOf(err) == http.StatusNotFound {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &p, nil
}

func (r *repository) Points(ctx context.Context) (*Points, error) {
	var pts Points
	if err := r.client.Get(ctx, "/User/points", &pts); err != nil {
		return nil, err
	}
	return &pts, nil
}
