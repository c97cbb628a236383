package client

import (
	"context"
	"net/http"

	"github.com/nadermx/heroesandmore-client/internal/gateway"
	domain "github.com/nadermx/heroesandmore-client/pkg/types"
)

// Login exchanges a username and password for a credential pair and
// stores it.
func (c *Client) Login(ctx context.Context, req domain.LoginRequest) error {
	if err := c.check(req); err != nil {
		return err
	}
	return c.issue(ctx, "/auth/token/", req)
}

// Register creates an account and stores the returned credential pair.
func (c *Client) Register(ctx context.Context, req domain.RegisterRequest) error {
	if err := c.check(req); err != nil {
		return err
	}
	return c.issue(ctx, "/accounts/register/", req)
}

// LoginWithGoogle exchanges a Google identity token for a credential pair.
func (c *Client) LoginWithGoogle(ctx context.Context, idToken string) error {
	req := domain.SocialLoginRequest{IDToken: idToken}
	if err := c.check(req); err != nil {
		return err
	}
	return c.issue(ctx, "/auth/google/", req)
}

// LoginWithApple exchanges an Apple identity token for a credential pair.
func (c *Client) LoginWithApple(ctx context.Context, req domain.SocialLoginRequest) error {
	if err := c.check(req); err != nil {
		return err
	}
	return c.issue(ctx, "/auth/apple/", req)
}

// issue posts to a credential-issuing endpoint. A 401 here means bad
// credentials, not an expired session, so renewal is skipped.
func (c *Client) issue(ctx context.Context, path string, body any) error {
	var tokens domain.AuthTokens
	err := c.gw.Execute(ctx, gateway.Request{
		Method:      http.MethodPost,
		Path:        path,
		Body:        body,
		SkipRenewal: true,
	}, &tokens)
	if err != nil {
		return err
	}
	return c.gw.StartSession(ctx, tokens)
}

// Logout clears the stored session. It makes no network call.
func (c *Client) Logout(ctx context.Context) error {
	return c.gw.EndSession(ctx)
}

// CurrentUser returns the signed-in user's profile.
func (c *Client) CurrentUser(ctx context.Context) (*domain.Profile, error) {
	var p domain.Profile
	if err := c.gw.Get(ctx, "/accounts/me/", nil, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// UpdateProfile changes the set fields of the signed-in user's profile.
func (c *Client) UpdateProfile(ctx context.Context, upd domain.ProfileUpdate) (*domain.Profile, error) {
	if err := c.check(upd); err != nil {
		return nil, err
	}
	var p domain.Profile
	if err := c.gw.Patch(ctx, "/accounts/me/", upd, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// ChangePassword changes the signed-in user's password.
func (c *Client) ChangePassword(ctx context.Context, req domain.PasswordChange) error {
	if err := c.check(req); err != nil {
		return err
	}
	return c.gw.Post(ctx, "/accounts/me/password/", req, nil)
}

// RequestPasswordReset asks the marketplace to email a reset link.
func (c *Client) RequestPasswordReset(ctx context.Context, email string) error {
	req := domain.PasswordResetRequest{Email: email}
	if err := c.check(req); err != nil {
		return err
	}
	return c.gw.Execute(ctx, gateway.Request{
		Method:      http.MethodPost,
		Path:        "/auth/password/reset/",
		Body:        req,
		SkipRenewal: true,
	}, nil)
}

// ConfirmPasswordReset sets a new password using the emailed uid and token.
func (c *Client) ConfirmPasswordReset(ctx context.Context, req domain.PasswordResetConfirm) error {
	if err := c.check(req); err != nil {
		return err
	}
	return c.gw.Execute(ctx, gateway.Request{
		Method:      http.MethodPost,
		Path:        "/auth/password/reset/confirm/",
		Body:        req,
		SkipRenewal: true,
	}, nil)
}

func (c *Client) NotificationSettings(ctx context.Context) (*domain.NotificationSettings, error) {
	var s domain.NotificationSettings
	if err := c.gw.Get(ctx, "/accounts/me/notifications/", nil, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

func (c *Client) UpdateNotificationSettings(
	ctx context.Context,
	upd domain.NotificationSettingsUpdate,
) (*domain.NotificationSettings, error) {
	var s domain.NotificationSettings
	if err := c.gw.Patch(ctx, "/accounts/me/notifications/", upd, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

// UploadAvatar replaces the signed-in user's avatar with a JPEG image.
func (c *Client) UploadAvatar(ctx context.Context, image []byte) (*domain.Profile, error) {
	var p domain.Profile
	err := c.gw.Upload(ctx,
		gateway.Request{Method: http.MethodPost, Path: "/accounts/me/avatar/"},
		gateway.FilePart{Field: "image", Filename: "avatar.jpg", ContentType: "image/jpeg", Data: image},
		nil, &p,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}
