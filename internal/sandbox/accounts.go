package sandbox

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	domain "github.com/nadermx/heroesandmore-client/pkg/types"
)

// AccountsHandler serves sign-in, token renewal and the current profile.
type AccountsHandler struct {
	market *Market
}

// NewAccountsHandler creates a new AccountsHandler.
func NewAccountsHandler(m *Market) *AccountsHandler {
	return &AccountsHandler{market: m}
}

// LoginInput is the body of a password login.
type LoginInput struct {
	Body domain.LoginRequest
}

// RegisterInput is the body of an account registration.
type RegisterInput struct {
	Body domain.RegisterRequest
}

// RefreshInput carries the renewal token.
type RefreshInput struct {
	Body struct {
		Refresh string `json:"refresh" doc:"Renewal token"`
	}
}

// ProfileUpdateInput is the partial profile body.
type ProfileUpdateInput struct {
	Body domain.ProfileUpdate
}

// PasswordChangeInput is the password change body.
type PasswordChangeInput struct {
	Body domain.PasswordChange
}

// NotificationsUpdateInput is the partial notification settings body.
type NotificationsUpdateInput struct {
	Body domain.NotificationSettingsUpdate
}

// Detail is a one-line confirmation body.
type Detail struct {
	Detail string `json:"detail"`
}

func (h *AccountsHandler) Login(_ context.Context, in *LoginInput) (*body[domain.AuthTokens], error) {
	return respond(h.market.Login(in.Body.Username, in.Body.Password))
}

func (h *AccountsHandler) Register(_ context.Context, in *RegisterInput) (*body[domain.AuthTokens], error) {
	return respond(h.market.Register(in.Body))
}

func (h *AccountsHandler) Refresh(_ context.Context, in *RefreshInput) (*body[domain.AuthTokens], error) {
	return respond(h.market.Refresh(in.Body.Refresh))
}

func (h *AccountsHandler) Me(ctx context.Context, _ *struct{}) (*body[domain.Profile], error) {
	return respond(h.market.Profile(viewer(ctx)))
}

func (h *AccountsHandler) UpdateMe(ctx context.Context, in *ProfileUpdateInput) (*body[domain.Profile], error) {
	return respond(h.market.UpdateProfile(viewer(ctx), in.Body))
}

func (h *AccountsHandler) ChangePassword(ctx context.Context, in *PasswordChangeInput) (*body[Detail], error) {
	if err := h.market.ChangePassword(viewer(ctx), in.Body); err != nil {
		return nil, err
	}
	return &body[Detail]{Body: Detail{Detail: "Password updated."}}, nil
}

func (h *AccountsHandler) Notifications(ctx context.Context, _ *struct{}) (*body[domain.NotificationSettings], error) {
	return respond(h.market.NotificationSettings(viewer(ctx)))
}

func (h *AccountsHandler) UpdateNotifications(
	ctx context.Context,
	in *NotificationsUpdateInput,
) (*body[domain.NotificationSettings], error) {
	return respond(h.market.UpdateNotificationSettings(viewer(ctx), in.Body))
}

// RegisterAccountRoutes registers auth and profile endpoints.
func RegisterAccountRoutes(api huma.API, h *AccountsHandler) {
	huma.Register(api, huma.Operation{
		OperationID: "login",
		Method:      http.MethodPost,
		Path:        "/api/v1/auth/token/",
		Summary:     "Obtain a token pair",
		Tags:        []string{"auth"},
		Errors:      []int{http.StatusUnauthorized},
	}, h.Login)

	huma.Register(api, huma.Operation{
		OperationID: "refresh-token",
		Method:      http.MethodPost,
		Path:        "/api/v1/auth/token/refresh/",
		Summary:     "Renew an access token",
		Description: "Exchanges a renewal token for a new pair. The renewal token rotates.",
		Tags:        []string{"auth"},
		Errors:      []int{http.StatusUnauthorized},
	}, h.Refresh)

	huma.Register(api, huma.Operation{
		OperationID:   "register",
		Method:        http.MethodPost,
		Path:          "/api/v1/accounts/register/",
		Summary:       "Create an account",
		Tags:          []string{"auth"},
		DefaultStatus: http.StatusCreated,
		Errors:        []int{http.StatusBadRequest},
	}, h.Register)

	huma.Register(api, huma.Operation{
		OperationID: "get-me",
		Method:      http.MethodGet,
		Path:        "/api/v1/accounts/me/",
		Summary:     "Current profile",
		Tags:        []string{"accounts"},
		Security:    authenticated,
	}, h.Me)

	huma.Register(api, huma.Operation{
		OperationID: "update-me",
		Method:      http.MethodPatch,
		Path:        "/api/v1/accounts/me/",
		Summary:     "Update current profile",
		Tags:        []string{"accounts"},
		Security:    authenticated,
	}, h.UpdateMe)

	huma.Register(api, huma.Operation{
		OperationID: "change-password",
		Method:      http.MethodPost,
		Path:        "/api/v1/accounts/me/password/",
		Summary:     "Change password",
		Tags:        []string{"accounts"},
		Security:    authenticated,
		Errors:      []int{http.StatusBadRequest},
	}, h.ChangePassword)

	huma.Register(api, huma.Operation{
		OperationID: "get-notifications",
		Method:      http.MethodGet,
		Path:        "/api/v1/accounts/me/notifications/",
		Summary:     "Notification settings",
		Tags:        []string{"accounts"},
		Security:    authenticated,
	}, h.Notifications)

	huma.Register(api, huma.Operation{
		OperationID: "update-notifications",
		Method:      http.MethodPatch,
		Path:        "/api/v1/accounts/me/notifications/",
		Summary:     "Update notification settings",
		Tags:        []string{"accounts"},
		Security:    authenticated,
	}, h.UpdateNotifications)
}
