package auth

import (
	"context"

	"github.com/gongxings/ai-creator/pipeline"
	"github.com/gongxings/ai-creator/sessions"
	"github.com/gongxings/ai-creator/users"
)

// Backend endpoints, relative to the API base URL
const (
	PathLogin          = "/v1/auth/login"
	PathRegister       = "/v1/auth/register"
	PathRefresh        = "/v1/auth/refresh"
	PathMe             = "/v1/auth/me"
	PathChangePassword = "/v1/auth/change-password"
	PathCreditBalance  = "/v1/credit/balance"
)

type LoginRequest struct {
	Username string `json:"username"` // Username or email
	Password string `json:"password"`
}

type RegisterRequest struct {
	Username        string  `json:"username"`
	Email           string  `json:"email"`
	Password        string  `json:"password"`
	ConfirmPassword string  `json:"confirm_password"`
	Nickname        *string `json:"nickname,omitempty"`
}

type TokenResponse struct {
	AccessToken  string         `json:"access_token"`
	RefreshToken string         `json:"refresh_token"`
	TokenType    string         `json:"token_type"`
	ExpiresIn    int            `json:"expires_in"`     // Seconds
	User         *users.Profile `json:"user,omitempty"` // Sent by login, absent on refresh
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

type PasswordChange struct {
	OldPassword string `json:"old_password"`
	NewPassword string `json:"new_password"`
}

// ProfileUpdate carries the user editable profile fields. Nil fields are left unchanged.
type ProfileUpdate struct {
	Nickname *string `json:"nickname,omitempty"`
	Avatar   *string `json:"avatar,omitempty"`
	Phone    *string `json:"phone,omitempty"`
}

// API is the typed client for the account endpoints. Every call goes through
// the request pipeline.
type API struct {
	exec pipeline.Executor
}

var _ sessions.ProfileFetcher = (*API)(nil)

func NewAPI(exec pipeline.Executor) *API {
	return &API{exec: exec}
}

func (a *API) Login(ctx context.Context, req LoginRequest) (TokenResponse, error) {
	return pipeline.Call[TokenResponse](ctx, a.exec, pipeline.Post(PathLogin, req).AsPublic())
}

func (a *API) Register(ctx context.Context, req RegisterRequest) (*users.Profile, error) {
	return pipeline.Call[*users.Profile](ctx, a.exec, pipeline.Post(PathRegister, req).AsPublic())
}

func (a *API) Refresh(ctx context.Context, refreshToken string) (TokenResponse, error) {
	d := pipeline.Post(PathRefresh, refreshRequest{RefreshToken: refreshToken}).AsPublic()
	return pipeline.Call[TokenResponse](ctx, a.exec, d)
}

func (a *API) FetchProfile(ctx context.Context) (*users.Profile, error) {
	return pipeline.Call[*users.Profile](ctx, a.exec, pipeline.Get(PathMe, nil))
}

func (a *API) FetchBalance(ctx context.Context) (users.Balance, error) {
	return pipeline.Call[users.Balance](ctx, a.exec, pipeline.Get(PathCreditBalance, nil))
}

func (a *API) UpdateProfile(ctx context.Context, update ProfileUpdate) (*users.Profile, error) {
	return pipeline.Call[*users.Profile](ctx, a.exec, pipeline.Put(PathMe, update))
}

func (a *API) ChangePassword(ctx context.Context, change PasswordChange) error {
	return a.exec.Execute(ctx, pipeline.Post(PathChangePassword, change)).Err()
}
