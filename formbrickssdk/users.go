package formbrickssdk

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"
)

// User is a member of a team.
type User struct {
	ID        uuid.UUID `json:"id"`
	Email     string    `json:"email"`
	Username  string    `json:"username"`
	CreatedAt time.Time `json:"created_at"`
}

// CreateFirstUserRequest bootstraps an empty deployment.
type CreateFirstUserRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required,min=8"`
}

// CreateFirstUserResponse returns the IDs of everything the bootstrap
// created: the user, their team, the default product, and its production
// environment.
type CreateFirstUserResponse struct {
	UserID        uuid.UUID `json:"user_id"`
	TeamID        uuid.UUID `json:"team_id"`
	ProductID     uuid.UUID `json:"product_id"`
	EnvironmentID uuid.UUID `json:"environment_id"`
}

type LoginWithPasswordRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type LoginWithPasswordResponse struct {
	SessionToken string `json:"session_token"`
}

// CreateFirstUser attempts to create the first user on a deployment.
// It only works when no users exist.
func (c *Client) CreateFirstUser(ctx context.Context, req CreateFirstUserRequest) (CreateFirstUserResponse, error) {
	res, err := c.Request(ctx, http.MethodPost, "/api/v2/users/first", req)
	if err != nil {
		return CreateFirstUserResponse{}, err
	}
	if res.StatusCode != http.StatusCreated {
		return CreateFirstUserResponse{}, readBodyAsError(res)
	}
	var resp CreateFirstUserResponse
	return resp, readJSON(res, &resp)
}

// LoginWithPassword creates a session token.
func (c *Client) LoginWithPassword(ctx context.Context, req LoginWithPasswordRequest) (LoginWithPasswordResponse, error) {
	res, err := c.Request(ctx, http.MethodPost, "/api/v2/users/login", req)
	if err != nil {
		return LoginWithPasswordResponse{}, err
	}
	if res.StatusCode != http.StatusCreated {
		return LoginWithPasswordResponse{}, readBodyAsError(res)
	}
	var resp LoginWithPasswordResponse
	return resp, readJSON(res, &resp)
}

// User returns the user authenticated by the session token.
func (c *Client) User(ctx context.Context) (User, error) {
	res, err := c.Request(ctx, http.MethodGet, "/api/v2/users/me", nil)
	if err != nil {
		return User{}, err
	}
	if res.StatusCode != http.StatusOK {
		return User{}, readBodyAsError(res)
	}
	var user User
	return user, readJSON(res, &user)
}
