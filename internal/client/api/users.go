package api

import (
	"context"

	"github.com/vetsoap/vetsoap-go/internal/client/models"
)

// Users wraps the /api/users surface.
type Users struct {
	c *Client
}

func NewUsers(c *Client) *Users {
	return &Users{c: c}
}

// Me fetches the authenticated user's profile.
func (u *Users) Me(ctx context.Context) (*models.User, error) {
	var user models.User
	if err := u.c.Get(ctx, "/api/users/me", nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}
