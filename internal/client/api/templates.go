package api

import (
	"context"
	"strconv"

	"github.com/vetsoap/vetsoap-go/internal/client/models"
)

// Templates wraps the /api/templates surface.
type Templates struct {
	c *Client
}

func NewTemplates(c *Client) *Templates {
	return &Templates{c: c}
}

// List fetches note templates. activeOnly restricts the result to
// templates currently offered for new recordings.
func (t *Templates) List(ctx context.Context, activeOnly bool) (*models.TemplatePage, error) {
	params := map[string]string{"limit": "100"}
	if activeOnly {
		params["isActive"] = strconv.FormatBool(true)
	}

	var page models.TemplatePage
	if err := t.c.Get(ctx, "/api/templates", params, &page); err != nil {
		return nil, err
	}
	return &page, nil
}
