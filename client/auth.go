package client

import (
	"context"
	"net/http"

	"github.com/andrejsstepanovs/collab/models"
	"github.com/opus-domini/fast-shot/constant/mime"
)

// DefaultRoles is sent with every registration.
var DefaultRoles = []string{"user"}

// SignIn posts the credentials and returns the server answer as is. The caller
// decides what a missing token means.
func (c *Client) SignIn(ctx context.Context, creds models.Credentials) (models.AuthResponse, error) {
	const path = "/auth/signin"

	req := c.prepare(ctx, c.api.POST(c.endpoint(path)), mime.JSON)

	c.log.Debug().Str("username", creds.Username).Str("base_url", c.baseURL).Msg("signing in")
	resp, err := req.Body().AsJSON(creds).Send()

	var res models.AuthResponse
	if err := finish(ctx, c, http.MethodPost, path, resp, err, &res); err != nil {
		return models.AuthResponse{}, err
	}
	return res, nil
}

// SignUp registers a new account. It does not sign in.
func (c *Client) SignUp(ctx context.Context, reg models.Registration) error {
	const path = "/auth/signup"

	if len(reg.Role) == 0 {
		reg.Role = DefaultRoles
	}

	req := c.prepare(ctx, c.api.POST(c.endpoint(path)), mime.JSON)

	c.log.Debug().Str("username", reg.Username).Str("base_url", c.baseURL).Msg("registering")
	resp, err := req.Body().AsJSON(reg).Send()

	return finish[models.MessageResponse](ctx, c, http.MethodPost, path, resp, err, nil)
}
