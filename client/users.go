package client

import (
	"context"
	"net/http"
	"net/url"

	"github.com/andrejsstepanovs/collab/models"
	"github.com/opus-domini/fast-shot/constant/mime"
)

func (c *Client) Users(ctx context.Context) ([]models.User, error) {
	var users []models.User
	if err := get(ctx, c, "/users", &users); err != nil {
		return nil, err
	}
	return users, nil
}

func (c *Client) User(ctx context.Context, id string) (models.User, error) {
	var user models.User
	if err := get(ctx, c, "/users/"+url.PathEscape(id), &user); err != nil {
		return models.User{}, err
	}
	return user, nil
}

// CurrentUser returns the profile of the signed in user.
func (c *Client) CurrentUser(ctx context.Context) (models.User, error) {
	var user models.User
	if err := get(ctx, c, "/users/me", &user); err != nil {
		return models.User{}, err
	}
	return user, nil
}

func (c *Client) UpdateProfile(ctx context.Context, update models.ProfileUpdate) (models.MessageResponse, error) {
	const path = "/users/me"

	resp, err := c.prepare(ctx, c.api.PUT(c.endpoint(path)), mime.JSON).
		Body().AsJSON(update).
		Send()

	var res models.MessageResponse
	if err := finish(ctx, c, http.MethodPut, path, resp, err, &res); err != nil {
		return models.MessageResponse{}, err
	}
	return res, nil
}

func get[T any](ctx context.Context, c *Client, path string, result *T) error {
	resp, err := c.prepare(ctx, c.api.GET(c.endpoint(path)), "").Send()

	return finish(ctx, c, http.MethodGet, path, resp, err, result)
}
