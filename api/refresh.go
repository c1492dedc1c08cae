package api

import (
	"context"
	"encoding/json"
	"io"
	"net/http"

	"github.com/pkg/errors"
	"golang.org/x/sync/singleflight"
)

// refresher de-duplicates concurrent refresh calls: requests that hit 401
// at the same time share a single in-flight exchange instead of racing the
// refresh endpoint.
type refresher struct {
	group singleflight.Group
}

// refreshAccessToken exchanges the cookie-borne refresh credential for a new
// access token and persists it. The expired bearer token is deliberately not
// sent; the refresh endpoint trusts the transport-level credential only.
func (c *Client) refreshAccessToken(ctx context.Context) (string, error) {
	token, err, _ := c.refresh.group.Do("refresh-token", func() (interface{}, error) {
		return c.exchangeRefreshToken(ctx)
	})
	if err != nil {
		return "", err
	}
	return token.(string), nil
}

func (c *Client) exchangeRefreshToken(ctx context.Context) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+refreshPath, http.NoBody)
	if err != nil {
		return "", errors.Wrap(err, "[Client.exchangeRefreshToken] http.NewRequestWithContext")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return "", networkError(err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", networkError(err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", statusError(resp.StatusCode, body)
	}

	var payload struct {
		AccessToken string `json:"accessToken"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return "", errors.Wrap(err, "[Client.exchangeRefreshToken] decode response")
	}
	if payload.AccessToken == "" {
		return "", errors.New("[Client.exchangeRefreshToken] response carried no access token")
	}

	if err := c.storage.SetAccessToken(payload.AccessToken); err != nil {
		return "", errors.Wrap(err, "[Client.exchangeRefreshToken] persist access token")
	}

	c.log.Debug().Msg("access token refreshed")
	return payload.AccessToken, nil
}
