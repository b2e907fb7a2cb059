// Package backend talks to the admin REST API of the marketplace. It implements
// the collaborators of the login flow and of the refresh daemon.
package backend

import (
	"context"
	"fmt"
	"maps"
	"net/http"
	"time"

	"github.com/gofiber/fiber/v3/client"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/atelier-market/admin-console/internal/authflow"
	"github.com/atelier-market/admin-console/internal/refresh"
	"github.com/atelier-market/admin-console/internal/session"
)

const (
	pathLogin   = "/admin/auth/login"
	pathVerify  = "/admin/auth/2fa/verify"
	pathRefresh = "/admin/auth/refresh"
	pathLogout  = "/admin/auth/logout"

	headerRequestID     = "X-Request-ID"
	headerAuthorization = "Authorization"
)

const defaultTimeout = 10 * time.Second

// Client is the HTTP client of the admin API.
type Client struct {
	http *client.Client
	now  func() time.Time
}

var (
	_ authflow.Backend  = (*Client)(nil)
	_ refresh.Refresher = (*Client)(nil)
)

// New creates a client for the API at baseURL.
func New(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	cc := client.New().
		SetBaseURL(baseURL).
		SetTimeout(timeout)

	return &Client{http: cc, now: time.Now}
}

// Login checks the credentials of an administrator.
func (c *Client) Login(ctx context.Context, email, password string) (authflow.LoginResult, error) {
	var res loginResponse

	status, err := c.post(ctx, pathLogin, nil, loginRequest{Email: email, Password: password}, &res)
	if err != nil {
		return authflow.LoginResult{}, err
	}

	switch {
	case status == http.StatusUnauthorized:
		return authflow.LoginResult{}, authflow.ErrInvalidCredentials
	case !success(status):
		return authflow.LoginResult{}, unexpected(pathLogin, status)
	}

	out := authflow.LoginResult{
		RequiresTwoFactor: res.RequiresTwoFactor,
		TempToken:         res.TempToken,
		ActorIDHint:       res.UserID,
		Permissions:       permissions(res.Permissions),
		Tokens:            res.tokens(c.now()),
	}

	if res.User != nil {
		actor := res.User.actor()
		out.Actor = &actor
	}

	return out, nil
}

// VerifyTwoFactor completes a two-factor login.
func (c *Client) VerifyTwoFactor(ctx context.Context, tempToken, code string, actorID uint64) (authflow.VerifyResult, error) {
	var res verifyResponse

	body := verifyRequest{TempToken: tempToken, Code: code, UserID: actorID}

	status, err := c.post(ctx, pathVerify, nil, body, &res)
	if err != nil {
		return authflow.VerifyResult{}, err
	}

	switch {
	case status == http.StatusBadRequest, status == http.StatusUnauthorized:
		return authflow.VerifyResult{}, authflow.ErrInvalidTwoFactorCode
	case !success(status):
		return authflow.VerifyResult{}, unexpected(pathVerify, status)
	}

	return authflow.VerifyResult{
		Actor:       res.User.actor(),
		Permissions: permissions(res.Permissions),
		Tokens:      res.tokens(c.now()),
	}, nil
}

// Refresh exchanges a refresh token for a new token pair.
func (c *Client) Refresh(ctx context.Context, refreshToken string) (session.Tokens, error) {
	var res tokenPayload

	status, err := c.post(ctx, pathRefresh, nil, refreshRequest{RefreshToken: refreshToken}, &res)
	if err != nil {
		return session.Tokens{}, err
	}

	switch {
	case status == http.StatusBadRequest, status == http.StatusUnauthorized, status == http.StatusForbidden:
		return session.Tokens{}, refresh.ErrRefreshTokenInvalid
	case !success(status):
		return session.Tokens{}, unexpected(pathRefresh, status)
	case res.AccessToken == "":
		return session.Tokens{}, fmt.Errorf("%w: refresh response without access token", authflow.ErrNetwork)
	}

	return res.tokens(c.now()), nil
}

// InvalidateSession ends the server-side session of accessToken. An already
// invalid token counts as success.
func (c *Client) InvalidateSession(ctx context.Context, accessToken string) error {
	header := map[string]string{
		headerAuthorization: session.Tokens{AccessToken: accessToken}.AuthorizationHeader(),
	}

	status, err := c.post(ctx, pathLogout, header, nil, nil)
	if err != nil {
		return err
	}

	if !success(status) && status != http.StatusUnauthorized {
		return unexpected(pathLogout, status)
	}

	return nil
}

// post sends a JSON request and decodes a successful JSON answer into out.
// Transport errors and 5xx answers are returned as network failures; any other
// status is returned for the caller to map.
func (c *Client) post(ctx context.Context, path string, header map[string]string, body, out any) (int, error) {
	requestID := uuid.NewString()

	headers := map[string]string{
		headerRequestID: requestID,
		"Accept":        "application/json",
	}
	maps.Copy(headers, header)

	cfg := client.Config{Ctx: ctx, Header: headers}
	if body != nil {
		cfg.Body = body
	}

	resp, err := c.http.Post(path, cfg)
	if err != nil {
		log.Error().Err(err).Str("path", path).Str("request_id", requestID).Msg("admin api request failed")
		return 0, fmt.Errorf("%w: %s: %w", authflow.ErrNetwork, path, err)
	}
	defer resp.Close()

	status := resp.StatusCode()

	log.Debug().Str("path", path).Int("status", status).Str("request_id", requestID).Msg("admin api request")

	if status >= http.StatusInternalServerError {
		return status, fmt.Errorf("%w: %s: %s", authflow.ErrNetwork, path, reason(resp, status))
	}

	if !success(status) {
		log.Warn().Str("path", path).Int("status", status).Str("reason", reason(resp, status)).Msg("admin api rejected request")
		return status, nil
	}

	if out != nil && len(resp.Body()) > 0 {
		if err := resp.JSON(out); err != nil {
			return status, fmt.Errorf("%w: %s: decode response: %w", authflow.ErrNetwork, path, err)
		}
	}

	return status, nil
}

func reason(resp *client.Response, status int) string {
	var e errorResponse

	if len(resp.Body()) > 0 && resp.JSON(&e) == nil && e.Message != "" {
		return e.Message
	}

	return http.StatusText(status)
}

func success(status int) bool {
	return status >= http.StatusOK && status < http.StatusMultipleChoices
}

func unexpected(path string, status int) error {
	return fmt.Errorf("%w: %s: unexpected status %d", authflow.ErrNetwork, path, status)
}
