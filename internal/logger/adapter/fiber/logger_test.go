package fiber_test

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	adapter "github.com/atelier-market/admin-console/internal/logger/adapter/fiber"

	"github.com/atelier-market/admin-console/internal/logger"
)

// accessEntry implements the access log json format.
type accessEntry struct {
	Status    int    `json:"status"`
	URI       string `json:"URI"`
	Method    string `json:"method"`
	Host      string `json:"host"`
	RequestID string `json:"X-Request-ID"`
	Error     string `json:"error"`
}

func TestNew(t *testing.T) {
	tests := []struct {
		name       string
		targetPath string
		requestID  string
		config     adapter.Config
		want       *accessEntry
	}{
		{
			name:       "get /",
			targetPath: "/",
			want:       &accessEntry{Status: 200, URI: "/", Method: fiber.MethodGet, Host: "example.com"},
		},
		{
			name:       "get with params",
			targetPath: "/?test=123",
			want:       &accessEntry{Status: 200, URI: "/?test=123", Method: fiber.MethodGet, Host: "example.com"},
		},
		{
			name:       "not found",
			targetPath: "/missing",
			want: &accessEntry{
				Status: 404, URI: "/missing", Method: fiber.MethodGet, Host: "example.com", Error: fiber.ErrNotFound.Message,
			},
		},
		{
			name:       "handler error",
			targetPath: "/fail",
			want: &accessEntry{
				Status: 418, URI: "/fail", Method: fiber.MethodGet, Host: "example.com", Error: "teapot",
			},
		},
		{
			name:       "request id",
			targetPath: "/",
			requestID:  "6f1c1f5e-3c1a-4a53-9a43-6c3e0b7a6a01",
			want: &accessEntry{
				Status: 200, URI: "/", Method: fiber.MethodGet, Host: "example.com",
				RequestID: "6f1c1f5e-3c1a-4a53-9a43-6c3e0b7a6a01",
			},
		},
		{
			name:       "check alive is not logged",
			targetPath: "/checkalive",
			config: adapter.Config{
				Config:        logger.Log{DisableCheckAlive: true},
				CheckAliveURI: "/checkalive",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer

			cfg := tt.config
			cfg.Output = &out

			app := fiber.New()
			app.Use(adapter.New(cfg))
			app.Get("/", func(c fiber.Ctx) error {
				return c.SendString("hello test")
			})
			app.Get("/checkalive", func(c fiber.Ctx) error {
				return c.SendStatus(fiber.StatusOK)
			})
			app.Get("/fail", func(_ fiber.Ctx) error {
				return fiber.ErrTeapot
			})

			req := httptest.NewRequest(fiber.MethodGet, tt.targetPath, nil)
			if tt.requestID != "" {
				req.Header.Set(fiber.HeaderXRequestID, tt.requestID)
			}

			resp, err := app.Test(req)
			require.NoError(t, err)

			if tt.want == nil {
				assert.Empty(t, out.String())
				return
			}

			var got accessEntry
			require.NoError(t, json.Unmarshal(out.Bytes(), &got))

			assert.Equal(t, tt.want.Status, got.Status)
			assert.Equal(t, tt.want.Status, resp.StatusCode)
			assert.Equal(t, tt.want.URI, got.URI)
			assert.Equal(t, tt.want.Method, got.Method)
			assert.Equal(t, tt.want.Host, got.Host)
			assert.Equal(t, tt.want.RequestID, got.RequestID)

			if tt.want.Error == "" {
				assert.Empty(t, got.Error)
				assert.NotEmpty(t, resp.Header.Get("X-Performance"))
			} else {
				assert.Contains(t, got.Error, tt.want.Error)
			}
		})
	}
}

func TestNew_Skip(t *testing.T) {
	var out bytes.Buffer

	app := fiber.New()
	app.Use(adapter.New(adapter.Config{
		Output: &out,
		Next:   func(c fiber.Ctx) bool { return c.Path() == "/" },
	}))
	app.Get("/", func(c fiber.Ctx) error {
		return c.SendString("hello test")
	})

	_, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/", nil))
	require.NoError(t, err)
	assert.Empty(t, out.String())
}
