// Package web serves the console API.
package web

import (
	"context"
	"errors"
	"net"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/adaptor"
	"github.com/gofiber/fiber/v3/middleware/recover"
	"github.com/gofiber/fiber/v3/middleware/requestid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"

	"github.com/atelier-market/admin-console/internal/config"
	fiberlogger "github.com/atelier-market/admin-console/internal/logger/adapter/fiber"
	"github.com/atelier-market/admin-console/internal/web/handler"
	"github.com/atelier-market/admin-console/internal/web/handler/account"
	"github.com/atelier-market/admin-console/internal/web/handler/login"
	"github.com/atelier-market/admin-console/internal/web/handler/menu"
	"github.com/atelier-market/admin-console/internal/web/handler/notices"
	"github.com/atelier-market/admin-console/internal/web/handler/permissions"
)

// CheckAlivePath answers 200 while the service accepts traffic and 503 during
// a graceful shutdown.
const CheckAlivePath = "/checkalive"

// MetricsPath serves the Prometheus metrics.
const MetricsPath = "/metrics"

// ErrNilConfig is returned by New without a configuration.
var ErrNilConfig = errors.New("config cannot be nil")

// Service represents the web service.
type Service struct {
	App          *fiber.App
	cfg          *config.Config
	fastShutDown bool
	alive        atomic.Bool
}

// New creates the web service and registers every handler.
func New(cfg *config.Config, deps *handler.Deps) (*Service, error) {
	if cfg == nil {
		return nil, ErrNilConfig
	}

	if deps == nil {
		return nil, handler.ErrNilDeps
	}

	app := fiber.New(
		fiber.Config{
			ReadBufferSize: 8192,
			AppName:        cfg.Title,
			CaseSensitive:  true,
			Immutable:      true,
		},
	)

	if !cfg.Webserver.DisableRecover {
		app.Use(recover.New())
	}

	app.Use(requestid.New())
	app.Use(fiberlogger.New(fiberlogger.Config{Config: cfg.Log, CheckAliveURI: CheckAlivePath}))

	service := &Service{
		App:          app,
		cfg:          cfg,
		fastShutDown: cfg.DevMode,
	}
	service.alive.Store(true)

	app.Get(CheckAlivePath, service.checkAlive)
	app.Get(MetricsPath, adaptor.HTTPHandler(promhttp.Handler()))

	api := app.Group(handler.APIPrefix)

	services := []handler.Service{
		&login.Service{},
		&account.Service{},
		&menu.Service{},
		&notices.Service{},
		&permissions.Service{},
	}

	for _, svc := range services {
		if err := svc.Init(api, deps); err != nil {
			return nil, err
		}
	}

	return service, nil
}

func (s *Service) checkAlive(c fiber.Ctx) error {
	if !s.alive.Load() {
		return c.SendStatus(fiber.StatusServiceUnavailable)
	}

	return c.SendString("OK")
}

// Addr returns the configured listen address.
func (s *Service) Addr() string {
	return net.JoinHostPort(s.cfg.Webserver.Host, strconv.Itoa(s.cfg.Webserver.Port))
}

// Start serves on addr until Shutdown is called.
func (s *Service) Start(addr string) error {
	log.Info().Str("addr", addr).Msg("starting web service")

	return s.App.Listen(addr, fiber.ListenConfig{DisableStartupMessage: true})
}

// Shutdown stops the service. Unless fast shutdown is configured, /checkalive
// fails for Webserver.ShutDownTime seconds first so load balancers can drain
// the instance.
func (s *Service) Shutdown(ctx context.Context) error {
	s.alive.Store(false)

	if !s.fastShutDown && s.cfg.Webserver.ShutDownTime > 0 {
		log.Info().Msgf(
			"graceful shutdown: return 503 while %d seconds to let LB to remove this pod from active targets",
			s.cfg.Webserver.ShutDownTime,
		)

		select {
		case <-time.After(time.Duration(s.cfg.Webserver.ShutDownTime) * time.Second):
		case <-ctx.Done():
		}
	}

	log.Info().Msg("stopping http server ...")

	if err := s.App.ShutdownWithContext(ctx); err != nil {
		return err
	}

	log.Info().Msg("http server was stopped ... good bye...")

	return nil
}
