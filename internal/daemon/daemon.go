// Package daemon wires the console together: session store, session state,
// backend client, login flow, refresh daemon, gate and web service.
package daemon

import (
	"context"
	"errors"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/pquerna/otp"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/atelier-market/admin-console/internal/authflow"
	"github.com/atelier-market/admin-console/internal/backend"
	"github.com/atelier-market/admin-console/internal/config"
	"github.com/atelier-market/admin-console/internal/db"
	"github.com/atelier-market/admin-console/internal/db/controller/sessionstore"
	"github.com/atelier-market/admin-console/internal/gate"
	"github.com/atelier-market/admin-console/internal/notice"
	"github.com/atelier-market/admin-console/internal/refresh"
	"github.com/atelier-market/admin-console/internal/session"
	"github.com/atelier-market/admin-console/internal/web"
	"github.com/atelier-market/admin-console/internal/web/handler"
	"github.com/atelier-market/admin-console/internal/web/middleware/auth"
	"github.com/atelier-market/admin-console/internal/web/navigation"
)

// ErrNilConfig is returned by New without a configuration.
var ErrNilConfig = errors.New("config is nil")

const shutdownGrace = 10 * time.Second

// Daemon represents the main application daemon.
type Daemon struct {
	cfg *config.Config
	db  *gorm.DB

	Session    *session.State
	Controller *authflow.Controller
	Refresh    *refresh.Daemon
	Gate       *gate.Gate
	Notices    *notice.Board
	Menu       []navigation.Section

	webService *web.Service
}

// New creates a new Daemon instance with the provided configuration. The
// session is not restored yet; Start and Restore do that.
func New(cfg *config.Config) (*Daemon, error) {
	if cfg == nil {
		return nil, ErrNilConfig
	}

	conn, err := db.Open(cfg.Store)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}

	store, err := sessionstore.New(conn, cfg.Store.Name)
	if err != nil {
		return nil, err
	}

	sess := session.New(store)
	board := notice.NewBoard(0)
	client := backend.New(cfg.Backend.URL, cfg.Backend.Timeout)
	g := gate.New(sess)

	d := &Daemon{
		cfg:     cfg,
		db:      conn,
		Session: sess,
		Controller: authflow.New(sess, client,
			authflow.WithNotifier(board),
			authflow.WithDigits(otp.Digits(cfg.TwoFactor.Digits)),
		),
		Refresh: refresh.New(sess, client, board, refresh.Config{
			Leeway:     cfg.Refresh.Leeway,
			Interval:   cfg.Refresh.Interval,
			MaxRetries: cfg.Refresh.MaxRetries,
			RetryDelay: cfg.Refresh.RetryDelay,
		}),
		Gate:    g,
		Notices: board,
		Menu:    navigation.Default(),
	}

	d.webService, err = web.New(cfg, &handler.Deps{
		Config:     cfg,
		Session:    sess,
		Controller: d.Controller,
		Gate:       g,
		Guard:      auth.New(sess, g),
		Notices:    board,
		Menu:       d.Menu,
	})
	if err != nil {
		return nil, err
	}

	return d, nil
}

// Restore loads the persisted session and blocks until it is ready.
func (d *Daemon) Restore(ctx context.Context) {
	d.Session.Restore(ctx)
}

// Start serves the console until ctx ends or SIGINT/SIGTERM arrives. The
// session is restored in the background; until then the gate answers pending.
func (d *Daemon) Start(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go d.Session.Restore(ctx)
	go d.Refresh.Run(ctx)

	serveErr := make(chan error, 1)

	go func() {
		serveErr <- d.webService.Start(d.webService.Addr())
	}()

	var err error

	select {
	case <-ctx.Done():
		log.Info().Msg("shutdown requested")
	case err = <-serveErr:
		log.Error().Err(err).Msg("web service stopped")
	}

	d.Refresh.Stop()
	<-d.Refresh.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(),
		time.Duration(d.cfg.Webserver.ShutDownTime)*time.Second+shutdownGrace)
	defer cancel()

	if shutdownErr := d.webService.Shutdown(shutdownCtx); shutdownErr != nil {
		log.Error().Err(shutdownErr).Msg("web service shutdown failed")
	}

	return errors.Join(err, d.Close())
}

// Close releases the database connection.
func (d *Daemon) Close() error {
	sqlDB, err := d.db.DB()
	if err != nil {
		return err
	}

	return sqlDB.Close()
}
