package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"hoopcompare/backend"
	"hoopcompare/config"
	"hoopcompare/db"
	"hoopcompare/logger"
	"hoopcompare/nba"
	"hoopcompare/panel"
	"hoopcompare/scrape"
	"hoopcompare/statsapi"
	"hoopcompare/web"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

const (
	mountTimeout    = 30 * time.Second
	janitorInterval = 10 * time.Minute
	shutdownTimeout = 10 * time.Second
)

func main() {
	cfg, err := config.LoadConfig(os.Args[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	log, err := logger.New(cfg.Prod)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer log.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, os.Interrupt)
	defer stop()

	if cfg.Backend {
		err = runBackend(ctx, cfg, log)
	} else {
		err = runPanel(ctx, cfg, log)
	}
	if err != nil {
		log.Errorw("exiting", "error", err)
		os.Exit(1)
	}
}

func runPanel(ctx context.Context, cfg *config.Config, log *zap.SugaredLogger) error {
	api := statsapi.New(cfg.APIURL, cfg.RequestTimeout)
	roster := panel.NewRoster(api, log)
	go func() {
		lctx, cancel := context.WithTimeout(ctx, mountTimeout)
		defer cancel()
		roster.Load(lctx)
	}()
	go roster.Refresh(ctx, cfg.ScrapeInterval)

	sessions := web.NewSessions(
		func() *panel.Panel { return panel.New(api, roster, log) },
		func(p *panel.Panel) {
			go func() {
				mctx, cancel := context.WithTimeout(ctx, mountTimeout)
				defer cancel()
				p.Mount(mctx)
			}()
		},
	)
	go sessions.Janitor(ctx, janitorInterval, cfg.SessionTTL)

	log.Infow("starting comparison panel", "addr", cfg.Addr, "api_url", cfg.APIURL)
	return serve(ctx, web.NewServer(sessions, cfg.SessionTTL, log), cfg.Addr)
}

func runBackend(ctx context.Context, cfg *config.Config, log *zap.SugaredLogger) error {
	store, err := db.SetupDatabase(cfg.DatabaseFile)
	if err != nil {
		return err
	}
	defer func() {
		log.Info("closing database...")
		if err := store.Close(); err != nil {
			log.Errorw("closing database", "error", err)
		}
	}()

	client := nba.NewClient(nba.BaseURL, cfg.NBARequestsPS, cfg.RequestTimeout)
	scraper := scrape.New(client, store, log)
	go scraper.Daemon(ctx, cfg.ScrapeInterval)

	log.Infow("starting stats service", "addr", cfg.Addr, "db", cfg.DatabaseFile)
	return serve(ctx, backend.NewServer(store, scraper, log), cfg.Addr)
}

// serve runs e until ctx is done, then shuts it down gracefully.
func serve(ctx context.Context, e *echo.Echo, addr string) error {
	errc := make(chan error, 1)
	go func() {
		errc <- e.Start(addr)
	}()

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return e.Shutdown(sctx)
}
