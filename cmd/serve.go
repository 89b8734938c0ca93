package main

import (
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/YessenBoranbay/2gis-lead-generator/internal/engine"
	"github.com/YessenBoranbay/2gis-lead-generator/internal/fetcher"
	"github.com/YessenBoranbay/2gis-lead-generator/internal/web"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the web UI server",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		// Each search run gets its own browser, released when the run
		// finishes.
		factory := func() (web.SearchRunner, func() error, error) {
			f, err := fetcher.NewChrome(fetcher.Options{
				Headless:    cfg.Scraper.Headless,
				UserAgent:   cfg.Scraper.UserAgent,
				NavTimeout:  time.Duration(cfg.Scraper.NavTimeoutSecs) * time.Second,
				SettleDelay: time.Duration(cfg.Scraper.SettleDelaySecs) * time.Second,
			})
			if err != nil {
				return nil, nil, err
			}
			e := engine.New(f, engine.Options{
				MaxPages:    cfg.Scraper.MaxPages,
				PageDelay:   time.Duration(cfg.Scraper.PageDelaySecs) * time.Second,
				EnrichDelay: time.Duration(cfg.Scraper.EnrichDelaySecs) * time.Second,
			})
			return e, f.Close, nil
		}

		port := servePort
		if port == 0 {
			port = cfg.Server.Port
		}

		srv := &http.Server{
			Addr:    fmt.Sprintf(":%d", port),
			Handler: web.NewServer(factory).Router(),
		}

		// Graceful shutdown
		go func() {
			<-ctx.Done()
			zap.L().Info("shutting down server")
			srv.Shutdown(ctx)
		}()

		zap.L().Info("starting server", zap.Int("port", port))
		cmd.Printf("Веб-интерфейс: http://localhost:%d\n", port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return eris.Wrap(err, "server listen")
		}

		return nil
	},
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "server port (default from config)")
	rootCmd.AddCommand(serveCmd)
}
