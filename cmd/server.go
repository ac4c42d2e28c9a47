package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/shopassist/shopassist/internal/bots"
	"github.com/shopassist/shopassist/internal/catalog"
	"github.com/shopassist/shopassist/internal/intent"
	"github.com/shopassist/shopassist/internal/server"
	"github.com/shopassist/shopassist/internal/session"
)

var serverPort int

var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Start the LINE webhook server",
	Long:  `Starts the shopassist HTTP server: the LINE webhook, the session and intent APIs, and /healthz.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if err := cfg.ValidateServer(); err != nil {
			return err
		}
		if serverPort > 0 {
			cfg.Server.Port = serverPort
		}

		log := newLogger(cfg)
		defer log.Sync()

		database, err := openDatabase(cfg)
		if err != nil {
			return err
		}
		defer database.Close()

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		// Intent matcher.
		intentStore := intent.NewStore(database)
		matcher, index, err := buildMatcher(ctx, cfg, intentStore, log, false)
		if err != nil {
			return err
		}

		// Sessions.
		sessionStore := session.NewStore(database)
		sessions := session.NewCachedStore(sessionStore, cfg.Session.CacheTTL)

		// Catalog.
		scraper := catalog.NewHTMLScraper(catalog.ScraperOptions{
			Timeout:     cfg.Timeouts.Catalog,
			UserAgent:   cfg.Catalog.UserAgent,
			MaxProducts: cfg.Catalog.MaxProducts,
		})

		rewriter, err := createRewriterFromConfig(cfg, log)
		if err != nil {
			return err
		}

		processor := bots.NewProcessor(matcher, sessions, scraper, bots.ProcessorOptions{
			SessionTimeout: cfg.Timeouts.Session,
			CatalogTimeout: cfg.Timeouts.Catalog,
			Logger:         log,
		})
		gateway := bots.NewGateway(processor)
		lineClient := bots.NewLineClient(cfg.Line.APIBaseURL, cfg.Line.ChannelAccessToken, cfg.Timeouts.Reply)
		lineHandler := bots.NewLineHandler(gateway, cfg.Line.ChannelSecret, bots.NewLineRenderer(rewriter), lineClient, log)

		srv := server.New(server.Config{
			Port:     cfg.Server.Port,
			AllowAll: cfg.Server.AllowAllOrigins,
		}, database, log)

		r := srv.Router()
		bots.RegisterRoutes(r, lineHandler)
		session.RegisterRoutes(r, sessionStore)
		intent.RegisterRoutes(r, intentStore, matcher)

		// Graceful shutdown.
		go func() {
			<-ctx.Done()
			log.Info("shutting down server")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				log.Warn("shutdown", zap.Error(err))
			}
		}()

		fmt.Fprintf(os.Stderr, "shopassist server %s starting on port %d\n", Version, cfg.Server.Port)
		fmt.Fprintf(os.Stderr, "  Database: %s\n", database.Path())
		fmt.Fprintf(os.Stderr, "  Intent phrases: %d\n", index.Len())
		fmt.Fprintf(os.Stderr, "  Rewrite: %v\n", rewriter.Enabled())

		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	},
}

func init() {
	serverCmd.Flags().IntVar(&serverPort, "port", 0, "override server.port from the config")
	rootCmd.AddCommand(serverCmd)
}
