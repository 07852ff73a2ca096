package cli

import (
	"errors"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/rentfolio/rentfolio/internal/auth"
	"github.com/rentfolio/rentfolio/internal/config"
	"github.com/rentfolio/rentfolio/internal/db"
	"github.com/rentfolio/rentfolio/internal/logging"
	"github.com/rentfolio/rentfolio/internal/web"
)

func newServeCmd() *cobra.Command {
	var (
		port   int
		dbPath string
		noAuth bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the API server",
		Long:  "Start the HTTP API server. Configuration comes from the environment (or a .env file); flags override it.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(port, dbPath, noAuth)
		},
	}

	cmd.Flags().IntVar(&port, "port", 0, "port to listen on (default: PORT or 8080)")
	cmd.Flags().StringVar(&dbPath, "db", "", "SQLite database path (default: DATABASE_PATH or rentfolio.db)")
	cmd.Flags().BoolVar(&noAuth, "no-auth", false, "disable token verification (development only)")

	return cmd
}

func runServe(port int, dbPath string, noAuth bool) error {
	cfg := config.Load()
	if port != 0 {
		cfg.Port = port
	}
	if dbPath != "" {
		cfg.DatabasePath = dbPath
	}

	logging.Setup(cfg.DevMode)

	var verifier *auth.Verifier
	switch {
	case noAuth:
		slog.Warn("token verification disabled, all requests are trusted")
	case cfg.AuthJWKS == "":
		return errors.New("AUTH_JWKS is not set; pass --no-auth to run without token verification")
	default:
		v, err := auth.NewVerifier(cfg.AuthJWKS, cfg.AuthIssuer)
		if err != nil {
			return err
		}
		verifier = v
	}

	pool := db.NewPool(cfg.DatabasePath)
	defer func() {
		if err := pool.Close(); err != nil {
			slog.Error("closing database", "error", err)
		}
	}()

	server := web.NewServer(pool, verifier)

	slog.Info("starting server", "port", cfg.Port, "db", cfg.DatabasePath, "auth", verifier != nil)
	return server.ListenAndServe(cfg.Port)
}
