// Package tracker parses tracker command flags and runs the MCP server.
package tracker

import (
	"context"
	"flag"
	"log"

	"github.com/louvel/greatwheel/internal/combat/session"
	"github.com/louvel/greatwheel/internal/mcp/service"
	"github.com/louvel/greatwheel/internal/platform/cmd"
	"github.com/louvel/greatwheel/internal/platform/config"
	"github.com/louvel/greatwheel/internal/storage/sqlite"
)

// Config holds tracker command configuration.
type Config struct {
	DBPath        string `env:"GREATWHEEL_DB_PATH"         envDefault:"greatwheel.db"`
	MaxEventDepth int    `env:"GREATWHEEL_MAX_EVENT_DEPTH" envDefault:"16"`
}

// ParseConfig parses environment and flags into a Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := config.ParseEnv(&cfg); err != nil {
		return Config{}, err
	}

	fs.StringVar(&cfg.DBPath, "db", cfg.DBPath, "path to the SQLite snapshot database")
	fs.IntVar(&cfg.MaxEventDepth, "max-event-depth", cfg.MaxEventDepth, "maximum nested event trigger depth")
	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Run starts the combat tracker MCP server on stdio.
func Run(ctx context.Context, cfg Config) error {
	return cmd.RunWithTelemetry(ctx, cmd.ServiceTracker, func(ctx context.Context) error {
		store, err := sqlite.Open(cfg.DBPath)
		if err != nil {
			return err
		}
		defer func() {
			if err := store.Close(); err != nil {
				log.Printf("close snapshot store: %v", err)
			}
		}()

		sess := session.New(session.Options{MaxEventDepth: cfg.MaxEventDepth})
		server, err := service.New(sess, store)
		if err != nil {
			return err
		}
		return server.Run(ctx)
	})
}
