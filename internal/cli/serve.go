package cli

import (
	"context"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/sugilayout/sugilayout/pkg/api"
	"github.com/sugilayout/sugilayout/pkg/cache"
	"github.com/sugilayout/sugilayout/pkg/history"
)

// serveCommand creates the serve command for running the HTTP API.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr      string
		redisAddr string
		mongoURI  string
		mongoDB   string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the layout HTTP API",
		Long: `Run the HTTP API: POST /v1/layouts computes a layout for a posted
graph, GET /v1/layouts/{id} looks up a previous run's stats.

Pass --redis-addr to share a cache across API instances; without it, each
request is computed fresh. Pass --mongo-uri (and optionally --mongo-db) to
persist run history; without it, run history is discarded after response.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runServe(cmd.Context(), addr, redisAddr, mongoURI, mongoDB)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", ":8080", "listen address")
	cmd.Flags().StringVar(&redisAddr, "redis-addr", "", "redis address for shared caching (e.g. localhost:6379)")
	cmd.Flags().StringVar(&mongoURI, "mongo-uri", "", "mongo connection URI for run history (e.g. mongodb://localhost:27017)")
	cmd.Flags().StringVar(&mongoDB, "mongo-db", "sugilayout", "mongo database name for run history")

	return cmd
}

func (c *CLI) runServe(ctx context.Context, addr, redisAddr, mongoURI, mongoDB string) error {
	var cacheImpl cache.Cache
	if redisAddr != "" {
		rc, err := cache.NewRedisCache(redisAddr)
		if err != nil {
			return err
		}
		cacheImpl = rc
	} else {
		cacheImpl = cache.NewNullCache()
	}
	defer cacheImpl.Close()

	var store history.Store = history.NullStore{}
	if mongoURI != "" {
		connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
		ms, err := history.NewMongoStore(connectCtx, mongoURI, mongoDB)
		cancel()
		if err != nil {
			return err
		}
		store = ms
		defer store.Close(ctx)
	}

	srv := api.NewServer(cacheImpl, store, c.Logger)
	c.Logger.Info("serving layout API", "addr", addr)
	httpServer := &http.Server{Addr: addr, Handler: srv.Router()}
	return httpServer.ListenAndServe()
}
