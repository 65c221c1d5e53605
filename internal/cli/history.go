package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/sugilayout/sugilayout/pkg/history"
)

// historyCommand creates the history command for inspecting a past layout
// run recorded by the API server.
func (c *CLI) historyCommand() *cobra.Command {
	var (
		mongoURI string
		mongoDB  string
	)

	cmd := &cobra.Command{
		Use:   "history [run-id]",
		Short: "Look up a past layout run's stats",
		Long: `Look up a past layout run recorded by 'serve' when --mongo-uri was
set: the graph's hash and size, the configuration used, the number of
stages run and the total run time.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runHistory(cmd.Context(), args[0], mongoURI, mongoDB)
		},
	}

	cmd.Flags().StringVar(&mongoURI, "mongo-uri", "mongodb://localhost:27017", "mongo connection URI")
	cmd.Flags().StringVar(&mongoDB, "mongo-db", "sugilayout", "mongo database name")

	return cmd
}

func (c *CLI) runHistory(ctx context.Context, runID, mongoURI, mongoDB string) error {
	connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	store, err := history.NewMongoStore(connectCtx, mongoURI, mongoDB)
	cancel()
	if err != nil {
		return fmt.Errorf("connect to history store: %w", err)
	}
	defer store.Close(ctx)

	run, err := store.Get(ctx, runID)
	if err != nil {
		return err
	}

	printKeyValue("run_id", run.RunID)
	printKeyValue("graph_hash", run.GraphHash)
	printKeyValue("created_at", run.CreatedAt.Format(time.RFC3339))
	printStats(run.NodeCount, run.EdgeCount, false)
	printDetail("rank_dir=%s node_sep=%g rank_sep=%g simplex=%v", run.Config.RankDir, run.Config.NodeSep, run.Config.RankSep, run.Config.UseSimplex)
	printDetail("%d stages in %s", len(run.StageNames), time.Duration(run.Duration))

	return nil
}
