package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	intconfig "github.com/leapstack-labs/autorest/internal/config"
	"github.com/leapstack-labs/autorest/internal/server"
	"github.com/leapstack-labs/autorest/internal/state"
)

// NewServeCommand creates the serve command.
func NewServeCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the database tables as a REST API",
		Long: `Connect to the target database, discover its tables and serve each one
under /api/{table}.

Query parameters select columns (select=a,b), filter rows (col=op.value),
order (order=col.desc) and paginate (limit, offset). The schema can be
reloaded without a restart with --watch.`,
		Example: `  # Serve on the default address
  autorest serve

  # Serve on a custom address without recording request metrics
  autorest serve --addr 127.0.0.1:8080 --disable-metrics

  # Reload the schema whenever autorest.yaml changes
  autorest serve --watch`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd)
		},
	}

	cmd.Flags().String("addr", "", fmt.Sprintf("Listen address (default: %s)", server.DefaultAddr))
	cmd.Flags().Bool("disable-metrics", false, "Do not record requests in the journal")
	cmd.Flags().Bool("watch", false, "Reload the schema when the config file changes")

	return cmd
}

func runServe(cmd *cobra.Command) error {
	cc, cleanup, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	reg, err := cc.Engine.Discover(ctx)
	if err != nil {
		return err
	}
	if reg.Len() == 0 {
		cc.Logger.Warn("no tables discovered", "schema", cc.Cfg.Target.Schema)
	}

	srvCfg := server.Config{
		Engine:         cc.Engine,
		Addr:           cc.Cfg.Addr,
		DisableMetrics: cc.Cfg.DisableMetrics,
		Watch:          cc.Cfg.Watch,
		ConfigPath:     cc.Cfg.ConfigFile,
		Reload:         reloadFunc(cc),
		Logger:         cc.Logger,
	}

	if cc.Cfg.JournalPath != "" {
		journal := state.NewSQLiteStore(cc.Logger)
		if err := journal.Open(cc.Cfg.JournalPath); err != nil {
			return fmt.Errorf("failed to open request journal: %w", err)
		}
		defer func() { _ = journal.Close() }()
		srvCfg.Journal = journal
	}

	if cc.Cfg.Watch && cc.Cfg.ConfigFile == "" {
		cc.Logger.Warn("--watch ignored: no config file in use")
	}

	return server.New(srvCfg).Serve(ctx)
}

// reloadFunc re-reads the table filter from the config file and rediscovers
// the schema.
func reloadFunc(cc *CommandContext) func(ctx context.Context) error {
	return func(ctx context.Context) error {
		if cc.Cfg.ConfigFile != "" {
			pc, err := intconfig.LoadFile(cc.Cfg.ConfigFile)
			if err != nil {
				return err
			}
			if err := cc.Engine.SetTables(pc.Tables.RegistryOptions()); err != nil {
				return err
			}
		}
		reg, err := cc.Engine.Discover(ctx)
		if err != nil {
			return err
		}
		cc.Logger.Debug("schema reloaded", "tables", reg.TableNames())
		return nil
	}
}
