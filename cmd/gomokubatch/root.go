package main

import (
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/e8yes/gomokubatch/internal/config"
	"github.com/e8yes/gomokubatch/internal/logging"
	"github.com/e8yes/gomokubatch/internal/sampler"
)

type app struct {
	configPath string
	flags      config.Config
	cfg        config.Config
	logger     zerolog.Logger
}

func newRootCmd() *cobra.Command {
	var a = &app{flags: config.Default()}

	var cmd = &cobra.Command{
		Use:          "gomokubatch",
		Short:        "Draw augmented gomoku training batches from recorded games",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.load(cmd)
		},
	}

	var f = cmd.PersistentFlags()
	f.StringVarP(&a.configPath, "config", "c", "", "Path to TOML config file")
	f.StringVar(&a.flags.Store.Driver, "driver", a.flags.Store.Driver, "Row store: postgres, sqlite or memory")
	f.StringVar(&a.flags.Store.DSN, "dsn", a.flags.Store.DSN, "Store connection string, or a JSON lines file for memory")
	f.IntVar(&a.flags.Store.MostRecent, "most-recent", a.flags.Store.MostRecent, "Sample only the newest rows, 0 for all")
	f.IntVar(&a.flags.Sampler.BatchSize, "batch-size", a.flags.Sampler.BatchSize, "Rows per batch before augmentation")
	f.Int64Var(&a.flags.Sampler.Seed, "seed", a.flags.Sampler.Seed, "Partition hash seed")
	f.StringVar(&a.flags.Sampler.Purpose, "purpose", a.flags.Sampler.Purpose, "Game purpose: self_play or human")
	f.StringVar(&a.flags.Sampler.Partition, "partition", a.flags.Sampler.Partition, "Partition: all, training or testing")
	f.BoolVar(&a.flags.Sampler.Augment, "augment", a.flags.Sampler.Augment, "Expand every row into its 16 variants")
	f.IntVar(&a.flags.Engine.Workers, "workers", a.flags.Engine.Workers, "Worker goroutines, 0 for one per CPU")
	f.StringVar(&a.flags.Log.Level, "log-level", a.flags.Log.Level, "Log level")
	f.StringVar(&a.flags.Log.Format, "log-format", a.flags.Log.Format, "Log format: console or json")

	cmd.AddCommand(
		countCmd(a),
		dumpCmd(a),
		importCmd(a),
		serveMetricsCmd(a),
	)
	return cmd
}

// load reads the config file and lets explicitly set flags override it.
func (a *app) load(cmd *cobra.Command) error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}

	var flags = cmd.Flags()
	var overrides = []struct {
		name  string
		apply func()
	}{
		{"driver", func() { cfg.Store.Driver = a.flags.Store.Driver }},
		{"dsn", func() { cfg.Store.DSN = a.flags.Store.DSN }},
		{"most-recent", func() { cfg.Store.MostRecent = a.flags.Store.MostRecent }},
		{"batch-size", func() { cfg.Sampler.BatchSize = a.flags.Sampler.BatchSize }},
		{"seed", func() { cfg.Sampler.Seed = a.flags.Sampler.Seed }},
		{"purpose", func() { cfg.Sampler.Purpose = a.flags.Sampler.Purpose }},
		{"partition", func() { cfg.Sampler.Partition = a.flags.Sampler.Partition }},
		{"augment", func() { cfg.Sampler.Augment = a.flags.Sampler.Augment }},
		{"workers", func() { cfg.Engine.Workers = a.flags.Engine.Workers }},
		{"log-level", func() { cfg.Log.Level = a.flags.Log.Level }},
		{"log-format", func() { cfg.Log.Format = a.flags.Log.Format }},
		{"addr", func() { cfg.Metrics.Addr = a.flags.Metrics.Addr }},
	}
	for _, o := range overrides {
		if flags.Changed(o.name) {
			o.apply()
		}
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger, err := logging.New("gomokubatch", cfg.Log.Level, cfg.Log.Format, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	a.cfg = cfg
	a.logger = logger
	a.logger.Debug().Interface("config", cfg).Msg("config")
	return nil
}

func (a *app) newSampler(source sampler.RowSource) *sampler.Sampler {
	return sampler.New(source, sampler.Options{
		Seed:       a.cfg.Sampler.Seed,
		MostRecent: a.cfg.Store.MostRecent,
		Workers:    a.cfg.Engine.Workers,
		Logger:     a.logger,
	})
}
