package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"curator/internal/catalog"
	"curator/internal/config"
	"curator/internal/consolidate"
	"curator/internal/logging"
	"curator/internal/services"
	"curator/internal/taxonomy"
)

func runConsolidation(cmd *cobra.Command, configPath string) error {
	cfg, _, _, err := config.Load(configPath)
	if err != nil {
		return services.Wrap(services.ErrConfiguration, "cli", "load config", "", err)
	}

	logger, err := logging.NewWithFile(logging.Options{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Writer: cmd.ErrOrStderr(),
	}, cfg.Paths.LogDir)
	if err != nil {
		return services.Wrap(services.ErrConfiguration, "cli", "build logger", "", err)
	}

	tax, err := taxonomy.Load(cfg.Paths.TaxonomyPath)
	if err != nil {
		return services.Wrap(services.ErrConfiguration, "cli", "load taxonomy",
			"cannot classify without category rules (create one at "+cfg.Paths.TaxonomyPath+")", err)
	}

	opts := []consolidate.Option{}
	store, err := catalog.Open(cfg)
	if err != nil {
		logger.Warn("run history disabled", logging.Error(err))
	} else {
		defer store.Close()
		opts = append(opts, consolidate.WithCatalog(store))
	}

	if progress := newProgressRenderer(cmd.OutOrStdout()); progress != nil {
		defer progress.Close()
		opts = append(opts, consolidate.WithProgress(progress.Update))
	}

	summary, err := consolidate.New(cfg, tax, logger, opts...).Run(cmd.Context())
	if err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), renderSummary(summary))
	if summary.Errors > 0 {
		fmt.Fprintf(cmd.ErrOrStderr(), "%d files failed; see %s for details\n", summary.Errors, cfg.Paths.LogDir)
	}
	return nil
}
