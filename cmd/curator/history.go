package main

import (
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/spf13/cobra"

	"curator/internal/catalog"
	"curator/internal/config"
	"curator/internal/report"
	"curator/internal/services"
)

func newHistoryCommand(configFlag *string) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recorded consolidation runs",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, _, _, err := config.Load(*configFlag)
			if err != nil {
				return services.Wrap(services.ErrConfiguration, "cli", "load config", "", err)
			}
			store, err := catalog.Open(cfg)
			if err != nil {
				return services.Wrap(services.ErrStorage, "cli", "open catalog", "", err)
			}
			defer store.Close()

			runs, err := store.ListRuns(cmd.Context(), limit)
			if err != nil {
				return services.Wrap(services.ErrStorage, "cli", "list runs", "", err)
			}
			if len(runs) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No runs recorded yet.")
				return nil
			}

			tw := table.NewWriter()
			tw.SetStyle(table.StyleRounded)
			tw.AppendHeader(table.Row{"Run", "Started", "Scanned", "Duplicates", "Surviving", "Errors"})
			for _, run := range runs {
				tw.AppendRow(table.Row{
					shortRunID(run.ID),
					run.StartedAt.Local().Format("2006-01-02 15:04"),
					report.FormatCount(run.Scanned),
					report.FormatCount(run.Duplicates),
					report.FormatCount(run.Surviving),
					report.FormatCount(run.Errors),
				})
			}
			configs := make([]table.ColumnConfig, 0, 6)
			for i := 3; i <= 6; i++ {
				configs = append(configs, table.ColumnConfig{Number: i, Align: text.AlignRight})
			}
			tw.SetColumnConfigs(configs)
			fmt.Fprintln(cmd.OutOrStdout(), tw.Render())
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 10, "Maximum runs to list (0 for all)")
	return cmd
}

// shortRunID truncates a run identifier for display. IDs are normally UUIDs,
// but a hand-edited catalog may hold shorter values.
func shortRunID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
