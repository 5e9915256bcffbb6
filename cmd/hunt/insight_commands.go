package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"hunt/internal/ipc"
)

func newStaleCommand(ctx *commandContext) *cobra.Command {
	var ownerFlag string
	var daysFlag int

	cmd := &cobra.Command{
		Use:   "stale",
		Short: "List applications that have gone quiet",
		RunE: func(cmd *cobra.Command, args []string) error {
			owner := ctx.ownerOrDefault(ownerFlag)
			return ctx.withTracker(func(api trackerAPI) error {
				apps, err := api.Stale(cmd.Context(), owner, daysFlag)
				if err != nil {
					return err
				}
				if ctx.JSONMode() {
					return writeJSON(cmd, ipc.StaleApplicationsResponse{Applications: apps})
				}
				if len(apps) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "Nothing needs a follow-up")
					return nil
				}
				table := renderTable(
					[]string{"ID", "Company", "Role", "Stage", "Last Activity", "Idle"},
					buildStaleRows(apps, time.Now().UTC()),
					[]columnAlignment{alignRight, alignLeft, alignLeft, alignLeft, alignLeft, alignRight},
				)
				fmt.Fprintln(cmd.OutOrStdout(), table)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&ownerFlag, "owner", "", "Owner of the applications (defaults to configured owner)")
	cmd.Flags().IntVar(&daysFlag, "days", 0, "Staleness threshold in days (0 uses the configured value)")
	return cmd
}

func newStatsCommand(ctx *commandContext) *cobra.Command {
	var ownerFlag string

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show application counts by current stage",
		RunE: func(cmd *cobra.Command, args []string) error {
			owner := ctx.ownerOrDefault(ownerFlag)
			return ctx.withTracker(func(api trackerAPI) error {
				counts, err := api.Stats(cmd.Context(), owner)
				if err != nil {
					return err
				}
				if ctx.JSONMode() {
					return writeJSON(cmd, ipc.StatsResponse{Counts: counts})
				}
				rows := buildStatsRows(counts)
				if len(rows) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "No applications tracked")
					return nil
				}
				table := renderTable([]string{"Stage", "Count"}, rows, []columnAlignment{alignLeft, alignRight})
				fmt.Fprintln(cmd.OutOrStdout(), table)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&ownerFlag, "owner", "", "Owner of the applications (defaults to configured owner)")
	return cmd
}

func newCompaniesCommand(ctx *commandContext) *cobra.Command {
	var ownerFlag string

	cmd := &cobra.Command{
		Use:   "companies",
		Short: "List companies with applications still in play",
		RunE: func(cmd *cobra.Command, args []string) error {
			owner := ctx.ownerOrDefault(ownerFlag)
			return ctx.withTracker(func(api trackerAPI) error {
				companies, err := api.Companies(cmd.Context(), owner)
				if err != nil {
					return err
				}
				if ctx.JSONMode() {
					return writeJSON(cmd, ipc.ActiveCompaniesResponse{Companies: companies})
				}
				if len(companies) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "No active applications")
					return nil
				}
				for _, company := range companies {
					fmt.Fprintln(cmd.OutOrStdout(), company)
				}
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&ownerFlag, "owner", "", "Owner of the applications (defaults to configured owner)")
	return cmd
}
