package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"hunt/internal/ipc"
	"hunt/internal/stage"
	"hunt/internal/store"
)

func newAddCommand(ctx *commandContext) *cobra.Command {
	var ownerFlag string
	var seasonFlag string

	cmd := &cobra.Command{
		Use:   "add <company> <role>",
		Short: "Track a new application",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			company := strings.TrimSpace(args[0])
			role := strings.TrimSpace(args[1])
			owner := ctx.ownerOrDefault(ownerFlag)

			seasonValue := strings.TrimSpace(seasonFlag)
			if seasonValue == "" {
				if cfg := ctx.configValue(); cfg != nil {
					seasonValue = cfg.Tracker.DefaultSeason
				}
			}
			season, ok := stage.ParseSeason(seasonValue)
			if !ok {
				return fmt.Errorf("unknown season %q (valid: %s)", seasonValue, seasonList())
			}

			return ctx.withTracker(func(api trackerAPI) error {
				app, err := api.Create(cmd.Context(), owner, company, role, season)
				if err != nil {
					return err
				}
				if ctx.JSONMode() {
					return writeJSON(cmd, app)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Tracking #%d: %s (%s, %s)\n",
					app.ID, formatApplicationLabel(app), app.Season, app.Stage)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&ownerFlag, "owner", "", "Owner of the application (defaults to configured owner)")
	cmd.Flags().StringVar(&seasonFlag, "season", "", "Recruiting season (summer, fall, winter, full-time)")
	return cmd
}

func newListCommand(ctx *commandContext) *cobra.Command {
	var ownerFlag string
	var stageFlag string
	var seasonFlag string
	var limitFlag int
	var offsetFlag int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List tracked applications, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			owner := ctx.ownerOrDefault(ownerFlag)

			var filter store.ApplicationFilter
			if value := strings.TrimSpace(stageFlag); value != "" {
				parsed, ok := stage.Parse(value)
				if !ok {
					return fmt.Errorf("unknown stage %q (valid: %s)", value, stageList())
				}
				filter.Stage = parsed
			}
			if value := strings.TrimSpace(seasonFlag); value != "" {
				parsed, ok := stage.ParseSeason(value)
				if !ok {
					return fmt.Errorf("unknown season %q (valid: %s)", value, seasonList())
				}
				filter.Season = parsed
			}
			filter.Limit = limitFlag
			filter.Offset = offsetFlag

			return ctx.withTracker(func(api trackerAPI) error {
				apps, total, err := api.List(cmd.Context(), owner, filter)
				if err != nil {
					return err
				}
				if ctx.JSONMode() {
					return writeJSON(cmd, ipc.ListApplicationsResponse{Applications: apps, Total: total})
				}
				if len(apps) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "No applications tracked")
					return nil
				}
				table := renderTable(
					[]string{"ID", "Company", "Role", "Season", "Stage", "Last Activity"},
					buildApplicationRows(apps),
					[]columnAlignment{alignRight, alignLeft, alignLeft, alignLeft, alignLeft, alignLeft},
				)
				fmt.Fprintln(cmd.OutOrStdout(), table)
				if total > len(apps) {
					fmt.Fprintf(cmd.OutOrStdout(), "Showing %d of %d applications\n", len(apps), total)
				}
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&ownerFlag, "owner", "", "Owner of the applications (defaults to configured owner)")
	cmd.Flags().StringVarP(&stageFlag, "stage", "s", "", "Filter by current stage")
	cmd.Flags().StringVar(&seasonFlag, "season", "", "Filter by recruiting season")
	cmd.Flags().IntVarP(&limitFlag, "limit", "n", 0, "Maximum rows to show (0 for all)")
	cmd.Flags().IntVar(&offsetFlag, "offset", 0, "Rows to skip from the top")
	return cmd
}

func newShowCommand(ctx *commandContext) *cobra.Command {
	var ownerFlag string

	cmd := &cobra.Command{
		Use:   "show <id|company>",
		Short: "Show one application with its stage history",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			owner := ctx.ownerOrDefault(ownerFlag)
			return ctx.withTracker(func(api trackerAPI) error {
				app, err := resolveApplication(cmd.Context(), api, owner, args[0])
				if err != nil {
					return err
				}
				entries, err := api.History(cmd.Context(), app.ID)
				if err != nil {
					return err
				}
				if ctx.JSONMode() {
					return writeJSON(cmd, struct {
						Application ipc.ApplicationSummary  `json:"application"`
						History     []ipc.StageEntrySummary `json:"history"`
					}{app, entries})
				}

				out := cmd.OutOrStdout()
				colorize := shouldColorize(out)
				for _, line := range renderSectionHeader(fmt.Sprintf("Application #%d", app.ID), colorize) {
					fmt.Fprintln(out, line)
				}
				fmt.Fprintln(out, renderStatusLine("Company", statusInfo, app.Company, colorize))
				fmt.Fprintln(out, renderStatusLine("Role", statusInfo, app.Role, colorize))
				fmt.Fprintln(out, renderStatusLine("Owner", statusInfo, app.Owner, colorize))
				fmt.Fprintln(out, renderStatusLine("Season", statusInfo, app.Season, colorize))
				fmt.Fprintln(out, renderStatusLine("Stage", stageStatusKind(app.Stage), app.Stage, colorize))
				fmt.Fprintln(out, renderStatusLine("Tracked since", statusInfo, formatDisplayTime(app.CreatedAt), colorize))
				fmt.Fprintln(out)

				for _, line := range renderSectionHeader("Stage History", colorize) {
					fmt.Fprintln(out, line)
				}
				if len(entries) == 0 {
					fmt.Fprintln(out, "No stage history recorded")
					return nil
				}
				table := renderTable(
					[]string{"When", "Stage"},
					buildHistoryRows(entries),
					[]columnAlignment{alignLeft, alignLeft},
				)
				fmt.Fprintln(out, table)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&ownerFlag, "owner", "", "Owner used when looking up by company")
	return cmd
}

func newStageCommand(ctx *commandContext) *cobra.Command {
	var ownerFlag string
	var onFlag string

	cmd := &cobra.Command{
		Use:   "stage <id|company> <stage>",
		Short: "Record a stage transition",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			parsed, ok := stage.Parse(args[1])
			if !ok {
				return fmt.Errorf("unknown stage %q (valid: %s)", args[1], stageList())
			}

			var occurredAt *time.Time
			if value := strings.TrimSpace(onFlag); value != "" {
				when, err := parseWhen(value)
				if err != nil {
					return err
				}
				occurredAt = &when
			}

			owner := ctx.ownerOrDefault(ownerFlag)
			return ctx.withTracker(func(api trackerAPI) error {
				app, err := resolveApplication(cmd.Context(), api, owner, args[0])
				if err != nil {
					return err
				}
				entry, err := api.RecordStage(cmd.Context(), app.ID, parsed, occurredAt)
				if err != nil {
					return err
				}
				if ctx.JSONMode() {
					return writeJSON(cmd, entry)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Recorded %s for #%d (%s) at %s\n",
					entry.Stage, app.ID, formatApplicationLabel(app), formatDisplayTime(entry.OccurredAt))
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&ownerFlag, "owner", "", "Owner used when looking up by company")
	cmd.Flags().StringVar(&onFlag, "on", "", `When the stage happened ("2006-01-02" or "2006-01-02 15:04", default now)`)
	return cmd
}

func newRemoveCommand(ctx *commandContext) *cobra.Command {
	var ownerFlag string

	cmd := &cobra.Command{
		Use:   "remove <id|company>",
		Short: "Remove an application and its history",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			owner := ctx.ownerOrDefault(ownerFlag)
			return ctx.withTracker(func(api trackerAPI) error {
				app, err := resolveApplication(cmd.Context(), api, owner, args[0])
				if err != nil {
					return err
				}
				removed, err := api.Remove(cmd.Context(), app.ID)
				if err != nil {
					return err
				}
				if !removed {
					fmt.Fprintf(cmd.OutOrStdout(), "No application #%d\n", app.ID)
					return nil
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Removed #%d (%s)\n", app.ID, formatApplicationLabel(app))
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&ownerFlag, "owner", "", "Owner used when looking up by company")
	return cmd
}

func stageStatusKind(label string) statusKind {
	switch label {
	case stage.Offer.String():
		return statusOK
	case stage.Rejected.String():
		return statusError
	default:
		return statusInfo
	}
}

func stageList() string {
	stages := stage.All()
	names := make([]string, 0, len(stages))
	for _, st := range stages {
		names = append(names, st.String())
	}
	return strings.Join(names, ", ")
}

func seasonList() string {
	seasons := stage.Seasons()
	names := make([]string, 0, len(seasons))
	for _, season := range seasons {
		names = append(names, season.String())
	}
	return strings.Join(names, ", ")
}
