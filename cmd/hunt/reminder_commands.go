package main

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"hunt/internal/ipc"
)

func newRemindCommand(ctx *commandContext) *cobra.Command {
	var ownerFlag string
	var inFlag string
	var atFlag string

	cmd := &cobra.Command{
		Use:   "remind <id|company>",
		Short: "Schedule a follow-up reminder",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			inValue := strings.TrimSpace(inFlag)
			atValue := strings.TrimSpace(atFlag)
			if (inValue == "") == (atValue == "") {
				return errors.New("specify exactly one of --in or --at")
			}

			var dueAt time.Time
			if inValue != "" {
				delay, err := parseDelay(inValue)
				if err != nil {
					return err
				}
				dueAt = time.Now().Add(delay)
			} else {
				when, err := parseWhen(atValue)
				if err != nil {
					return err
				}
				dueAt = when
			}

			owner := ctx.ownerOrDefault(ownerFlag)
			return ctx.withTracker(func(api trackerAPI) error {
				app, err := resolveApplication(cmd.Context(), api, owner, args[0])
				if err != nil {
					return err
				}
				reminder, err := api.Schedule(cmd.Context(), app.ID, dueAt)
				if err != nil {
					return err
				}
				if ctx.JSONMode() {
					return writeJSON(cmd, reminder)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Reminder #%d for #%d (%s) due %s\n",
					reminder.ID, app.ID, formatApplicationLabel(app), formatDisplayTime(reminder.DueAt))
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&ownerFlag, "owner", "", "Owner used when looking up by company")
	cmd.Flags().StringVar(&inFlag, "in", "", "Delay until the reminder fires (90m, 36h, 3d)")
	cmd.Flags().StringVar(&atFlag, "at", "", `Absolute due time ("2006-01-02" or "2006-01-02 15:04")`)
	return cmd
}

func newRemindersCommand(ctx *commandContext) *cobra.Command {
	var ownerFlag string
	var allFlag bool

	cmd := &cobra.Command{
		Use:   "reminders",
		Short: "List pending reminders",
		RunE: func(cmd *cobra.Command, args []string) error {
			owner := ctx.ownerOrDefault(ownerFlag)
			return ctx.withTracker(func(api trackerAPI) error {
				reminders, err := api.Reminders(cmd.Context(), owner, allFlag)
				if err != nil {
					return err
				}
				if ctx.JSONMode() {
					return writeJSON(cmd, ipc.ListRemindersResponse{Reminders: reminders})
				}
				if len(reminders) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "No reminders scheduled")
					return nil
				}
				table := renderTable(
					[]string{"ID", "App", "Company", "Role", "Due", "Sent"},
					buildReminderRows(reminders),
					[]columnAlignment{alignRight, alignRight, alignLeft, alignLeft, alignLeft, alignLeft},
				)
				fmt.Fprintln(cmd.OutOrStdout(), table)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&ownerFlag, "owner", "", "Owner of the reminders (defaults to configured owner)")
	cmd.Flags().BoolVar(&allFlag, "all", false, "Include reminders that were already sent")

	cmd.AddCommand(newRemindersSentCommand(ctx))
	cmd.AddCommand(newRemindersDeleteCommand(ctx))
	return cmd
}

func newRemindersSentCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "sent <id>",
		Short: "Mark a reminder as sent",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseReminderID(args[0])
			if err != nil {
				return err
			}
			return ctx.withTracker(func(api trackerAPI) error {
				if err := api.MarkSent(cmd.Context(), id); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Reminder #%d marked sent\n", id)
				return nil
			})
		},
	}
}

func newRemindersDeleteCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a reminder",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseReminderID(args[0])
			if err != nil {
				return err
			}
			return ctx.withTracker(func(api trackerAPI) error {
				deleted, err := api.DeleteReminder(cmd.Context(), id)
				if err != nil {
					return err
				}
				if !deleted {
					fmt.Fprintf(cmd.OutOrStdout(), "No reminder #%d\n", id)
					return nil
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Deleted reminder #%d\n", id)
				return nil
			})
		},
	}
}

func parseReminderID(arg string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(arg), 10, 64)
	if err != nil || id < 1 {
		return 0, fmt.Errorf("invalid reminder id %q", arg)
	}
	return id, nil
}
