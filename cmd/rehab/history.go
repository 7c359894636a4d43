package main

import (
	"context"
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"

	"rehab/internal/bootstrap"
	historydto "rehab/internal/modules/history/dto"
	"rehab/internal/ui/present"
	"rehab/internal/ui/router"
)

func newHistoryCmd(stateDir *string) *cobra.Command {
	history := &cobra.Command{Use: "history", Short: "Saved assessments"}

	var assessmentType string
	var limit int
	var offline bool
	list := &cobra.Command{
		Use:   "list",
		Short: "List saved assessments, newest first",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd, *stateDir, !offline, func(ctx context.Context, app *bootstrap.App) error {
				if !offline {
					if err := guard(app, router.History); err != nil {
						return err
					}
				}
				records, err := app.HistoryCLI.List(ctx, assessmentType, limit, offline)
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				if len(records) == 0 {
					_, _ = fmt.Fprintln(out, app.Translator.T("history.empty"))
					return nil
				}
				for _, r := range records {
					printRecordLine(out, app, r)
				}
				return nil
			})
		},
	}
	list.Flags().StringVar(&assessmentType, "type", "", "only this assessment type")
	list.Flags().IntVar(&limit, "limit", 0, "at most this many records (server side, without --type)")
	list.Flags().BoolVar(&offline, "offline", false, "show the last fetched list without contacting the server")

	show := &cobra.Command{
		Use:   "show <id>",
		Short: "Show one saved assessment",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid id %q", args[0])
			}
			return withApp(cmd, *stateDir, true, func(ctx context.Context, app *bootstrap.App) error {
				if err := guard(app, router.History); err != nil {
					return err
				}
				r, err := app.HistoryCLI.Detail(ctx, id)
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				printRecordLine(out, app, r)
				for _, line := range present.Data(r.Data) {
					_, _ = fmt.Fprintln(out, "  "+line)
				}
				if r.Error != "" {
					_, _ = fmt.Fprintln(out, "  error: "+r.Error)
				}
				return nil
			})
		},
	}

	del := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a saved assessment",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid id %q", args[0])
			}
			return withApp(cmd, *stateDir, true, func(ctx context.Context, app *bootstrap.App) error {
				if err := guard(app, router.History); err != nil {
					return err
				}
				if err := app.HistoryCLI.Delete(ctx, id); err != nil {
					return err
				}
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), app.Translator.T("history.deleted", id))
				return nil
			})
		},
	}

	var readings []string
	var trendOffline bool
	trend := &cobra.Command{
		Use:       "trend <bp|phq>",
		Short:     "Analyze the blood pressure or PHQ-9 trend of saved assessments",
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{"bp", "phq"},
		RunE: func(cmd *cobra.Command, args []string) error {
			fromServer := len(readings) == 0 && !trendOffline
			return withApp(cmd, *stateDir, fromServer, func(ctx context.Context, app *bootstrap.App) error {
				if fromServer {
					if err := guard(app, router.History); err != nil {
						return err
					}
				}
				t, err := app.HistoryCLI.Trend(ctx, args[0], readings, trendOffline)
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				_, _ = fmt.Fprintln(out, app.Translator.T("history.trend", t.Kind, t.Points, t.Status))
				if t.Warning != "" {
					_, _ = fmt.Fprintln(out, t.Warning)
				}
				return nil
			})
		},
	}
	trend.Flags().StringArrayVar(&readings, "reading", nil, "analyze this reading instead of saved history, e.g. 140/90 (repeatable, oldest first)")
	trend.Flags().BoolVar(&trendOffline, "offline", false, "read saved assessments from the local cache")

	history.AddCommand(list, show, del, trend)
	return history
}

func printRecordLine(w io.Writer, app *bootstrap.App, r historydto.RecordOutput) {
	score := ""
	if r.HasScore {
		score = strconv.FormatFloat(r.Score, 'f', -1, 64)
	}
	_, _ = fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\n",
		r.ID, r.CreatedAt.Local().Format("2006-01-02 15:04"), app.Translator.T("assessment."+r.Type), r.Severity, score)
}
