package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"rehab/internal/bootstrap"
)

func newChatCmd(stateDir *string) *cobra.Command {
	var completion bool

	cmd := &cobra.Command{
		Use:   "chat <message>",
		Short: "Ask the rehabilitation assistant a question",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text := strings.Join(args, " ")
			return withApp(cmd, *stateDir, true, func(ctx context.Context, app *bootstrap.App) error {
				send := app.ChatCLI.Send
				if completion {
					send = app.ChatCLI.Complete
				}
				reply, err := send(ctx, text)
				if err != nil {
					return err
				}
				printReply(cmd.OutOrStdout(), app, reply)
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&completion, "general", false, "use the general completion endpoint instead of the patient chat")
	return cmd
}

func newReportCmd(stateDir *string) *cobra.Command {
	report := &cobra.Command{Use: "report", Short: "PDF reports"}

	var patientID, patientName, dir string
	download := &cobra.Command{
		Use:   "download",
		Short: "Download the PDF report of a patient",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd, *stateDir, true, func(ctx context.Context, app *bootstrap.App) error {
				out, err := app.ReportCLI.Download(ctx, patientID, patientName, dir)
				if err != nil {
					return err
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "saved %s (%d pages)\n", out.Path, out.Pages)
				return nil
			})
		},
	}
	download.Flags().StringVar(&patientID, "patient-id", "", "patient id")
	download.Flags().StringVar(&patientName, "patient-name", "", "patient name, used for the file name")
	download.Flags().StringVar(&dir, "dir", ".", "target directory")
	_ = download.MarkFlagRequired("patient-id")
	report.AddCommand(download)
	return report
}
