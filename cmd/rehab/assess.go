package main

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"rehab/internal/bootstrap"
	assessmentdto "rehab/internal/modules/assessment/dto"
	chatdto "rehab/internal/modules/chat/dto"
	"rehab/internal/ui/present"
)

func newAssessCmd(stateDir *string) *cobra.Command {
	var sets []string
	var fields, advice, analyze bool
	var exportFor string

	cmd := &cobra.Command{
		Use:   "assess [type]",
		Short: "Score an assessment (phq9, nihss, bp, movement, speech)",
		Long: "Without a type, lists the assessment types. With --fields, lists the inputs of a type.\n" +
			"Results are saved to the history when logged in.",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, *stateDir, len(args) == 1 && !fields, func(ctx context.Context, app *bootstrap.App) error {
				out := cmd.OutOrStdout()
				if len(args) == 0 {
					for _, t := range app.AssessmentCLI.Types() {
						_, _ = fmt.Fprintf(out, "%s\t%s\n", t, app.Translator.T("assessment."+t))
					}
					return nil
				}
				if fields {
					form, err := app.AssessmentCLI.NewForm(args[0])
					if err != nil {
						return err
					}
					defer form.Close()
					for _, f := range form.Fields() {
						_, _ = fmt.Fprintf(out, "%s\t%s\t%s\n", f.Name, present.Hint(f), present.FieldLabel(app.Translator, form.Type(), f.Name))
					}
					return nil
				}

				inputs, err := parseSets(sets)
				if err != nil {
					return err
				}
				res, err := app.AssessmentCLI.Score(ctx, args[0], inputs)
				if err != nil {
					return err
				}
				printResult(out, app, res)

				if advice {
					reply, err := app.ChatCLI.Advice(ctx)
					if err != nil {
						return err
					}
					printReply(out, app, reply)
				}
				if analyze {
					reply, err := app.ChatCLI.Analyze(ctx)
					if err != nil {
						return err
					}
					printReply(out, app, reply)
				}
				if exportFor != "" {
					exp, err := app.ReportCLI.Export(ctx, exportFor, "", nil)
					if err != nil {
						return err
					}
					_, _ = fmt.Fprintln(out, app.Translator.T("export.done", exp.FilePath))
				}
				return nil
			})
		},
	}
	cmd.Flags().StringArrayVar(&sets, "set", nil, "field value as name=value (repeatable)")
	cmd.Flags().BoolVar(&fields, "fields", false, "list the fields of the type instead of scoring")
	cmd.Flags().BoolVar(&advice, "advice", false, "ask the assistant for advice on the result")
	cmd.Flags().BoolVar(&analyze, "analyze", false, "ask for a rehabilitation analysis of the result")
	cmd.Flags().StringVar(&exportFor, "export", "", "export a PDF report for this patient name")
	return cmd
}

func parseSets(sets []string) (map[string]string, error) {
	inputs := make(map[string]string, len(sets))
	for _, kv := range sets {
		name, value, ok := strings.Cut(kv, "=")
		if !ok || strings.TrimSpace(name) == "" {
			return nil, fmt.Errorf("--set %q: expected name=value", kv)
		}
		inputs[strings.TrimSpace(name)] = strings.TrimSpace(value)
	}
	return inputs, nil
}

func printResult(w io.Writer, app *bootstrap.App, res assessmentdto.ResultOutput) {
	for _, line := range present.Result(app.Translator, res) {
		_, _ = fmt.Fprintln(w, line)
	}
	if res.Recommendations != "" {
		_, _ = fmt.Fprintf(w, "\n%s:\n%s\n", app.Translator.T("result.recommendations"), res.Recommendations)
	}
}

func printReply(w io.Writer, app *bootstrap.App, reply chatdto.ReplyOutput) {
	_, _ = fmt.Fprintf(w, "\n%s:\n%s\n", app.Translator.T("chat.assistant"), reply.Text)
	if reply.Advice != "" && reply.Advice != reply.Text {
		_, _ = fmt.Fprintf(w, "\n%s:\n%s\n", app.Translator.T("chat.advice"), reply.Advice)
	}
	for _, r := range reply.Recommendations {
		_, _ = fmt.Fprintf(w, "- %s\n", r)
	}
}
