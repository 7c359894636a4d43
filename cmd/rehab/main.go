package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"

	hclog "github.com/hashicorp/go-hclog"
	"github.com/spf13/cobra"

	"rehab/internal/bootstrap"
	"rehab/internal/platform/config"
	apperrors "rehab/internal/platform/errors"
	"rehab/internal/platform/logging"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, "error:", apperrors.Message(err))
		os.Exit(1)
	}
}

func defaultStateDir() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ".rehab"
	}
	return filepath.Join(dir, "rehab")
}

func newRootCmd() *cobra.Command {
	var stateDir string

	root := &cobra.Command{
		Use:           "rehab",
		Short:         "Stroke rehabilitation patient client",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&stateDir, "state-dir", defaultStateDir(), "directory for the token, language, history cache and logs")

	root.AddCommand(newTUICmd(&stateDir))
	root.AddCommand(newLoginCmd(&stateDir))
	root.AddCommand(newLogoutCmd(&stateDir))
	root.AddCommand(newRegisterCmd(&stateDir))
	root.AddCommand(newVerifyEmailCmd(&stateDir))
	root.AddCommand(newPasswordCmd(&stateDir))
	root.AddCommand(newAccountCmd(&stateDir))
	root.AddCommand(newProfileCmd(&stateDir))
	root.AddCommand(newAssessCmd(&stateDir))
	root.AddCommand(newHistoryCmd(&stateDir))
	root.AddCommand(newChatCmd(&stateDir))
	root.AddCommand(newReportCmd(&stateDir))
	root.AddCommand(newLangCmd(&stateDir))
	return root
}

// loadApp builds the application. CLI commands log to stderr; the TUI owns
// the terminal and logs to a file instead.
func loadApp(stateDir string, tui bool) (*bootstrap.App, io.Closer, error) {
	cfg, err := config.Load(stateDir)
	if err != nil {
		return nil, nil, err
	}
	var logger hclog.Logger
	var logFile io.Closer
	if tui {
		logger, logFile, err = logging.NewFile(cfg.LogLevel, cfg.LogPath)
		if err != nil {
			return nil, nil, err
		}
	} else {
		logger = logging.New(cfg.LogLevel, os.Stderr)
	}
	app, err := bootstrap.New(cfg, logger)
	if err != nil {
		if logFile != nil {
			_ = logFile.Close()
		}
		return nil, nil, err
	}
	return app, closerFunc(func() error {
		err := app.Close()
		if logFile != nil {
			_ = logFile.Close()
		}
		return err
	}), nil
}

type closerFunc func() error

func (f closerFunc) Close() error { return f() }

// withApp runs fn against a freshly built app. restore controls whether the
// persisted session is checked against the backend first.
func withApp(cmd *cobra.Command, stateDir string, restore bool, fn func(ctx context.Context, app *bootstrap.App) error) error {
	app, closer, err := loadApp(stateDir, false)
	if err != nil {
		return err
	}
	defer closer.Close()
	ctx := cmd.Context()
	if restore {
		app.Restore(ctx)
	}
	return fn(ctx, app)
}

func newTUICmd(stateDir *string) *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Run the terminal UI",
		RunE: func(_ *cobra.Command, _ []string) error {
			app, closer, err := loadApp(*stateDir, true)
			if err != nil {
				return err
			}
			defer closer.Close()
			return bootstrap.RunTUI(app)
		},
	}
}

func newLangCmd(stateDir *string) *cobra.Command {
	lang := &cobra.Command{Use: "lang", Short: "Show or change the interface language"}

	lang.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Print the active language",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd, *stateDir, false, func(_ context.Context, app *bootstrap.App) error {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), app.Translator.Language())
				return nil
			})
		},
	})

	lang.AddCommand(&cobra.Command{
		Use:   "set <tag>",
		Short: "Switch language (en, ru, uz, es); unknown tags fall back to en",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, *stateDir, false, func(_ context.Context, app *bootstrap.App) error {
				active, err := app.Translator.Use(args[0])
				if err != nil {
					return err
				}
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), app.Translator.T("lang.switched", active))
				return nil
			})
		},
	})
	return lang
}
