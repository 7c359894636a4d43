package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"rehab/internal/bootstrap"
	authdto "rehab/internal/modules/auth/dto"
	"rehab/internal/ui/router"
)

func newLoginCmd(stateDir *string) *cobra.Command {
	var email, password, idToken string
	var google bool

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in with email and password, or with Google",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd, *stateDir, false, func(ctx context.Context, app *bootstrap.App) error {
				var st authdto.SessionOutput
				var err error
				switch {
				case idToken != "":
					st, err = app.AuthCLI.LoginWithGoogle(ctx, idToken)
				case google:
					st, err = app.LoginWithGoogle(ctx, func(uri, code string) {
						_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "open %s and enter code %s\n", uri, code)
					})
				default:
					if password == "" {
						password, err = readLine(cmd.InOrStdin())
						if err != nil {
							return err
						}
					}
					st, err = app.AuthCLI.Login(ctx, email, password)
				}
				if err != nil {
					return err
				}
				printSession(cmd.OutOrStdout(), app, st)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "account email")
	cmd.Flags().StringVar(&password, "password", "", "password (read from stdin when empty)")
	cmd.Flags().BoolVar(&google, "google", false, "sign in with Google using the device flow")
	cmd.Flags().StringVar(&idToken, "id-token", "", "exchange an existing Google ID token")
	return cmd
}

func newLogoutCmd(stateDir *string) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the stored session",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd, *stateDir, false, func(ctx context.Context, app *bootstrap.App) error {
				if err := app.AuthCLI.Logout(ctx); err != nil {
					return err
				}
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), app.Translator.T("logout.done"))
				return nil
			})
		},
	}
}

func newRegisterCmd(stateDir *string) *cobra.Command {
	var email, username, password, firstName, lastName string

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create an account",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd, *stateDir, false, func(ctx context.Context, app *bootstrap.App) error {
				user, err := app.AuthCLI.Register(ctx, email, username, password, firstName, lastName)
				if err != nil {
					return err
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "registered %s (%s); check your email to verify the account\n", user.Username, user.Email)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "account email")
	cmd.Flags().StringVar(&username, "username", "", "username")
	cmd.Flags().StringVar(&password, "password", "", "password (at least 8 characters)")
	cmd.Flags().StringVar(&firstName, "first-name", "", "first name")
	cmd.Flags().StringVar(&lastName, "last-name", "", "last name")
	return cmd
}

func newVerifyEmailCmd(stateDir *string) *cobra.Command {
	return &cobra.Command{
		Use:   "verify-email <token>",
		Short: "Confirm an email address with the token from the verification mail",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, *stateDir, false, func(ctx context.Context, app *bootstrap.App) error {
				user, err := app.AuthCLI.VerifyEmail(ctx, args[0])
				if err != nil {
					return err
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "verified %s\n", user.Email)
				return nil
			})
		},
	}
}

func newPasswordCmd(stateDir *string) *cobra.Command {
	password := &cobra.Command{Use: "password", Short: "Password reset"}

	password.AddCommand(&cobra.Command{
		Use:   "request <email>",
		Short: "Send a password reset email",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, *stateDir, false, func(ctx context.Context, app *bootstrap.App) error {
				msg, err := app.AuthCLI.RequestPasswordReset(ctx, args[0])
				if err != nil {
					return err
				}
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), msg)
				return nil
			})
		},
	})

	var token, newPassword string
	reset := &cobra.Command{
		Use:   "reset",
		Short: "Set a new password with a reset token",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd, *stateDir, false, func(ctx context.Context, app *bootstrap.App) error {
				msg, err := app.AuthCLI.ResetPassword(ctx, token, newPassword)
				if err != nil {
					return err
				}
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), msg)
				return nil
			})
		},
	}
	reset.Flags().StringVar(&token, "token", "", "reset token from the email")
	reset.Flags().StringVar(&newPassword, "new-password", "", "new password")
	password.AddCommand(reset)
	return password
}

func newAccountCmd(stateDir *string) *cobra.Command {
	var in authdto.AccountUpdateInput

	cmd := &cobra.Command{
		Use:   "account",
		Short: "Update name, email or password of the logged-in account",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd, *stateDir, true, func(ctx context.Context, app *bootstrap.App) error {
				user, err := app.AuthCLI.UpdateAccount(ctx, in)
				if err != nil {
					return err
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "updated %s (%s)\n", user.DisplayName, user.Email)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&in.FirstName, "first-name", "", "first name")
	cmd.Flags().StringVar(&in.LastName, "last-name", "", "last name")
	cmd.Flags().StringVar(&in.Email, "email", "", "new email")
	cmd.Flags().StringVar(&in.CurrentPassword, "current-password", "", "current password, required to change it")
	cmd.Flags().StringVar(&in.NewPassword, "new-password", "", "new password")
	return cmd
}

func newProfileCmd(stateDir *string) *cobra.Command {
	profile := &cobra.Command{Use: "profile", Short: "Medical profile of the logged-in patient"}

	profile.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Print the medical profile",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd, *stateDir, true, func(ctx context.Context, app *bootstrap.App) error {
				if err := guard(app, router.Profile); err != nil {
					return err
				}
				printSession(cmd.OutOrStdout(), app, app.AuthCLI.Session())
				p, err := app.AuthCLI.GetProfile(ctx)
				if err != nil {
					return err
				}
				printProfile(cmd.OutOrStdout(), p)
				return nil
			})
		},
	})

	var strokeDate, strokeType, side, aid, goals string
	var height, weight int
	set := &cobra.Command{
		Use:   "set",
		Short: "Change profile fields; unset flags keep their value",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd, *stateDir, true, func(ctx context.Context, app *bootstrap.App) error {
				if err := guard(app, router.Profile); err != nil {
					return err
				}
				p, err := app.AuthCLI.GetProfile(ctx)
				if err != nil {
					return err
				}
				flags := cmd.Flags()
				if flags.Changed("stroke-date") {
					d, err := time.Parse("2006-01-02", strokeDate)
					if err != nil {
						return fmt.Errorf("--stroke-date must be YYYY-MM-DD: %w", err)
					}
					p.StrokeDate = &d
				}
				if flags.Changed("stroke-type") {
					p.StrokeType = strokeType
				}
				if flags.Changed("affected-side") {
					p.AffectedSide = side
				}
				if flags.Changed("mobility-aid") {
					p.MobilityAid = aid
				}
				if flags.Changed("therapy-goals") {
					p.TherapyGoals = goals
				}
				if flags.Changed("height") {
					p.Height = height
				}
				if flags.Changed("weight") {
					p.Weight = weight
				}
				out, err := app.AuthCLI.UpdateProfile(ctx, p)
				if err != nil {
					return err
				}
				printProfile(cmd.OutOrStdout(), out)
				return nil
			})
		},
	}
	set.Flags().StringVar(&strokeDate, "stroke-date", "", "date of the stroke (YYYY-MM-DD)")
	set.Flags().StringVar(&strokeType, "stroke-type", "", "ischemic, hemorrhagic, ...")
	set.Flags().StringVar(&side, "affected-side", "", "left, right or both")
	set.Flags().StringVar(&aid, "mobility-aid", "", "cane, walker, wheelchair, ...")
	set.Flags().StringVar(&goals, "therapy-goals", "", "free text")
	set.Flags().IntVar(&height, "height", 0, "height in cm")
	set.Flags().IntVar(&weight, "weight", 0, "weight in kg")
	profile.AddCommand(set)
	return profile
}

// guard applies the same route rule the TUI uses before showing a page.
func guard(app *bootstrap.App, route router.Route) error {
	d := router.Decide(app.AuthCLI.Session(), route)
	if d.Action == router.Redirect {
		return fmt.Errorf("%s: run `rehab login` first (%s)", app.Translator.T("guard.redirect"), d.Location())
	}
	return nil
}

func printSession(w io.Writer, app *bootstrap.App, st authdto.SessionOutput) {
	if st.User == nil {
		if st.Authenticated {
			_, _ = fmt.Fprintln(w, "logged in; profile unavailable")
		}
		return
	}
	_, _ = fmt.Fprintln(w, app.Translator.T("profile.user", st.User.DisplayName, st.User.Email))
}

func printProfile(w io.Writer, p authdto.ProfileData) {
	row := func(label, value string) {
		if value != "" {
			_, _ = fmt.Fprintf(w, "%-18s%s\n", label, value)
		}
	}
	if p.StrokeDate != nil {
		row("stroke date", p.StrokeDate.Format("2006-01-02"))
	}
	row("stroke type", p.StrokeType)
	row("affected side", p.AffectedSide)
	row("mobility aid", p.MobilityAid)
	row("therapy goals", p.TherapyGoals)
	if p.Height > 0 {
		row("height", fmt.Sprintf("%d cm", p.Height))
	}
	if p.Weight > 0 {
		row("weight", fmt.Sprintf("%d kg", p.Weight))
	}
	row("medications", p.Medications)
	row("allergies", p.Allergies)
}

func readLine(r io.Reader) (string, error) {
	line, err := bufio.NewReader(r).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("read password: %w", err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}
