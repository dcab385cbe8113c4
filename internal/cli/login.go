package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/astroprint/astrodeck/internal/astroprint"
)

func newLoginCmd(global *globalFlags) *cobra.Command {
	var code, accessKey string
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Link an AstroPrint account with an authorization code",
		Long: `Link an AstroPrint account to the box.

Run "astrodeck authorize-url" first, open the printed address in a browser,
authorize the box and pass the code AstroPrint shows to this command.`,
		Example: `  astrodeck login --access-key KEY --code CODE`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			accessKey, code = strings.TrimSpace(accessKey), strings.TrimSpace(code)
			if accessKey == "" {
				return astroprint.ErrMissingAccessKey
			}
			if code == "" {
				return errors.New("code is required")
			}

			env, err := global.setup(cmd)
			if err != nil {
				return err
			}
			defer env.Close()

			ctx := cmd.Context()
			if err := env.Client.SaveAccessKey(ctx, accessKey); err != nil {
				env.Logger.Warn().Err(err).Msg("save access key")
			}
			user, err := env.Client.Login(ctx, astroprint.LoginRequest{
				Code:        code,
				URL:         env.Client.BaseURL().String(),
				APAccessKey: accessKey,
			})
			if err != nil {
				return loginError(err)
			}
			env.Logger.Info().Str("email", user.Email).Msg("astroprint account linked")
			fmt.Fprintf(cmd.OutOrStdout(), "Linked %s\n", strings.Join(nonEmpty(user.Name, user.Email), " · "))
			return nil
		},
	}
	cmd.Flags().StringVar(&code, "code", "", "authorization code from AstroPrint")
	cmd.Flags().StringVar(&accessKey, "access-key", "", "AstroPrint developer app access key")
	return cmd
}

// loginError turns the plugin's rejections into the messages the TUI shows.
func loginError(err error) error {
	if errors.Is(err, astroprint.ErrForbidden) {
		return fmt.Errorf("login failed: an OctoPrint admin must be logged in to link an AstroPrint account: %w", err)
	}
	var apiErr *astroprint.APIError
	if errors.As(err, &apiErr) && apiErr.Code != "" {
		return fmt.Errorf("login failed: %s: %s", apiErr.Code, apiErr.Description)
	}
	return fmt.Errorf("login failed: %w", err)
}

func newLogoutCmd(global *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Unlink the AstroPrint account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			env, err := global.setup(cmd)
			if err != nil {
				return err
			}
			defer env.Close()

			if err := env.Client.Logout(cmd.Context()); err != nil {
				return fmt.Errorf("logout: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Logged out of AstroPrint")
			return nil
		},
	}
}

func newAuthorizeURLCmd(global *globalFlags) *cobra.Command {
	var accessKey string
	cmd := &cobra.Command{
		Use:   "authorize-url",
		Short: "Print the AstroPrint address that authorizes this box",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			env, err := global.setup(cmd)
			if err != nil {
				return err
			}
			defer env.Close()

			u, err := astroprint.AuthorizeURL(env.Config.AppSite, env.Config.AppID, env.Client.BaseURL().String(), accessKey)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), u)
			return nil
		},
	}
	cmd.Flags().StringVar(&accessKey, "access-key", "", "AstroPrint developer app access key")
	return cmd
}

func nonEmpty(values ...string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}
