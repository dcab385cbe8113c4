package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/astroprint/astrodeck/internal/astroprint"
)

func newBoxCmd(global *globalFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "box",
		Short: "Inspect and configure the AstroBox",
	}
	cmd.AddCommand(newBoxStatusCmd(global), newBoxRenameCmd(global))
	return cmd
}

func newBoxStatusCmd(global *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the plugin's initial state",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			env, err := global.setup(cmd)
			if err != nil {
				return err
			}
			defer env.Close()

			st, err := env.Client.InitialState(cmd.Context())
			if err != nil {
				return fmt.Errorf("initial state: %w", err)
			}

			account := "not linked"
			if st.User.LoggedIn() {
				account = st.User.Email
			}
			router := st.BoxrouterStatus
			if router == "" {
				router = "unknown"
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintf(tw, "Account\t%s\n", account)
			fmt.Fprintf(tw, "Boxrouter\t%s\n", headerCaser.String(router))
			fmt.Fprintf(tw, "Camera\t%s\n", connectedLabel(st.CameraConnected))
			fmt.Fprintf(tw, "Can print\t%s\n", yesNo(st.CanPrint))
			return tw.Flush()
		},
	}
}

func newBoxRenameCmd(global *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:     "rename <name>",
		Short:   "Rename the box",
		Example: `  astrodeck box rename workshop-mk4`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := args[0]
			if !astroprint.ValidBoxName(name) {
				return fmt.Errorf("invalid box name %q: use letters, digits and hyphens", name)
			}

			env, err := global.setup(cmd)
			if err != nil {
				return err
			}
			defer env.Close()

			if err := env.Client.ChangeBoxName(cmd.Context(), name); err != nil {
				return fmt.Errorf("rename box: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Box renamed to %s\n", name)
			return nil
		},
	}
}

func connectedLabel(v bool) string {
	if v {
		return "connected"
	}
	return "not detected"
}
