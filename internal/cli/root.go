package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/astroprint/astrodeck/internal/app"
)

// globalFlags are the persistent flags shared by every command.
type globalFlags struct {
	configPath  string
	debug       bool
	pollSeconds int
}

func (g *globalFlags) options() app.Options {
	return app.Options{
		ConfigPath: g.configPath,
		PollEvery:  time.Duration(g.pollSeconds) * time.Second,
		Debug:      g.debug,
	}
}

// setup loads the environment for a one-shot command. With --debug, logs
// are mirrored to stderr as well as the log file.
func (g *globalFlags) setup(cmd *cobra.Command) (*app.Env, error) {
	opts := g.options()
	if g.debug {
		opts.Console = cmd.ErrOrStderr()
	}
	return app.Setup(opts)
}

// NewRootCmd creates the astrodeck command. Without a subcommand it opens
// the TUI; the subcommands are one-shot calls against the same plugin.
func NewRootCmd(version string) *cobra.Command {
	flags := &globalFlags{}

	cmd := &cobra.Command{
		Use:           "astrodeck",
		Short:         "Terminal deck for the AstroPrint OctoPrint plugin",
		Long:          "astrodeck browses AstroPrint designs and print files and manages the box from a terminal.",
		Version:       version,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			if flags.pollSeconds < 0 {
				return fmt.Errorf("poll must be >= 0, got %d", flags.pollSeconds)
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return app.Run(cmd.Context(), flags.options())
		},
	}

	pf := cmd.PersistentFlags()
	pf.StringVar(&flags.configPath, "config", "", "config file (default ~/.config/astrodeck/config.toml)")
	pf.BoolVar(&flags.debug, "debug", false, "log at debug level")
	pf.IntVar(&flags.pollSeconds, "poll", 0, "poll interval in seconds (overrides config)")

	cmd.AddCommand(
		newDesignsCmd(flags),
		newPrintFilesCmd(flags),
		newLoginCmd(flags),
		newLogoutCmd(flags),
		newAuthorizeURLCmd(flags),
		newBoxCmd(flags),
	)
	return cmd
}
