package cli

import (
	"io"

	"github.com/spf13/cobra"
)

// NewRootCommand builds the logbook command tree. Output goes to out.
func NewRootCommand(out io.Writer) *cobra.Command {
	a := &App{v: newViper(), out: out}

	// root command
	rootCmd := &cobra.Command{
		Use:           "logbook",
		Short:         "A pilot flight logbook client",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := readConfig(a.v); err != nil {
				return err
			}
			return a.setup()
		},
	}
	rootCmd.SetOut(out)

	flags := rootCmd.PersistentFlags()
	flags.String("api", "", "API base URL")
	flags.Uint("user", 0, "id of the pilot whose logbook to use")
	_ = a.v.BindPFlag("api_url", flags.Lookup("api"))
	_ = a.v.BindPFlag("user_id", flags.Lookup("user"))

	rootCmd.AddCommand(newListCmd(a))
	rootCmd.AddCommand(newStatsCmd(a))
	rootCmd.AddCommand(newAddCmd(a))
	rootCmd.AddCommand(newEditCmd(a))
	rootCmd.AddCommand(newRouteCmd(a))
	rootCmd.AddCommand(newAircraftCmd(a))
	rootCmd.AddCommand(newAirportsCmd(a))
	rootCmd.AddCommand(newAirportCmd(a))
	rootCmd.AddCommand(newTypesCmd(a))
	rootCmd.AddCommand(newFormatRegCmd(a))
	rootCmd.AddCommand(newLoginCmd(a))
	rootCmd.AddCommand(newSignupCmd(a))
	rootCmd.AddCommand(newCacheCmd(a))

	return rootCmd
}
