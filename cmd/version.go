package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// Build metadata printed by the version command.
var (
	buildVersion = "dev"
	buildCommit  = "none"
	buildDate    = "unknown"
)

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Long:  `Display the version, commit hash, and build date of motionheic.`,
		Run: func(_ *cobra.Command, _ []string) {
			fmt.Fprintf(
				os.Stdout,
				`              _   _             _          _
 _ __ ___  ___ | |_(_) ___  _ __ | |__   ___(_) ___
| '_ ` + "`" + ` _ \/ _ \| __| |/ _ \| '_ \| '_ \ / _ \ |/ __|
| | | | | | (_) | |_| | (_) | | | | | | |  __/ | (__
|_| |_| |_|\___/ \__|_|\___/|_| |_|_| |_|\___|_|\___|

motionheic %s (commit: %s, built: %s)
`,
				buildVersion,
				buildCommit,
				buildDate,
			)
		},
	}
}
