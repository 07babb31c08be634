// Package cli holds the CLI-wide sentinel errors shared by every verb
// package, plus a bare root command shell mirroring cmd.Root()'s shape.
package cli

import (
	"github.com/spf13/cobra"
)

func NewCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "motionheic",
		Short: "Merges a HEIC still and a companion movie into a Motion Photo.",
	}
}
