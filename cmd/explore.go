// Copyright © 2025 The Refract authors

package cmd

import (
	"os"
	"path/filepath"

	"github.com/refract-tools/refract/explore"
	"github.com/spf13/cobra"
)

// exploreCmd represents the explore command
var exploreCmd = &cobra.Command{
	Use:   "explore <snapshot>",
	Short: "Start an interactive query session over a snapshot",
	Long: `Start an interactive query session over a loaded snapshot.

Line editing and in-session command history are supported via readline.
Use Ctrl-D or quit to exit.

Example session:
  refract> at 42
  type-ref at main.cpp[42]
    struct ns::S
  refract> refs
  main.cpp[40]: targets = {namespace ns}
  main.cpp[44]: targets = {struct ns::S}, qualifier = 'ns::'
  refract> decls S
     2  struct ns::S
  refract> describe 2
  ...`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		tree := loadSnapshot(args[0])
		if err := explore.Run(tree, filepath.Base(os.Args[0])+"> "); err != nil {
			cmd.PrintErrln(err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(exploreCmd)
}
