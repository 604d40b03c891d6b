// Copyright © 2025 The Refract authors

package cmd

import (
	"fmt"
	"strings"

	"github.com/refract-tools/refract/explore"
	"github.com/refract-tools/refract/sem"
	"github.com/spf13/cobra"
)

var declsLong bool

// declsCmd represents the decls command
var declsCmd = &cobra.Command{
	Use:   "decls <snapshot> [prefix]",
	Short: "List the snapshot's declarations",
	Long: `List the declarations recorded in a snapshot, with their handles.

Handles feed the explore session's describe command. An optional prefix
narrows the listing by declaration name.

Examples:
  refract decls tree.json
  refract decls tree.json vec
  refract decls tree.json --long`,
	Args: cobra.RangeArgs(1, 2),
	Run: func(cmd *cobra.Command, args []string) {
		tree := loadSnapshot(args[0])
		prefix := ""
		if len(args) == 2 {
			prefix = args[1]
		}
		for id := sem.DeclID(1); int(id) <= tree.DeclCount(); id++ {
			d := tree.Decl(id)
			if !strings.HasPrefix(d.Name, prefix) {
				continue
			}
			if declsLong {
				fmt.Print(explore.DescribeDecl(tree, id))
				continue
			}
			fmt.Printf("%4d  %s\n", id, d)
		}
	},
}

func init() {
	rootCmd.AddCommand(declsCmd)

	declsCmd.Flags().BoolVarP(&declsLong, "long", "l", false,
		"Show each declaration in full")
}
