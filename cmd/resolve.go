// Copyright © 2025 The Refract authors

package cmd

import (
	"fmt"
	"os"
	"strconv"

	"github.com/refract-tools/refract/analysis"
	"github.com/refract-tools/refract/sem"
	"github.com/refract-tools/refract/snapshot"
	"github.com/refract-tools/refract/treeutil"
	"github.com/spf13/cobra"
)

var resolveDropAliases bool

// resolveCmd represents the resolve command
var resolveCmd = &cobra.Command{
	Use:   "resolve <snapshot> <offset>",
	Short: "Resolve the name written at a byte offset",
	Long: `Resolve the name written at a byte offset in the snapshot's main file.

Every declaration the name can stand for is printed, tagged with how it
was reached:
  alias            the name goes through this alias/import declaration
  underlying       the entity behind a chased alias
  pattern          the generic pattern an instantiation was stamped from
  instantiation    the concrete instantiation itself

Examples:
  refract resolve tree.json 42
  refract resolve tree.json 42 --drop-aliases`,
	Args: cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		tree := loadSnapshot(args[0])
		offset, err := strconv.Atoi(args[1])
		if err != nil {
			fmt.Fprintf(os.Stderr, "bad offset %q\n", args[1])
			os.Exit(1)
		}
		id := treeutil.FindAtOffset(tree, tree.Root(), offset)
		if id == sem.InvalidNode {
			fmt.Fprintf(os.Stderr, "no name at offset %d\n", offset)
			os.Exit(1)
		}
		targets := analysis.Resolve(tree, id)
		if resolveDropAliases {
			targets = targets.WithoutRelation(analysis.RelAlias)
		}
		for _, tgt := range targets.Targets() {
			if tgt.Relations.Empty() {
				fmt.Println(tree.DeclString(tgt.Decl))
				continue
			}
			fmt.Printf("%s [%s]\n", tree.DeclString(tgt.Decl), tgt.Relations)
		}
	},
}

// loadSnapshot loads a snapshot file or exits with the load error.
func loadSnapshot(path string) *sem.Tree {
	tree, err := snapshot.Load(path)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	return tree
}

func init() {
	rootCmd.AddCommand(resolveCmd)

	resolveCmd.Flags().BoolVar(&resolveDropAliases, "drop-aliases", false,
		"Omit alias-tagged entries, as reference listings do")
}
