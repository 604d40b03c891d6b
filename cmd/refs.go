// Copyright © 2025 The Refract authors

package cmd

import (
	"fmt"
	"os"

	"github.com/refract-tools/refract/analysis"
	"github.com/refract-tools/refract/annotate"
	"github.com/refract-tools/refract/sem"
	"github.com/refract-tools/refract/treeutil"
	"github.com/spf13/cobra"
)

var (
	refsOffset   int
	refsAnnotate bool
)

// refsCmd represents the refs command
var refsCmd = &cobra.Command{
	Use:   "refs <snapshot>",
	Short: "List explicit references in source order",
	Long: `List every explicitly written name reference in the snapshot, one line
per record, in strictly increasing source-offset order.

Each record shows where the name was written, the scope qualification
preceding it (one record per written "a::" segment), and the
declarations it resolves to. Alias entries are dropped; names expanded
from macros are reported at their expansion point.

Examples:
  refract refs tree.json
  refract refs tree.json --at 42     Only the subtree of the name at offset 42
  refract refs tree.json --annotate  Annotated source snippets instead of lines`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		tree := loadSnapshot(args[0])
		root := tree.Root()
		if cmd.Flags().Changed("at") {
			root = treeutil.FindAtOffset(tree, tree.Root(), refsOffset)
			if root == sem.InvalidNode {
				fmt.Fprintf(os.Stderr, "no name at offset %d\n", refsOffset)
				os.Exit(1)
			}
		}
		if refsAnnotate {
			renderer := &annotate.Renderer{}
			var as []annotate.Annotation
			analysis.CollectReferences(tree, root, func(r analysis.Reference) {
				as = append(as, renderer.Reference(tree, r))
			})
			if err := renderer.RenderAll(os.Stdout, as); err != nil {
				fmt.Fprintln(os.Stderr, err)
				os.Exit(1)
			}
			return
		}
		analysis.CollectReferences(tree, root, func(r analysis.Reference) {
			fmt.Printf("%s: %s\n", r.Loc, r.Format(tree))
		})
	},
}

func init() {
	rootCmd.AddCommand(refsCmd)

	refsCmd.Flags().IntVar(&refsOffset, "at", 0,
		"Restrict the listing to the subtree of the name at this offset")
	refsCmd.Flags().BoolVar(&refsAnnotate, "annotate", false,
		"Render annotated source snippets (requires readable source files)")
}
