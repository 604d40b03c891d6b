// Copyright © 2025 The Refract authors

package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var cfgFile string

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "refract",
	Short: "Refract — reference resolution for semantic snapshots",
	Long: `Refract answers "what does this name mean?" over semantic snapshots:
type-checked syntax trees dumped as JSON by a language front end.

Getting started:
  refract resolve tree.json 42    Resolve the name written at byte offset 42
  refract refs tree.json          List every explicit reference, in source order
  refract decls tree.json vec     List declarations whose name starts with "vec"
  refract explore tree.json       Start an interactive query session

Resolution reports every declaration a name can stand for, tagged with
how it was reached: an alias declaration and the entity it renames, or
a generic instantiation and the pattern it was stamped out from.
Reference listings drop the alias entries, reporting names where they
were written and macro-expanded names at their expansion point.

Snapshots are produced by a front end, not by refract; any tool that
emits the versioned JSON tree format can feed it.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.refract.yaml)")
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		// Use config file from the flag.
		viper.SetConfigFile(cfgFile)
	} else {
		// Find home directory.
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}

		// Search config in home directory with name ".refract" (without extension).
		viper.AddConfigPath(home)
		viper.SetConfigName(".refract")
	}

	viper.AutomaticEnv() // read in environment variables that match

	// If a config file is found, read it in.
	if err := viper.ReadInConfig(); err == nil {
		fmt.Println("Using config file:", viper.ConfigFileUsed())
	}
}
