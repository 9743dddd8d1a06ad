package main

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func newRootCmd() *cobra.Command {
	v := viper.New()
	rootCmd := &cobra.Command{
		Use:   "relgraph",
		Short: "Serve a relational schema as GraphQL",
		Long: "relgraph renders a GraphQL schema for the tables described in a YAML schema file " +
			"and runs GraphQL documents against the database holding them.",
		SilenceUsage: true,
	}
	registerConfigFlags(rootCmd)
	rootCmd.AddCommand(newQueryCmd(v), newSDLCmd(v), newCheckCmd(v))
	return rootCmd
}
