package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/syssam/relgraph/contrib/graphql"
)

func newSDLCmd(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sdl",
		Short: "Print the GraphQL schema of the tables",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runSDL(v, cmd)
		},
	}
	cmd.Flags().StringP("out", "o", "", "write the schema to a file instead of standard output")
	cmd.Flags().String("gqlgen", "", "gqlgen.yml to register the written schema and its scalars in (requires --out)")
	return cmd
}

func runSDL(v *viper.Viper, cmd *cobra.Command) error {
	cfg, err := loadConfig(v, cmd)
	if err != nil {
		return err
	}
	s, err := cfg.loadSchema()
	if err != nil {
		return err
	}
	sdl := graphql.SDL(s)
	out, _ := cmd.Flags().GetString("out")
	gqlgen, _ := cmd.Flags().GetString("gqlgen")
	if out == "" {
		if gqlgen != "" {
			return fmt.Errorf("--gqlgen requires --out")
		}
		_, err := fmt.Fprint(cmd.OutOrStdout(), sdl)
		return err
	}
	if err := os.WriteFile(out, []byte(sdl), 0o644); err != nil {
		return err
	}
	if gqlgen == "" {
		return nil
	}
	gc, err := graphql.LoadGQLGenConfig(gqlgen)
	if err != nil {
		return err
	}
	gc.BindSchema(out)
	return graphql.SaveGQLGenConfig(gqlgen, gc)
}
