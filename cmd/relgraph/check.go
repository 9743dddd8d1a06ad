package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/syssam/relgraph/dialect/sqlschema"
)

func newCheckCmd(v *viper.Viper) *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Compare the schema file with the database",
		Long: "Select from every declared table and report declared columns the database " +
			"lacks as errors, and undeclared or unexpectedly nullable columns as warnings.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(v, cmd)
			if err != nil {
				return err
			}
			log, err := cfg.logger(cmd)
			if err != nil {
				return err
			}
			s, err := cfg.loadSchema()
			if err != nil {
				return err
			}
			drv, _, err := cfg.open(log)
			if err != nil {
				return err
			}
			defer drv.Close()
			result, err := sqlschema.Check(cmd.Context(), drv, s)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), result)
			if result.HasErrors() {
				return fmt.Errorf("schema check found %d error(s)", len(result.Errors))
			}
			return nil
		},
	}
}
