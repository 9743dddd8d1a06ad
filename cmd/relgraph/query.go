package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/syssam/relgraph/contrib/graphql"
	"github.com/syssam/relgraph/graph"
)

func newQueryCmd(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "query [document]",
		Short: "Run a GraphQL document against the database",
		Long: "Run a GraphQL query or mutation and print the response as JSON. The document " +
			"is read from the argument, from --file, or from standard input.",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runQuery(v, cmd, args)
		},
	}
	cmd.Flags().StringP("file", "f", "", "read the document from a file")
	cmd.Flags().String("variables", "", "variables as a JSON object")
	cmd.Flags().String("operation", "", "name of the operation to run")
	cmd.Flags().Bool("stats", false, "print statement counts to standard error")
	return cmd
}

func runQuery(v *viper.Viper, cmd *cobra.Command, args []string) error {
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
	params, err := readParams(cmd, args)
	if err != nil {
		return err
	}
	drv, stats, err := cfg.open(log)
	if err != nil {
		return err
	}
	defer drv.Close()

	eng := graph.NewEngine(drv, s, graph.WithLogger(log), graph.WithMaxDepth(cfg.MaxDepth))
	x, err := graphql.NewExecutor(eng, graphql.WithLogger(log))
	if err != nil {
		return err
	}
	resp := x.Execute(cmd.Context(), params)
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	if err := enc.Encode(resp); err != nil {
		return err
	}
	if ok, _ := cmd.Flags().GetBool("stats"); ok {
		fmt.Fprintln(cmd.ErrOrStderr(), stats.Snapshot())
	}
	if len(resp.Errors) > 0 {
		return fmt.Errorf("query failed with %d error(s)", len(resp.Errors))
	}
	return nil
}

func readParams(cmd *cobra.Command, args []string) (graphql.Params, error) {
	var p graphql.Params
	file, _ := cmd.Flags().GetString("file")
	switch {
	case len(args) == 1 && file != "":
		return p, errors.New("pass the document either as an argument or with --file")
	case len(args) == 1:
		p.Query = args[0]
	case file != "":
		data, err := os.ReadFile(file)
		if err != nil {
			return p, err
		}
		p.Query = string(data)
	default:
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return p, err
		}
		p.Query = string(data)
	}
	if strings.TrimSpace(p.Query) == "" {
		return p, errors.New("empty document")
	}
	p.OperationName, _ = cmd.Flags().GetString("operation")
	if raw, _ := cmd.Flags().GetString("variables"); raw != "" {
		dec := json.NewDecoder(bytes.NewReader([]byte(raw)))
		dec.UseNumber()
		if err := dec.Decode(&p.Variables); err != nil {
			return p, fmt.Errorf("invalid variables: %w", err)
		}
	}
	return p, nil
}
