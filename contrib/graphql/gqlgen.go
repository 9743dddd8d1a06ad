package graphql

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"

	"github.com/99designs/gqlgen/graphql"
	"github.com/vektah/gqlparser/v2/ast"
	"gopkg.in/yaml.v3"

	"github.com/syssam/relgraph/scalar"
)

// FromContext returns the selection of the field being resolved by a gqlgen
// resolver, so a generated server can hand its fields to a graph.Engine:
//
//	func (r *queryResolver) People(ctx context.Context) ([]*graph.Object, error) {
//	    sel, err := graphql.FromContext(ctx)
//	    if err != nil {
//	        return nil, err
//	    }
//	    return r.engine.Load(ctx, "people", sel)
//	}
func FromContext(ctx context.Context) (*Selection, error) {
	if !graphql.HasOperationContext(ctx) {
		return nil, errors.New("graphql: no operation in context")
	}
	fc := graphql.GetFieldContext(ctx)
	if fc == nil || fc.Field.Field == nil {
		return nil, errors.New("graphql: no field in context")
	}
	oc := graphql.GetOperationContext(ctx)
	collect := func(set ast.SelectionSet) []collected {
		fields := graphql.CollectFields(oc, set, nil)
		out := make([]collected, len(fields))
		for i, f := range fields {
			out[i] = collected{field: f.Field, set: f.Selections}
		}
		return out
	}
	return newSelection(collect, fc.Field.Arguments, fc.Field.Selections, oc.Variables)
}

// GQLGenConfig is the subset of gqlgen.yml that relgraph maintains.
// Unknown keys are not preserved by SaveGQLGenConfig.
type GQLGenConfig struct {
	SchemaFilename StringList              `yaml:"schema,omitempty"`
	Exec           FileConfig              `yaml:"exec,omitempty"`
	Model          FileConfig              `yaml:"model,omitempty"`
	Resolver       FileConfig              `yaml:"resolver,omitempty"`
	Autobind       []string                `yaml:"autobind,omitempty"`
	Models         map[string]TypeMapEntry `yaml:"models,omitempty"`
}

// FileConfig names a generated file and its package.
type FileConfig struct {
	Filename string `yaml:"filename,omitempty"`
	Package  string `yaml:"package,omitempty"`
}

// TypeMapEntry binds one GraphQL type to Go models.
type TypeMapEntry struct {
	Model StringList `yaml:"model,omitempty"`
}

// StringList is a YAML string or list of strings.
type StringList []string

// UnmarshalYAML implements yaml.Unmarshaler.
func (s *StringList) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		*s = []string{node.Value}
		return nil
	case yaml.SequenceNode:
		var list []string
		if err := node.Decode(&list); err != nil {
			return err
		}
		*s = list
		return nil
	default:
		return fmt.Errorf("expected string or list, got %v", node.Kind)
	}
}

// MarshalYAML implements yaml.Marshaler.
func (s StringList) MarshalYAML() (any, error) {
	if len(s) == 1 {
		return s[0], nil
	}
	return []string(s), nil
}

// LoadGQLGenConfig reads a gqlgen.yml file. A missing file yields an empty
// configuration.
func LoadGQLGenConfig(path string) (*GQLGenConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &GQLGenConfig{Models: make(map[string]TypeMapEntry)}, nil
		}
		return nil, fmt.Errorf("read gqlgen config: %w", err)
	}
	var cfg GQLGenConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse gqlgen config: %w", err)
	}
	if cfg.Models == nil {
		cfg.Models = make(map[string]TypeMapEntry)
	}
	return &cfg, nil
}

// SaveGQLGenConfig writes cfg to path, creating its directory.
func SaveGQLGenConfig(path string, cfg *GQLGenConfig) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal gqlgen config: %w", err)
	}
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory: %w", err)
		}
	}
	return os.WriteFile(path, data, 0o644)
}

// scalarModels binds the custom scalars of a rendered schema to gqlgen's
// marshalers.
var scalarModels = map[scalar.Kind]string{
	scalar.SmallInt:  "github.com/99designs/gqlgen/graphql.Int",
	scalar.BigInt:    "github.com/99designs/gqlgen/graphql.Int64",
	scalar.Double:    "github.com/99designs/gqlgen/graphql.Float",
	scalar.Timestamp: "github.com/99designs/gqlgen/graphql.Time",
	scalar.Date:      "github.com/99designs/gqlgen/graphql.String",
	scalar.UUID:      "github.com/99designs/gqlgen/graphql.UUID",
}

// BindSchema adds the schema file and the custom scalar bindings to c.
func (c *GQLGenConfig) BindSchema(schemaPath string) {
	if schemaPath != "" && !slices.Contains(c.SchemaFilename, schemaPath) {
		c.SchemaFilename = append(c.SchemaFilename, schemaPath)
	}
	if c.Models == nil {
		c.Models = make(map[string]TypeMapEntry)
	}
	for _, k := range customScalars {
		entry := c.Models[k.String()]
		if model := scalarModels[k]; !slices.Contains(entry.Model, model) {
			entry.Model = append(entry.Model, model)
		}
		c.Models[k.String()] = entry
	}
}
