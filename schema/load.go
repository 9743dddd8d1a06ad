package schema

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/syssam/relgraph/scalar"
)

// file is the YAML representation of a schema.
//
//	features: [timestamps]
//	tables:
//	  - name: people
//	    primary_key: [id]
//	    columns:
//	      - {name: id, kind: int}
//	      - {name: name, kind: string}
//	    edges:
//	      - {name: posts, has_many: posts, ref_columns: [author_id]}
type file struct {
	Features []string    `yaml:"features"`
	Tables   []tableFile `yaml:"tables"`
}

type tableFile struct {
	Name       string       `yaml:"name"`
	Type       string       `yaml:"type"`
	Comment    string       `yaml:"comment"`
	PrimaryKey []string     `yaml:"primary_key"`
	Columns    []columnFile `yaml:"columns"`
	Edges      []edgeFile   `yaml:"edges"`
}

type columnFile struct {
	Name     string `yaml:"name"`
	Kind     string `yaml:"kind"`
	Nullable bool   `yaml:"nullable"`
	Comment  string `yaml:"comment"`
}

type edgeFile struct {
	Name       string   `yaml:"name"`
	BelongsTo  string   `yaml:"belongs_to"`
	HasMany    string   `yaml:"has_many"`
	Columns    []string `yaml:"columns"`
	RefColumns []string `yaml:"ref_columns"`
	Optional   bool     `yaml:"optional"`
	Comment    string   `yaml:"comment"`
}

// LoadFile reads a schema from a YAML file.
func LoadFile(path string) (*Schema, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("schema: %w", err)
	}
	return LoadYAML(bytes.NewReader(data))
}

// LoadYAML reads a schema from YAML.
func LoadYAML(r io.Reader) (*Schema, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	var f file
	if err := dec.Decode(&f); err != nil && err != io.EOF {
		return nil, fmt.Errorf("schema: decode yaml: %w", err)
	}
	var cfg Config
	for _, name := range f.Features {
		switch strings.ToLower(name) {
		case "timestamps":
			cfg.Features |= scalar.Timestamps
		case "uuids":
			cfg.Features |= scalar.UUIDs
		default:
			return nil, fmt.Errorf("schema: unknown feature %q", name)
		}
	}
	builders := make([]*TableBuilder, 0, len(f.Tables))
	for _, tf := range f.Tables {
		b, err := tf.builder()
		if err != nil {
			return nil, err
		}
		builders = append(builders, b)
	}
	return cfg.Build(builders...)
}

func (tf tableFile) builder() (*TableBuilder, error) {
	b := NewTable(tf.Name).PrimaryKey(tf.PrimaryKey...).Comment(tf.Comment)
	if tf.Type != "" {
		b.TypeName(tf.Type)
	}
	for _, cf := range tf.Columns {
		kind, err := scalar.ParseKind(cf.Kind)
		if err != nil {
			return nil, fmt.Errorf("schema: column %s.%s: %w", tf.Name, cf.Name, err)
		}
		c := Field(cf.Name, kind).Comment(cf.Comment)
		if cf.Nullable {
			c.Nullable()
		}
		b.Columns(c)
	}
	for _, ef := range tf.Edges {
		var e *EdgeBuilder
		switch {
		case ef.BelongsTo != "" && ef.HasMany == "":
			e = To(ef.Name, ef.BelongsTo, ef.Columns...)
			if len(ef.RefColumns) > 0 {
				e.References(ef.RefColumns...)
			}
		case ef.HasMany != "" && ef.BelongsTo == "":
			e = From(ef.Name, ef.HasMany, ef.RefColumns...)
			if len(ef.Columns) > 0 {
				e.References(ef.Columns...)
			}
		default:
			return nil, fmt.Errorf("schema: edge %s.%s: exactly one of belongs_to or has_many is required", tf.Name, ef.Name)
		}
		if ef.Optional {
			e.Optional()
		}
		b.Edges(e.Comment(ef.Comment))
	}
	return b, nil
}
