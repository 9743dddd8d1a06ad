package main

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/syssam/relgraph/dialect"
	"github.com/syssam/relgraph/dialect/sql"
	"github.com/syssam/relgraph/graph"
	"github.com/syssam/relgraph/schema"
)

const envPrefix = "RELGRAPH"

// config is read from flags and RELGRAPH_* environment variables, flags
// taking precedence.
type config struct {
	Dialect       string        `mapstructure:"dialect"`
	DSN           string        `mapstructure:"dsn"`
	Schema        string        `mapstructure:"schema"`
	LogLevel      string        `mapstructure:"log-level"`
	Debug         bool          `mapstructure:"debug"`
	SlowThreshold time.Duration `mapstructure:"slow-threshold"`
	MaxDepth      int           `mapstructure:"max-depth"`
}

func registerConfigFlags(cmd *cobra.Command) {
	flags := cmd.PersistentFlags()
	flags.String("dialect", dialect.SQLite, `database dialect ("sqlite", "postgres", "mysql")`)
	flags.String("dsn", "", "data source name of the database")
	flags.String("schema", "", "path of the YAML schema file")
	flags.String("log-level", "warn", `log level ("debug", "info", "warn", "error")`)
	flags.Bool("debug", false, "log every statement sent to the database")
	flags.Duration("slow-threshold", 0, "log statements slower than this duration")
	flags.Int("max-depth", graph.DefaultMaxDepth, "maximum nesting of edges in a selection")
}

// loadConfig binds the flags of cmd and the environment into v.
func loadConfig(v *viper.Viper, cmd *cobra.Command) (*config, error) {
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	if err := v.BindPFlags(cmd.Flags()); err != nil {
		return nil, err
	}
	var cfg config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	switch cfg.Dialect {
	case dialect.SQLite, dialect.Postgres, dialect.MySQL:
	default:
		return nil, fmt.Errorf("unsupported dialect %q", cfg.Dialect)
	}
	return &cfg, nil
}

func (c *config) logger(cmd *cobra.Command) (*slog.Logger, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", c.LogLevel, err)
	}
	return slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level})), nil
}

func (c *config) loadSchema() (*schema.Schema, error) {
	if c.Schema == "" {
		return nil, fmt.Errorf("no schema file: set --schema or %s_SCHEMA", envPrefix)
	}
	return schema.LoadFile(c.Schema)
}

// open connects to the database, wrapping the driver as configured. The
// returned stats count every statement.
func (c *config) open(log *slog.Logger) (dialect.Driver, *sql.QueryStats, error) {
	if c.DSN == "" {
		return nil, nil, fmt.Errorf("no data source: set --dsn or %s_DSN", envPrefix)
	}
	db, err := sql.Open(c.Dialect, c.DSN)
	if err != nil {
		return nil, nil, err
	}
	var drv dialect.Driver = db
	if c.Debug {
		drv = sql.NewDebugDriver(drv, log)
	}
	opts := []sql.StatsOption{sql.WithSlowQueryLog(log)}
	if c.SlowThreshold > 0 {
		opts = append(opts, sql.WithSlowThreshold(c.SlowThreshold))
	}
	stats := sql.NewStatsDriver(drv, opts...)
	return stats, stats.QueryStats(), nil
}
