// Package config loads rulesd and migrate settings from YAML and SWSE_*
// environment variables through Viper.
package config

import (
	"errors"
	"fmt"
	"net"
	"net/url"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// DatabaseConfig holds PostgreSQL connection settings.
type DatabaseConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	User            string        `mapstructure:"user"`
	Password        string        `mapstructure:"password"`
	Name            string        `mapstructure:"name"`
	SSLMode         string        `mapstructure:"sslmode"`
	MaxConns        int32         `mapstructure:"max_conns"`
	MinConns        int32         `mapstructure:"min_conns"`
	MaxConnLifetime time.Duration `mapstructure:"max_conn_lifetime"`
}

// DSN renders the settings as a postgres:// URL. Credentials are escaped, so
// passwords may contain URL metacharacters.
func (d DatabaseConfig) DSN() string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(d.User, d.Password),
		Host:     net.JoinHostPort(d.Host, strconv.Itoa(d.Port)),
		Path:     "/" + d.Name,
		RawQuery: url.Values{"sslmode": {d.SSLMode}}.Encode(),
	}
	return u.String()
}

// LoggingConfig selects the zap level ("debug" through "error") and encoder
// ("json" or "console").
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Slot policies for items that carry no explicit upgrade slot count.
const (
	// SlotPolicyStandard gives powered armor 2 slots and everything else 1.
	SlotPolicyStandard = "standard"
	// SlotPolicyTyped uses a per-item-type default table.
	SlotPolicyTyped = "typed"
)

// RulesConfig holds optional-rule switches consumed by the derivation pass and
// the upgrade engine.
type RulesConfig struct {
	// SlotPolicy selects the default upgrade slot table: "standard" or "typed".
	SlotPolicy string `mapstructure:"slot_policy"`
	// PoweredArmorSlots is the default slot count for powered armor.
	PoweredArmorSlots int `mapstructure:"powered_armor_slots"`
	// DailyForcePoints enables the per-day Force Point table.
	DailyForcePoints bool `mapstructure:"daily_force_points"`
}

// ContentConfig locates the YAML/JSON reference data.
type ContentConfig struct {
	// Dir is the root content directory (classes/, species/, armor/, ...).
	Dir string `mapstructure:"dir"`
}

// CacheConfig holds reference-data cache settings.
type CacheConfig struct {
	TTL  time.Duration `mapstructure:"ttl"`
	Size int           `mapstructure:"size"`
	// FetchConcurrency bounds parallel document fetches in a batch.
	FetchConcurrency int `mapstructure:"fetch_concurrency"`
}

// Storage backends selectable with rpc.storage.
const (
	StorageMemory   = "memory"
	StoragePostgres = "postgres"
)

// RPCConfig holds the gRPC listener settings.
type RPCConfig struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
	// Storage selects the document backend: "memory" or "postgres".
	Storage string `mapstructure:"storage"`
}

// Addr is the listen address, e.g. "127.0.0.1:50061".
func (r RPCConfig) Addr() string {
	return net.JoinHostPort(r.Host, strconv.Itoa(r.Port))
}

// ScriptingConfig holds rule hook script settings.
type ScriptingConfig struct {
	// Dir holds *.lua hook scripts; empty disables scripting.
	Dir              string `mapstructure:"dir"`
	InstructionLimit int    `mapstructure:"instruction_limit"`
}

// Config is the top-level application configuration.
type Config struct {
	Logging   LoggingConfig   `mapstructure:"logging"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Rules     RulesConfig     `mapstructure:"rules"`
	Content   ContentConfig   `mapstructure:"content"`
	Cache     CacheConfig     `mapstructure:"cache"`
	RPC       RPCConfig       `mapstructure:"rpc"`
	Scripting ScriptingConfig `mapstructure:"scripting"`
}

// Validate reports every invalid setting at once. Database settings are only
// checked when rpc.storage is "postgres".
func (c Config) Validate() error {
	var p problems
	p.oneOf("logging.level", c.Logging.Level, "debug", "info", "warn", "error")
	p.oneOf("logging.format", c.Logging.Format, "json", "console")

	if c.RPC.Storage == StoragePostgres {
		d := c.Database
		p.check(d.Host != "", "database.host must not be empty")
		p.port("database.port", d.Port)
		p.check(d.User != "", "database.user must not be empty")
		p.check(d.Name != "", "database.name must not be empty")
		p.oneOf("database.sslmode", d.SSLMode, "disable", "require", "verify-ca", "verify-full")
		p.check(d.MaxConns >= 1, "database.max_conns must be >= 1, got %d", d.MaxConns)
		p.check(d.MinConns >= 0, "database.min_conns must be >= 0, got %d", d.MinConns)
		p.check(d.MinConns <= d.MaxConns, "database.min_conns (%d) exceeds database.max_conns (%d)", d.MinConns, d.MaxConns)
	}

	p.oneOf("rules.slot_policy", c.Rules.SlotPolicy, SlotPolicyStandard, SlotPolicyTyped)
	p.check(c.Rules.PoweredArmorSlots >= 1, "rules.powered_armor_slots must be >= 1, got %d", c.Rules.PoweredArmorSlots)

	p.check(c.Content.Dir != "", "content.dir must not be empty")

	p.check(c.Cache.TTL > 0, "cache.ttl must be positive, got %s", c.Cache.TTL)
	p.check(c.Cache.Size >= 1, "cache.size must be >= 1, got %d", c.Cache.Size)
	p.check(c.Cache.FetchConcurrency >= 1, "cache.fetch_concurrency must be >= 1, got %d", c.Cache.FetchConcurrency)

	p.check(c.RPC.Host != "", "rpc.host must not be empty")
	p.port("rpc.port", c.RPC.Port)
	p.oneOf("rpc.storage", c.RPC.Storage, StorageMemory, StoragePostgres)

	p.check(c.Scripting.InstructionLimit >= 0, "scripting.instruction_limit must be >= 0, got %d", c.Scripting.InstructionLimit)

	if err := errors.Join(p...); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}

// problems accumulates validation failures.
type problems []error

func (p *problems) check(ok bool, format string, args ...any) {
	if !ok {
		*p = append(*p, fmt.Errorf(format, args...))
	}
}

func (p *problems) oneOf(key, got string, allowed ...string) {
	p.check(slices.Contains(allowed, got), "%s must be one of %v, got %q", key, allowed, got)
}

func (p *problems) port(key string, got int) {
	p.check(got >= 1 && got <= 65535, "%s must be 1-65535, got %d", key, got)
}

// Load reads the YAML file at path over the built-in defaults. Any key can be
// overridden from the environment as SWSE_<SECTION>_<KEY>, for example
// SWSE_RPC_STORAGE=postgres.
func Load(path string) (Config, error) {
	if path == "" {
		return Config{}, errors.New("config: path must not be empty")
	}
	v := Defaults()
	v.SetConfigFile(path)
	v.SetEnvPrefix("SWSE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	if err := v.ReadInConfig(); err != nil {
		return Config{}, fmt.Errorf("config: reading %s: %w", path, err)
	}
	return LoadFromViper(v)
}

// LoadFromViper decodes and validates v.
func LoadFromViper(v *viper.Viper) (Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("config: decoding: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// defaults is every key's built-in value; a deployment file only lists what
// it changes.
var defaults = map[string]any{
	"logging.level":  "info",
	"logging.format": "json",

	"database.host":              "localhost",
	"database.port":              5432,
	"database.user":              "swse",
	"database.password":          "swse",
	"database.name":              "swse",
	"database.sslmode":           "disable",
	"database.max_conns":         10,
	"database.min_conns":         2,
	"database.max_conn_lifetime": "1h",

	"rules.slot_policy":         SlotPolicyStandard,
	"rules.powered_armor_slots": 2,
	"rules.daily_force_points":  false,

	"content.dir": "content",

	"cache.ttl":               "10m",
	"cache.size":              512,
	"cache.fetch_concurrency": 8,

	"rpc.host":    "127.0.0.1",
	"rpc.port":    50061,
	"rpc.storage": StorageMemory,

	"scripting.dir":               "",
	"scripting.instruction_limit": 0,
}

// Defaults returns a Viper instance holding only the built-in defaults.
func Defaults() *viper.Viper {
	v := viper.New()
	for k, val := range defaults {
		v.SetDefault(k, val)
	}
	return v
}
