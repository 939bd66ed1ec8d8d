package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const configFileEnvName = "STOREFRONT_CONFIG_FILE"

const (
	BackendApper = "apper"
	BackendSQL   = "sql"
)

var ErrInvalidConfig = errors.New("invalid config")

type apper struct {
	BaseURL   string        `mapstructure:"base_url"`
	ProjectID string        `mapstructure:"project_id"`
	PublicKey string        `mapstructure:"public_key"`
	Timeout   time.Duration `mapstructure:"timeout"`
}

type backend struct {
	Kind  string `mapstructure:"kind"`
	Apper apper  `mapstructure:"apper"`
	SQLDB string `mapstructure:"sql_db"`
}

type topics struct {
	SearchEvents string `mapstructure:"search_events"`
}

type tlsFiles struct {
	CA   string `mapstructure:"ca"`
	Cert string `mapstructure:"cert"`
	Key  string `mapstructure:"key"`
}

// Enabled reports whether the CA file is set.
func (t tlsFiles) Enabled() bool {
	return t.CA != ""
}

type broker struct {
	Enabled            bool     `mapstructure:"enabled"`
	SeedBrokers        []string `mapstructure:"seed_brokers"`
	SchemaRegistryURLs []string `mapstructure:"schema_registry_urls"`
	Topics             topics   `mapstructure:"topics"`
	TLS                tlsFiles `mapstructure:"tls"`
}

type Config struct {
	LogLevel           slog.Level    `mapstructure:"log_level"`
	HTTPServerAddr     string        `mapstructure:"http_server_addr"`
	HTTPHandlerTimeout time.Duration `mapstructure:"http_handler_timeout"`
	Backend            backend       `mapstructure:"backend"`
	Broker             broker        `mapstructure:"broker"`
}

// Load reads the file named by the STOREFRONT_CONFIG_FILE env or the
// --config flag and exits the process on failure.
func Load() Config {
	cfg, err := LoadFile(getConfigFilepath())
	if err != nil {
		die(err)
	}
	return cfg
}

func LoadFile(path string) (Config, error) {
	const op = "config.LoadFile"

	v := viper.New()
	setDefaults(v)
	v.SetConfigFile(path)

	if err := v.ReadInConfig(); err != nil {
		return Config{}, fmt.Errorf("%s: %w", op, err)
	}

	var cfg Config
	err := v.UnmarshalExact(&cfg, viper.DecodeHook(
		mapstructure.ComposeDecodeHookFunc(
			mapstructure.TextUnmarshallerHookFunc(),
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		),
	))
	if err != nil {
		return Config{}, fmt.Errorf("%s: %w", op, err)
	}

	if err := cfg.validate(); err != nil {
		return Config{}, fmt.Errorf("%s: %w", op, err)
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("log_level", "info")
	v.SetDefault("http_server_addr", ":8080")
	v.SetDefault("http_handler_timeout", "5s")
	v.SetDefault("backend.kind", BackendApper)
	v.SetDefault("backend.apper.timeout", "10s")
	v.SetDefault("broker.enabled", false)
	v.SetDefault("broker.topics.search_events", "storefront-search-events")
}

func (c Config) validate() error {
	var errs []error

	switch c.Backend.Kind {
	case BackendApper:
		if c.Backend.Apper.BaseURL == "" {
			errs = append(errs, errors.New("backend.apper.base_url: required"))
		}
		if c.Backend.Apper.ProjectID == "" {
			errs = append(errs, errors.New("backend.apper.project_id: required"))
		}
	case BackendSQL:
		if c.Backend.SQLDB == "" {
			errs = append(errs, errors.New("backend.sql_db: required"))
		}
	default:
		errs = append(errs, fmt.Errorf("backend.kind: unknown %q", c.Backend.Kind))
	}

	if c.Broker.Enabled {
		if len(c.Broker.SeedBrokers) == 0 {
			errs = append(errs, errors.New("broker.seed_brokers: required"))
		}
		if len(c.Broker.SchemaRegistryURLs) == 0 {
			errs = append(errs, errors.New("broker.schema_registry_urls: required"))
		}
	}

	if len(errs) != 0 {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, errors.Join(errs...))
	}
	return nil
}

func getConfigFilepath() string {
	cmdLine := pflag.NewFlagSet(os.Args[0], pflag.ExitOnError)
	arg := cmdLine.String("config", "/config.yaml", "config file")
	_ = cmdLine.Parse(os.Args[1:])
	env, ok := os.LookupEnv(configFileEnvName)
	if ok {
		return env
	}
	return *arg
}

func die(err error) {
	fmt.Printf("failed to load config file: %v\n", err)
	os.Exit(2)
}

func mask(secret string) string {
	if secret == "" {
		return ""
	}
	return "******"
}

func (c Config) Print() {
	tamplate := `
	General:
	LogLevel=%q
	HTTPServerAddr=%q
	HTTPHandlerTimeout=%q

	Backend:
	Kind=%q
	Apper:
		BaseURL=%q
		ProjectID=%q
		PublicKey=%q
		Timeout=%q
	SQLDB=%q

	BrokerConfig:
	Enabled=%t
	SeedBrokers=%q
	SchemaRegistryURLs=%q
	Topics:
		SearchEvents=%q
	TLS:
		CA=%q
		Cert=%q
		Key=%q

`
	fmt.Println("Loaded config:")
	fmt.Printf(
		strings.TrimLeft(tamplate, "\n"),
		c.LogLevel,
		c.HTTPServerAddr,
		c.HTTPHandlerTimeout,
		c.Backend.Kind,
		c.Backend.Apper.BaseURL,
		c.Backend.Apper.ProjectID,
		mask(c.Backend.Apper.PublicKey),
		c.Backend.Apper.Timeout,
		mask(c.Backend.SQLDB),
		c.Broker.Enabled,
		c.Broker.SeedBrokers,
		c.Broker.SchemaRegistryURLs,
		c.Broker.Topics.SearchEvents,
		c.Broker.TLS.CA,
		c.Broker.TLS.Cert,
		c.Broker.TLS.Key,
	)
}
