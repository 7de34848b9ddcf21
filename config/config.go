package config

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const configFileEnvName = "STOREFRONT_CONFIG_FILE"

type stripe struct {
	APIURL         string `mapstructure:"api_url"`
	SecretKey      string `mapstructure:"secret_key"`
	PublishableKey string `mapstructure:"publishable_key"`
	PaymentMethod  string `mapstructure:"payment_method"`
}

// Configured reports whether the processor credentials are present.
// Either key missing means the simulated payment path.
func (s stripe) Configured() bool {
	return s.SecretKey != "" && s.PublishableKey != ""
}

type broker struct {
	SeedBrokers          []string `mapstructure:"seed_brokers"`
	SchemaRegistryURLs   []string `mapstructure:"schema_registry_urls"`
	CheckoutEventsTopic  string   `mapstructure:"checkout_events_topic"`
	SessionActivityGroup string   `mapstructure:"session_activity_group"`
}

// Enabled reports whether checkout-events analytics is wired to a
// broker. Without brokers the service runs with a no-op producer.
func (b broker) Enabled() bool {
	return len(b.SeedBrokers) != 0
}

type Config struct {
	LogLevel       slog.Level `mapstructure:"log_level"`
	HTTPServerAddr string     `mapstructure:"http_server_addr"`
	SQLDB          string     `mapstructure:"sql_db"`
	Stripe         stripe     `mapstructure:"stripe"`
	Broker         broker     `mapstructure:"broker"`
}

func Load() Config {
	viper.SetConfigFile(getConfigFilepath())

	err := viper.ReadInConfig()
	if err != nil {
		die(err)
	}

	var cfg Config
	err = viper.UnmarshalExact(&cfg)
	if err != nil {
		die(err)
	}

	return cfg
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

func (c Config) Print() {
	template := `
	General:
	LogLevel=%q
	HTTPServerAddr=%q
	SQLDB set=%t

	Stripe:
	Configured=%t
	APIURL=%q

	BrokerConfig:
	Enabled=%t
	SeedBrokers=%q
	SchemaRegistryURLs=%q
	CheckoutEventsTopic=%q
	SessionActivityGroup=%q

`
	fmt.Println("Loaded config:")
	fmt.Printf(
		strings.TrimLeft(template, "\n"),
		c.LogLevel,
		c.HTTPServerAddr,
		c.SQLDB != "",
		c.Stripe.Configured(),
		c.Stripe.APIURL,
		c.Broker.Enabled(),
		c.Broker.SeedBrokers,
		c.Broker.SchemaRegistryURLs,
		c.Broker.CheckoutEventsTopic,
		c.Broker.SessionActivityGroup,
	)
}
