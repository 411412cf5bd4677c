package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"github.com/atiselsts/cex-dex-arbitrage-anatomy/internal/domain"
)

// Config stores all configuration for the application.
// The values are read by viper from a config file or environment variables.
type Config struct {
	Simulation SimulationConfig
	Storage    StorageConfig
	Feed       FeedConfig
	Metrics    MetricsConfig
}

// SimulationConfig defines the Monte-Carlo run settings.
type SimulationConfig struct {
	InitialPrice         float64 `mapstructure:"initial_price"`
	Volatility           float64 `mapstructure:"volatility"`
	VolatilityUnit       string  `mapstructure:"volatility_unit"`
	Drift                float64 `mapstructure:"drift"`
	BlockTimeSec         float64 `mapstructure:"block_time_sec"`
	Steps                int     `mapstructure:"steps"`
	BlockTimeModel       string  `mapstructure:"block_time_model"`
	LiquidityUSD         float64 `mapstructure:"liquidity_usd"`
	FeeBps               float64 `mapstructure:"fee_bps"`
	BasefeeUSD           float64 `mapstructure:"basefee_usd"`
	DynamicFeeProportion float64 `mapstructure:"dynamic_fee_proportion"`
	Paths                int     `mapstructure:"paths"`
	Workers              int     `mapstructure:"workers"`
	Seed                 uint64  `mapstructure:"seed"`
	Seeded               bool    `mapstructure:"seeded"`
	RandomizeStart       bool    `mapstructure:"randomize_start"`
}

// StorageConfig defines the persistence settings. Empty DSNs disable the
// corresponding backend.
type StorageConfig struct {
	PostgresDSN   string `mapstructure:"postgres_dsn"`
	ClickhouseDSN string `mapstructure:"clickhouse_dsn"`
}

// FeedConfig defines the live CEX price feed settings.
type FeedConfig struct {
	Exchange string `mapstructure:"exchange"`
	Symbol   string `mapstructure:"symbol"`
	URL      string `mapstructure:"url"`
}

// MetricsConfig defines the Prometheus exposure settings.
type MetricsConfig struct {
	ListenAddr string `mapstructure:"listen_addr"`
}

// PathParameters converts the simulation section to domain path parameters.
func (c SimulationConfig) PathParameters() domain.PathParameters {
	return domain.PathParameters{
		InitialPrice:   c.InitialPrice,
		Volatility:     c.Volatility,
		VolatilityUnit: domain.VolatilityUnit(c.VolatilityUnit),
		Drift:          c.Drift,
		StepSeconds:    c.BlockTimeSec,
		Steps:          c.Steps,
		BlockTimeModel: domain.BlockTimeModel(c.BlockTimeModel),
	}
}

// PoolParameters converts the simulation section to domain pool parameters.
func (c SimulationConfig) PoolParameters() domain.PoolParameters {
	return domain.PoolParameters{
		LiquidityUSD:         c.LiquidityUSD,
		FeeBps:               c.FeeBps,
		BasefeeUSD:           c.BasefeeUSD,
		DynamicFeeProportion: c.DynamicFeeProportion,
	}
}

// LoadConfig reads configuration from file or environment variables.
func LoadConfig(path string) (config Config, err error) {
	v := viper.New()
	v.AddConfigPath(path)
	v.SetConfigName("config")
	v.SetConfigType("yaml")

	setDefaults(v)

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err = v.ReadInConfig(); err != nil {
		return
	}

	if err = v.Unmarshal(&config); err != nil {
		return
	}

	err = config.validate()
	return
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("simulation.initial_price", 2000.0)
	v.SetDefault("simulation.volatility", 0.5)
	v.SetDefault("simulation.volatility_unit", string(domain.VolatilityPerYear))
	v.SetDefault("simulation.block_time_sec", 12.0)
	v.SetDefault("simulation.steps", 7200)
	v.SetDefault("simulation.block_time_model", string(domain.BlockTimeUniform))
	v.SetDefault("simulation.liquidity_usd", 1_000_000_000.0)
	v.SetDefault("simulation.fee_bps", 5.0)
	v.SetDefault("simulation.paths", 100)
	v.SetDefault("feed.exchange", "binance")
	v.SetDefault("feed.symbol", "ethusdt")
}

func (c Config) validate() error {
	switch domain.VolatilityUnit(c.Simulation.VolatilityUnit) {
	case domain.VolatilityPerDay, domain.VolatilityPerYear:
	default:
		return fmt.Errorf("unknown volatility unit %q", c.Simulation.VolatilityUnit)
	}
	switch domain.BlockTimeModel(c.Simulation.BlockTimeModel) {
	case domain.BlockTimeUniform, domain.BlockTimePoisson:
	default:
		return fmt.Errorf("unknown block time model %q", c.Simulation.BlockTimeModel)
	}
	return nil
}
