package config

import (
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Room      RoomConfig      `mapstructure:"room"`
	Database  DatabaseConfig  `mapstructure:"database"`
	RTC       RTCConfig       `mapstructure:"rtc"`
	Analytics AnalyticsConfig `mapstructure:"analytics"`
}

type ServerConfig struct {
	HTTPAddress    string `mapstructure:"http_address"`
	RPCAddress     string `mapstructure:"rpc_address"`
	MetricsAddress string `mapstructure:"metrics_address"`
}

// RoomConfig carries every tunable of the room lifecycle. Durations accept
// the usual "30s"/"2h" syntax in config.yaml.
type RoomConfig struct {
	Heartbeat      time.Duration `mapstructure:"heartbeat"`
	ReconnectGrace time.Duration `mapstructure:"reconnect_grace"`
	EmptyGrace     time.Duration `mapstructure:"empty_grace"`
	IdleTTL        time.Duration `mapstructure:"idle_ttl"`
	SweepInterval  time.Duration `mapstructure:"sweep_interval"`
	CodeLength     int           `mapstructure:"code_length"`
	CodeRetries    int           `mapstructure:"code_retries"`
	MaxPlayers     int           `mapstructure:"max_players"`
}

type DatabaseConfig struct {
	Enabled  bool           `mapstructure:"enabled"`
	Driver   string         `mapstructure:"driver"` // "gorm" or "pq"
	Postgres PostgresConfig `mapstructure:"postgres"`
}

type PostgresConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	DBName   string `mapstructure:"dbname"`
}

type RTCConfig struct {
	AppID    string        `mapstructure:"app_id"`
	Secret   string        `mapstructure:"secret"`
	TokenTTL time.Duration `mapstructure:"token_ttl"`
}

type AnalyticsConfig struct {
	Endpoint string `mapstructure:"endpoint"`
}

func LoadConfig(path string) (config *Config, err error) {
	viper.AddConfigPath(path)
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")

	viper.SetDefault("server.http_address", ":8080")
	viper.SetDefault("server.rpc_address", ":8081")
	viper.SetDefault("server.metrics_address", ":9090")
	viper.SetDefault("room.heartbeat", "20s")
	viper.SetDefault("room.reconnect_grace", "30s")
	viper.SetDefault("room.empty_grace", "60s")
	viper.SetDefault("room.idle_ttl", "2h")
	viper.SetDefault("room.sweep_interval", "30s")
	viper.SetDefault("room.code_length", 6)
	viper.SetDefault("room.code_retries", 16)
	viper.SetDefault("room.max_players", 16)
	viper.SetDefault("rtc.token_ttl", "1h")

	viper.AutomaticEnv()

	err = viper.ReadInConfig()
	if err != nil {
		return
	}

	err = viper.Unmarshal(&config)
	return
}
