package config

import (
	"errors"

	"github.com/spf13/viper"
)

type Config struct {
	Server  ServerConfig  `mapstructure:"server"`
	Game    GameConfig    `mapstructure:"game"`
	Archive ArchiveConfig `mapstructure:"archive"`
}

type ServerConfig struct {
	HTTPAddress    string `mapstructure:"http_address"`
	RPCAddress     string `mapstructure:"rpc_address"`
	MetricsAddress string `mapstructure:"metrics_address"`
}

type GameConfig struct {
	TurnTimeoutSeconds int `mapstructure:"turn_timeout_seconds"`
	MinPlayers         int `mapstructure:"min_players"`
	MinVotes           int `mapstructure:"min_votes"`
}

type ArchiveConfig struct {
	Enabled  bool           `mapstructure:"enabled"`
	Driver   string         `mapstructure:"driver"` // gorm 或 sql
	Postgres PostgresConfig `mapstructure:"postgres"`
}

type PostgresConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	DBName   string `mapstructure:"dbname"`
}

func LoadConfig(path string) (config *Config, err error) {
	viper.AddConfigPath(path)
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")

	viper.SetDefault("server.http_address", ":8080")
	viper.SetDefault("server.rpc_address", ":9000")
	viper.SetDefault("server.metrics_address", ":9100")
	viper.SetDefault("game.turn_timeout_seconds", 15)
	viper.SetDefault("game.min_players", 2)
	viper.SetDefault("game.min_votes", 2)
	viper.SetDefault("archive.enabled", false)
	viper.SetDefault("archive.driver", "gorm")
	viper.SetDefault("archive.postgres.host", "localhost")
	viper.SetDefault("archive.postgres.port", 5432)
	viper.SetDefault("archive.postgres.user", "postgres")
	viper.SetDefault("archive.postgres.password", "postgres")
	viper.SetDefault("archive.postgres.dbname", "bingo")

	viper.AutomaticEnv()

	err = viper.ReadInConfig()
	if err != nil {
		// 没有配置文件时依赖默认值和环境变量
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
	}

	err = viper.Unmarshal(&config)
	return
}
