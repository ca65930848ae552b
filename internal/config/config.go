package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

type Config struct {
	LogLevel   string   `yaml:"log-level" env:"LOG_LEVEL" env-default:"info"`
	HTTPPort   string   `yaml:"http-port" env:"HTTP_PORT" env-default:"9090"`
	SocketPort string   `yaml:"socket-port" env:"SOCKET_PORT" env-default:"9091"`
	Board      Board    `yaml:"board"`
	Postgres   Postgres `yaml:"postgres"`
	Redis      Redis    `yaml:"redis"`
}

type Board struct {
	MinSize int `yaml:"min-size" env:"BOARD_MIN_SIZE" env-default:"3"`
	MaxSize int `yaml:"max-size" env:"BOARD_MAX_SIZE" env-default:"15"`
}

type Postgres struct {
	Host            string        `yaml:"host" env:"POSTGRES_HOST" env-default:"localhost"`
	Port            string        `yaml:"port" env:"POSTGRES_PORT" env-default:"5432"`
	User            string        `yaml:"user" env:"POSTGRES_USER" env-default:"postgres"`
	Password        string        `yaml:"password" env:"POSTGRES_PASSWORD" env-default:""`
	Database        string        `yaml:"database" env:"POSTGRES_DB" env-default:"tictactoe"`
	SSLMode         string        `yaml:"sslmode" env:"POSTGRES_SSLMODE" env-default:"disable"`
	MaxOpenConns    int           `yaml:"max-open-conns" env:"POSTGRES_MAX_OPEN_CONNS" env-default:"25"`
	MaxIdleConns    int           `yaml:"max-idle-conns" env:"POSTGRES_MAX_IDLE_CONNS" env-default:"25"`
	ConnMaxLifetime time.Duration `yaml:"conn-max-lifetime" env:"POSTGRES_CONN_MAX_LIFETIME" env-default:"5m"`
}

type Redis struct {
	Host     string        `yaml:"host" env:"REDIS_HOST" env-default:"localhost"`
	Port     string        `yaml:"port" env:"REDIS_PORT" env-default:"6379"`
	Password string        `yaml:"password" env:"REDIS_PASSWORD" env-default:""`
	MatchTTL time.Duration `yaml:"match-ttl" env:"REDIS_MATCH_TTL" env-default:"24h"`
}

// MustLoad - load all configurations in config.yml file.
func MustLoad(path string) *Config {
	config, err := Load(path)
	if err != nil {
		panic(fmt.Errorf("unable to load config file: %w", err))
	}

	return config
}

// Load reads a .env file from the working directory when present, then the config
// file at path. Without a config file only the environment and defaults apply.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("can't load .env file: %w", err)
	}

	config := &Config{}

	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		if err = cleanenv.ReadEnv(config); err != nil {
			return nil, fmt.Errorf("can't read environment: %w", err)
		}
	} else if err = cleanenv.ReadConfig(path, config); err != nil {
		return nil, fmt.Errorf("can't read %s: %w", path, err)
	}

	if config.Board.MinSize < 1 || config.Board.MinSize > config.Board.MaxSize {
		return nil, fmt.Errorf("invalid board size limits %d..%d", config.Board.MinSize, config.Board.MaxSize)
	}

	return config, nil
}

func (that *Postgres) GetDSN() string {
	dsn := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(that.User, that.Password),
		Host:     fmt.Sprintf("%s:%s", that.Host, that.Port),
		Path:     that.Database,
		RawQuery: url.Values{"sslmode": []string{that.SSLMode}}.Encode(),
	}

	return dsn.String()
}

func (that *Redis) GetRedisAddr() string {
	return fmt.Sprintf("%s:%s", that.Host, that.Port)
}
