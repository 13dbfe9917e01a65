package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/ilyakaznacheev/cleanenv"
)

type Config struct {
	LogLevel    string `yaml:"log-level" env:"LOG_LEVEL" env-default:"info"`
	HTTPPort    string `yaml:"http-port" env:"HTTP_PORT" env-default:"9090"`
	Mode        string `yaml:"mode" env:"GAME_MODE" env-default:"PVP"`
	ActorUserID string `yaml:"actor-user-id" env:"ACTOR_USER_ID" env-default:""`
}

// Load - reads the config file and applies environment overrides. Without a
// config file only the environment and defaults are used.
func Load(path string) (*Config, error) {
	config := &Config{}

	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		if err = cleanenv.ReadEnv(config); err != nil {
			return nil, fmt.Errorf("unable to read environment: %w", err)
		}

		return config, nil
	}

	if err := cleanenv.ReadConfig(path, config); err != nil {
		return nil, fmt.Errorf("unable to load config file: %w", err)
	}

	return config, nil
}

// MustLoad - load all configurations in config.yml file.
func MustLoad(path string) *Config {
	config, err := Load(path)
	if err != nil {
		panic(err)
	}

	return config
}
