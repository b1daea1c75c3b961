package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/kelseyhightower/envconfig"
	"github.com/spf13/viper"
)

const defaultEnvFile = ".env"

// MustLoad is Load for startup paths where a bad configuration should stop
// the program.
func MustLoad[T any](prefix string) *T {
	conf, err := Load[T](prefix)
	if err != nil {
		panic(err)
	}
	return conf
}

// Load fills T from environment variables under the given envconfig prefix,
// exporting ./.env into the environment first when the file exists.
func Load[T any](prefix string) (*T, error) {
	return LoadFile[T]("", prefix)
}

// LoadFile is Load with an explicit env file. An empty path falls back to
// the ./.env behavior of Load; a non-empty path must exist.
func LoadFile[T any](path, prefix string) (*T, error) {
	path = strings.TrimSpace(path)
	if path != "" {
		if err := exportFile(path); err != nil {
			return nil, fmt.Errorf("load env file %s: %w", path, err)
		}
	} else if err := exportFileIfExists(defaultEnvFile); err != nil {
		return nil, fmt.Errorf("load default env file: %w", err)
	}

	var conf T
	if err := envconfig.Process(prefix, &conf); err != nil {
		return nil, err
	}
	return &conf, nil
}

func exportFileIfExists(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return err
	}
	if info.IsDir() {
		return nil
	}
	return exportFile(path)
}

// exportFile copies every key of the env file into the process environment
// so envconfig sees one consistent source.
func exportFile(path string) error {
	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return err
	}

	for key, value := range v.AllSettings() {
		if err := os.Setenv(strings.ToUpper(key), fmt.Sprint(value)); err != nil {
			return err
		}
	}
	return nil
}
