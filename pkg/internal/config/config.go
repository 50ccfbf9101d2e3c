// Package config loads the application settings. Settings live in a
// settings.toml next to the binary (or one directory up), with INKWELL_
// environment variables taking precedence.
package config

import (
	"errors"
	"strings"

	"github.com/spf13/viper"
)

// Load configures viper and reads the settings file. A missing file is not an
// error; defaults and environment variables still apply.
func Load() error {
	viper.AddConfigPath(".")
	viper.AddConfigPath("..")
	viper.SetConfigName("settings")
	viper.SetConfigType("toml")

	viper.SetEnvPrefix("inkwell")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	viper.SetDefault("data.backend", "sqlite")
	viper.SetDefault("data.uri", "./data/inkwell.db")
	viper.SetDefault("data.surreal.namespace", "inkwell")
	viper.SetDefault("data.surreal.database", "inkwell")

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return nil
		}
		return err
	}
	return nil
}
