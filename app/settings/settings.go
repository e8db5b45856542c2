package settings

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

const (
	ConfigName = "ppcalc"
	EnvPrefix  = "PPCALC"
)

// Load sets default values and merges an optional ppcalc.json from configDir and PPCALC_* environment variables.
// A missing config file is not an error.
func Load(configDir string) error {
	viper.SetDefault("logLevel", "info")
	viper.SetDefault("output", "table")
	viper.SetDefault("experimental", false)

	viper.SetDefault("cache.enabled", false)
	viper.SetDefault("cache.path", "./pp-cache.db")

	viper.SetDefault("watch.extension", ".osr")

	viper.SetEnvPrefix(EnvPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	viper.SetConfigName(ConfigName)
	viper.SetConfigType("json")
	viper.AddConfigPath(configDir)

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return nil
		}

		return fmt.Errorf("error reading config file: %w", err)
	}

	return nil
}

func LogLevel() string {
	return viper.GetString("logLevel")
}

// Output is the CLI output format, "table" or "json"
func Output() string {
	return strings.ToLower(viper.GetString("output"))
}

func CacheEnabled() bool {
	return viper.GetBool("cache.enabled")
}

func CachePath() string {
	return viper.GetString("cache.path")
}

func WatchExtension() string {
	return viper.GetString("watch.extension")
}

// Experimental adds intermediate values such as the snap/flow split to CLI output
func Experimental() bool {
	return viper.GetBool("experimental")
}
