// Package config handles input from etc/main.toml.
package config

import (
	"bytes"
	"encoding/json"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

const (
	// EnvConfigJSON holds a JSON document merged over the config file.
	EnvConfigJSON = "ATELIER_ADMIN_CONFIG_JSON"
	// EnvPrefix prefixes single key overrides, e.g. ATELIER_ADMIN_BACKEND_URL.
	EnvPrefix = "ATELIER_ADMIN"
)

const invalidErrMessage = "invalid config"

// ReadConfig from the main.toml file in path.
func ReadConfig(path string) (Config, error) {
	var c Config

	if path == "" {
		path = "./etc/"
	}

	v := viper.New()
	v.SetConfigName("main")
	v.SetConfigType("toml")
	v.AddConfigPath(path)

	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		return Config{}, errors.Wrap(err, "failed to read main config file")
	}

	// override it from env
	if configJSON := os.Getenv(EnvConfigJSON); configJSON != "" {
		v.SetConfigType("json")

		if err := v.MergeConfig(strings.NewReader(configJSON)); err != nil {
			return Config{}, errors.Wrap(err, "failed to read "+EnvConfigJSON)
		}
	}

	if err := v.Unmarshal(&c); err != nil {
		return Config{}, errors.Wrap(err, "failed to decode main config file")
	}

	return c, validate(&c)
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("title", "Atelier Admin Console")
	v.SetDefault("log.loglevel", "info")
	v.SetDefault("log.appname", "admin-console")
	v.SetDefault("log.servicename", "admin-console")
	v.SetDefault("log.console.enabled", true)
	v.SetDefault("backend.url", "")
	v.SetDefault("backend.timeout", 10*time.Second) //nolint:mnd
	v.SetDefault("webserver.host", "127.0.0.1")
	v.SetDefault("webserver.port", 8080) //nolint:mnd
	v.SetDefault("webserver.shutdowntime", 5)
	v.SetDefault("store.engine", "sqlite")
	v.SetDefault("store.path", "./data/console.db")
	v.SetDefault("store.name", "console")
	v.SetDefault("refresh.leeway", time.Minute)
	v.SetDefault("refresh.interval", 10*time.Minute)  //nolint:mnd
	v.SetDefault("refresh.maxretries", 3)             //nolint:mnd
	v.SetDefault("refresh.retrydelay", 5*time.Second) //nolint:mnd
	v.SetDefault("twofactor.digits", 6)               //nolint:mnd
}

// DumpConfig config as TOML String.
func DumpConfig(c *Config) (string, error) {
	out, err := toml.Marshal(c)
	if err != nil {
		return "", err //nolint: wrapcheck
	}

	return string(out), nil
}

// DumpConfigJSON config as JSON String.
func DumpConfigJSON(c *Config) (string, error) {
	var buffer bytes.Buffer
	j := json.NewEncoder(&buffer)
	j.SetIndent("", "  ")

	if err := j.Encode(c); err != nil {
		return "", err //nolint: wrapcheck
	}

	return buffer.String(), nil
}

// validate the settings the console cannot run without and fill zero values
// with defaults.
func validate(c *Config) error {
	if c.Backend.URL == "" {
		return errors.Wrap(ErrEmptyBackendURL, invalidErrMessage)
	}

	u, err := url.Parse(c.Backend.URL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return errors.Wrap(ErrInvalidBackendURL, invalidErrMessage)
	}

	if c.Webserver.Port == 0 {
		return errors.Wrap(ErrWebServerPortCanNotBeZero, invalidErrMessage)
	}

	switch c.Store.Engine {
	case "":
		c.Store.Engine = "sqlite"
	case "sqlite", "mysql", "postgres":
	default:
		return errors.Wrap(ErrUnknownStoreEngine, invalidErrMessage)
	}

	switch c.TwoFactor.Digits {
	case 0:
		c.TwoFactor.Digits = 6
	case 6, 8: //nolint:mnd
	default:
		return errors.Wrap(ErrUnsupportedDigits, invalidErrMessage)
	}

	if c.Webserver.ShutDownTime == 0 {
		c.Webserver.ShutDownTime = 5 // set default of 5 seconds
	}

	if c.Store.Path == "" {
		c.Store.Path = "./data/console.db"
	}

	if c.Store.Name == "" {
		c.Store.Name = "console"
	}

	return nil
}
