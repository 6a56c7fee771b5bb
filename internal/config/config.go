// Package config loads studyshift settings from file, environment and flags.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/csheth/studyshift/internal/logging"
	"github.com/csheth/studyshift/internal/speech"
)

const (
	envPrefix = "STUDYSHIFT"
	fileName  = "studyshift"
)

type Config struct {
	Provider  string       `mapstructure:"provider"`
	Model     string       `mapstructure:"model"`
	APIKey    string       `mapstructure:"api_key"`
	Endpoint  string       `mapstructure:"endpoint"`
	Theme     string       `mapstructure:"theme"`
	AltScreen bool         `mapstructure:"alt_screen"`
	Speech    SpeechConfig `mapstructure:"speech"`
	Export    ExportConfig `mapstructure:"export"`
	Log       LogConfig    `mapstructure:"log"`
}

type SpeechConfig struct {
	Command string `mapstructure:"command"`
	Locale  string `mapstructure:"locale"`
}

type ExportConfig struct {
	Dir        string `mapstructure:"dir"`
	ChromePath string `mapstructure:"chrome_path"`
}

type LogConfig struct {
	File  string `mapstructure:"file"`
	Debug bool   `mapstructure:"debug"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		Provider:  "gemini",
		Theme:     "dark",
		AltScreen: true,
		Speech:    SpeechConfig{Locale: speech.DefaultLocale},
		Export:    ExportConfig{Dir: "."},
		Log:       LogConfig{File: logging.DefaultPath()},
	}
}

// flagKeys maps CLI flag names onto config keys.
var flagKeys = map[string]string{
	"provider":       "provider",
	"model":          "model",
	"endpoint":       "endpoint",
	"theme":          "theme",
	"speech-command": "speech.command",
	"export-dir":     "export.dir",
	"log-file":       "log.file",
	"debug":          "log.debug",
}

// Load merges defaults, the config file, STUDYSHIFT_* environment variables
// and any changed flags, in increasing precedence. An explicit path must
// exist; otherwise studyshift.yaml is looked up in . and ~/.config/studyshift.
func Load(path string, flags *pflag.FlagSet) (Config, error) {
	def := Default()
	v := viper.New()
	v.SetDefault("provider", def.Provider)
	v.SetDefault("model", def.Model)
	v.SetDefault("api_key", def.APIKey)
	v.SetDefault("endpoint", def.Endpoint)
	v.SetDefault("theme", def.Theme)
	v.SetDefault("alt_screen", def.AltScreen)
	v.SetDefault("speech.command", def.Speech.Command)
	v.SetDefault("speech.locale", def.Speech.Locale)
	v.SetDefault("export.dir", def.Export.Dir)
	v.SetDefault("export.chrome_path", def.Export.ChromePath)
	v.SetDefault("log.file", def.Log.File)
	v.SetDefault("log.debug", def.Log.Debug)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName(fileName)
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".config", fileName))
		}
	}
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	if flags != nil {
		for name, key := range flagKeys {
			if f := flags.Lookup(name); f != nil && f.Changed {
				if err := v.BindPFlag(key, f); err != nil {
					return Config{}, err
				}
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	cfg.Theme = strings.ToLower(strings.TrimSpace(cfg.Theme))
	if cfg.Theme != "dark" && cfg.Theme != "light" {
		return Config{}, fmt.Errorf("theme must be dark or light, got %q", cfg.Theme)
	}
	return cfg, nil
}

// LoadDotEnv reads KEY=value pairs from path into the environment without
// overriding variables that are already set. A missing file is ignored.
func LoadDotEnv(path string) error {
	if path == "" {
		path = ".env"
	}
	if err := godotenv.Load(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("load %s: %w", path, err)
	}
	return nil
}
