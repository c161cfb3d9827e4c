package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
	"go.uber.org/zap/zapcore"

	"github.com/conduit-lang/modeler/internal/design/loader"
)

// FileName is the configuration file looked up in the project root
const FileName = "modeler.yml"

// EnvPrefix prefixes environment overrides, e.g. MODELER_LOG_LEVEL
const EnvPrefix = "MODELER"

// Config represents the modeler configuration
type Config struct {
	ProjectName string       `mapstructure:"project_name"`
	Design      DesignConfig `mapstructure:"design"`
	Output      OutputConfig `mapstructure:"output"`
	Link        LinkConfig   `mapstructure:"link"`
	Log         LogConfig    `mapstructure:"log"`
}

// DesignConfig locates the design declarations
type DesignConfig struct {
	Files  []string `mapstructure:"files"`
	Module string   `mapstructure:"module"`
}

// OutputConfig represents output configuration
type OutputConfig struct {
	Dir     string `mapstructure:"dir"`
	NoColor bool   `mapstructure:"no_color"`
}

// LinkConfig tunes the linking pass
type LinkConfig struct {
	ReverseOrder bool `mapstructure:"reverse_order"`
}

// LogConfig represents logging configuration
type LogConfig struct {
	Level string `mapstructure:"level"`
}

// Load loads the configuration from modeler.yml in dir. A missing file yields
// the defaults; relative design patterns are resolved against dir.
func Load(dir string) (*Config, error) {
	v := viper.New()

	v.SetDefault("design.files", []string{"design/*.yml"})
	v.SetDefault("design.module", loader.DefaultModule)
	v.SetDefault("output.dir", "build/design")
	v.SetDefault("output.no_color", false)
	v.SetDefault("link.reverse_order", false)
	v.SetDefault("log.level", "warn")

	v.SetConfigName(strings.TrimSuffix(FileName, filepath.Ext(FileName)))
	v.SetConfigType("yaml")
	v.AddConfigPath(dir)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := validateConfig(&config); err != nil {
		return nil, err
	}

	for i, pattern := range config.Design.Files {
		if !filepath.IsAbs(pattern) {
			config.Design.Files[i] = filepath.Join(dir, pattern)
		}
	}
	if !filepath.IsAbs(config.Output.Dir) {
		config.Output.Dir = filepath.Join(dir, config.Output.Dir)
	}
	return &config, nil
}

// InProject checks if dir holds a modeler.yml
func InProject(dir string) bool {
	_, err := os.Stat(filepath.Join(dir, FileName))
	return err == nil
}

// FindProjectRoot walks up from dir to the first directory holding modeler.yml
func FindProjectRoot(dir string) (string, error) {
	dir, err := filepath.Abs(dir)
	if err != nil {
		return "", err
	}
	for {
		if InProject(dir) {
			return dir, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", fmt.Errorf("not in a modeler project (no %s found)", FileName)
		}
		dir = parent
	}
}

// LogLevel returns the configured zap level
func (c *Config) LogLevel() zapcore.Level {
	level, err := zapcore.ParseLevel(c.Log.Level)
	if err != nil {
		return zapcore.WarnLevel
	}
	return level
}

// validateConfig validates the configuration
func validateConfig(cfg *Config) error {
	if len(cfg.Design.Files) == 0 {
		return fmt.Errorf("design.files must list at least one pattern")
	}
	for _, pattern := range cfg.Design.Files {
		if _, err := filepath.Match(pattern, ""); err != nil {
			return fmt.Errorf("design.files has an invalid pattern: %s", pattern)
		}
	}
	if strings.TrimSpace(cfg.Design.Module) == "" {
		return fmt.Errorf("design.module must not be empty")
	}
	if _, err := zapcore.ParseLevel(cfg.Log.Level); err != nil {
		return fmt.Errorf("log.level must be one of debug, info, warn, error, got: %s", cfg.Log.Level)
	}
	return nil
}
