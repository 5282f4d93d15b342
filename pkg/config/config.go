// Package config resolves the client configuration from flags, environment,
// and an optional ~/.cardboard.yaml file.
package config

import (
	"fmt"
	"path/filepath"
	"strings"

	homedir "github.com/mitchellh/go-homedir"
	"github.com/spf13/viper"
)

// Config is everything the client needs to run.
type Config struct {
	// Server is the backend base URL.
	Server string
	// DataDir holds the approval status db and staged upload previews.
	DataDir string
	// LogFile is where the debug log goes; the terminal itself is owned by
	// the UI.
	LogFile string
}

// ApprovalDB returns the approval store's sqlite path.
func (c Config) ApprovalDB() string {
	return filepath.Join(c.DataDir, "approval.sqlite")
}

// PreviewDir returns the staged-upload preview directory.
func (c Config) PreviewDir() string {
	return filepath.Join(c.DataDir, "previews")
}

// Load reads the configuration. Flag bindings are the caller's; this applies
// env ("CARDBOARD_" prefix), the optional config file, and defaults.
func Load(v *viper.Viper) (Config, error) {
	home, err := homedir.Dir()
	if err != nil {
		return Config{}, fmt.Errorf("error resolving home directory: %w", err)
	}

	v.SetDefault("server", "http://localhost:5000")
	v.SetDefault("data-dir", filepath.Join(home, ".cardboard"))
	v.SetDefault("log-file", filepath.Join(home, ".cardboard", "cardboard.log"))

	v.SetEnvPrefix("cardboard")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	v.SetConfigName(".cardboard")
	v.SetConfigType("yaml")
	v.AddConfigPath(home)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return Config{}, fmt.Errorf("error reading config file: %w", err)
		}
	}

	return Config{
		Server:  v.GetString("server"),
		DataDir: v.GetString("data-dir"),
		LogFile: v.GetString("log-file"),
	}, nil
}
