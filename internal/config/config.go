package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	DefaultStorePath  = "~/.password-store"
	DefaultOutputPath = "pass.kdbx"

	// EnvPrefix prefixes the environment overrides of every key, e.g. P2K_OUTPUT
	EnvPrefix = "P2K"
)

// Keys, shared by flags, environment and config file
const (
	KeyInput          = "input"
	KeyOutput         = "output"
	KeyCustom         = "custom"
	KeyQuick          = "quick"
	KeyForceOverwrite = "force_overwrite"
	KeyKeyring        = "keyring"
	KeyGPG            = "gpg"
	KeyGPGOpts        = "gpg_opts"
	KeyVerbose        = "verbose"
)

// Config holds the resolved settings of a run
type Config struct {
	StorePath  string
	OutputPath string
	HookPath   string
	Quick      bool
	Overwrite  bool
	Keyring    string // Optional, switches to the native OpenPGP decryptor
	GPGBinary  string
	GPGOpts    string
	Verbose    bool
}

// DefaultConfigFile returns $XDG_CONFIG_HOME/pass2keepass2/config.toml
func DefaultConfigFile() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "pass2keepass2", "config.toml")
}

// New returns a viper instance with defaults and environment bindings.
// pass's own variables take precedence over the P2K_ ones.
func New() *viper.Viper {
	v := viper.New()
	v.SetDefault(KeyInput, DefaultStorePath)
	v.SetDefault(KeyOutput, DefaultOutputPath)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	_ = v.BindEnv(KeyInput, "PASSWORD_STORE_DIR", EnvPrefix+"_INPUT")
	_ = v.BindEnv(KeyGPGOpts, "PASSWORD_STORE_GPG_OPTS", EnvPrefix+"_GPG_OPTS")
	return v
}

// Load resolves the configuration: flags that were set, then environment,
// then the config file, then defaults. configFile may be empty, in which
// case the default location is read when present.
func Load(v *viper.Viper, flags *pflag.FlagSet, configFile string) (*Config, error) {
	if flags != nil {
		bindings := map[string]string{
			KeyInput:          "input",
			KeyOutput:         "output",
			KeyCustom:         "custom",
			KeyQuick:          "quick",
			KeyForceOverwrite: "force-overwrite",
			KeyKeyring:        "keyring",
			KeyGPG:            "gpg",
			KeyVerbose:        "verbose",
		}
		for key, name := range bindings {
			if f := flags.Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, fmt.Errorf("failed to bind flag %s: %w", name, err)
				}
			}
		}
	}

	if err := readConfigFile(v, configFile); err != nil {
		return nil, err
	}

	return &Config{
		StorePath:  v.GetString(KeyInput),
		OutputPath: v.GetString(KeyOutput),
		HookPath:   v.GetString(KeyCustom),
		Quick:      v.GetBool(KeyQuick),
		Overwrite:  v.GetBool(KeyForceOverwrite),
		Keyring:    v.GetString(KeyKeyring),
		GPGBinary:  v.GetString(KeyGPG),
		GPGOpts:    v.GetString(KeyGPGOpts),
		Verbose:    v.GetBool(KeyVerbose),
	}, nil
}

func readConfigFile(v *viper.Viper, path string) error {
	explicit := path != ""
	if !explicit {
		path = DefaultConfigFile()
		if path == "" {
			return nil
		}
		if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
			return nil
		}
	}

	v.SetConfigFile(path)
	v.SetConfigType("toml")
	if err := v.ReadInConfig(); err != nil {
		return fmt.Errorf("failed to read config %s: %w", path, err)
	}
	return nil
}
