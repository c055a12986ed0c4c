package notebook

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/tailscale/hujson"

	"github.com/calvinalkan/noe/internal/store"
)

// Config holds all configuration options.
type Config struct {
	// From config files (serialized)
	File   string `json:"file,omitempty"`
	Driver string `json:"driver,omitempty"`

	// Resolved values (computed, not serialized)
	EffectiveCwd string `json:"-"` // Absolute working directory (from -C flag or os.Getwd)
	FileAbs      string `json:"-"` // Absolute path to the notes database

	// Sources tracks which config files were loaded (for diagnostics)
	Sources ConfigSources `json:"-"`
}

// ConfigSources tracks which config files were loaded.
type ConfigSources struct {
	Global  string // Path to global config if loaded, empty otherwise
	Project string // Path to project config if loaded, empty otherwise
}

// DefaultConfig returns the default configuration. File stays empty so the
// notes file lands in the home directory.
func DefaultConfig() Config {
	return Config{
		Driver: store.DefaultDriver,
	}
}

// ConfigFileName is the default project config file name.
const ConfigFileName = ".noe.json"

// getGlobalConfigPath returns the path to the global config file.
// Uses $XDG_CONFIG_HOME/noe/config.json if set, otherwise ~/.config/noe/config.json.
// Returns empty string if home directory cannot be determined.
func getGlobalConfigPath(env map[string]string) string {
	if xdgConfig := env["XDG_CONFIG_HOME"]; xdgConfig != "" {
		return filepath.Join(xdgConfig, "noe", "config.json")
	}

	if home := env["HOME"]; home != "" {
		return filepath.Join(home, ".config", "noe", "config.json")
	}

	return ""
}

// LoadConfigInput holds the inputs for LoadConfig.
type LoadConfigInput struct {
	WorkDirOverride string            // -C/--cwd flag value; if empty, os.Getwd() is used
	ConfigPath      string            // -c/--config flag value
	FileOverride    string            // -f/--file flag value; empty means no override
	DriverOverride  string            // --driver flag value; empty means no override
	Env             map[string]string // environment variables
}

// LoadConfig loads configuration with the following precedence (highest wins):
// 1. Defaults
// 2. Global user config (~/.config/noe/config.json or $XDG_CONFIG_HOME/noe/config.json)
// 3. Project config file at default location (.noe.json, if exists)
// 4. Explicit config file via configPath (if non-empty)
// 5. CLI overrides.
//
// FileAbs is resolved with [ResolvePath]: relative paths are taken from the
// working directory and a directory gets [DefaultFileName] appended.
func LoadConfig(input LoadConfigInput) (Config, error) {
	workDir := input.WorkDirOverride
	if workDir == "" {
		var err error

		workDir, err = os.Getwd()
		if err != nil {
			return Config{}, fmt.Errorf("cannot get working directory: %w", err)
		}
	}

	workDir, err := filepath.Abs(workDir)
	if err != nil {
		return Config{}, fmt.Errorf("cannot resolve working directory: %w", err)
	}

	cfg := DefaultConfig()

	globalCfg, globalPath, err := loadGlobalConfig(input.Env)
	if err != nil {
		return Config{}, err
	}

	cfg.Sources.Global = globalPath
	cfg = mergeConfig(cfg, globalCfg)

	projectCfg, projectPath, err := loadProjectConfig(workDir, input.ConfigPath)
	if err != nil {
		return Config{}, err
	}

	cfg.Sources.Project = projectPath
	cfg = mergeConfig(cfg, projectCfg)

	cfg = mergeConfig(cfg, Config{File: input.FileOverride, Driver: input.DriverOverride})

	err = validateConfig(cfg)
	if err != nil {
		return Config{}, err
	}

	cfg.EffectiveCwd = workDir

	explicit := cfg.File
	if explicit != "" && !filepath.IsAbs(explicit) {
		explicit = filepath.Join(workDir, explicit)
	}

	cfg.FileAbs, err = ResolvePath(explicit, input.Env["HOME"], DefaultFileName, IsDir)
	if err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// loadGlobalConfig loads the global user config file if it exists.
func loadGlobalConfig(env map[string]string) (Config, string, error) {
	globalCfgPath := getGlobalConfigPath(env)
	if globalCfgPath == "" {
		return Config{}, "", nil
	}

	globalCfg, loaded, err := loadConfigFile(globalCfgPath, false)
	if err != nil {
		return Config{}, "", err
	}

	if !loaded {
		return Config{}, "", nil
	}

	return globalCfg, globalCfgPath, nil
}

// loadProjectConfig loads the project config file (.noe.json) or an explicit config file.
func loadProjectConfig(workDir, configPath string) (Config, string, error) {
	var cfgFile string

	var mustExist bool

	if configPath != "" {
		cfgFile = configPath
		if !filepath.IsAbs(cfgFile) {
			cfgFile = filepath.Join(workDir, cfgFile)
		}

		mustExist = true

		_, statErr := os.Stat(cfgFile)
		if statErr != nil {
			return Config{}, "", fmt.Errorf("%w: %s", ErrConfigFileNotFound, configPath)
		}
	} else {
		cfgFile = filepath.Join(workDir, ConfigFileName)
		mustExist = false
	}

	fileCfg, loaded, err := loadConfigFile(cfgFile, mustExist)
	if err != nil {
		return Config{}, "", err
	}

	if !loaded {
		return Config{}, "", nil
	}

	return fileCfg, cfgFile, nil
}

// loadConfigFile loads a config file. If mustExist is false, missing files return zero config.
func loadConfigFile(path string, mustExist bool) (Config, bool, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) && !mustExist {
			return Config{}, false, nil
		}

		return Config{}, false, fmt.Errorf("%w: %s", ErrConfigFileRead, path)
	}

	cfg, parseErr := parseConfig(data)
	if parseErr != nil {
		return Config{}, false, fmt.Errorf("%w %s: %w", ErrConfigInvalid, path, parseErr)
	}

	return cfg, true, nil
}

func parseConfig(data []byte) (Config, error) {
	// Standardize JSONC to JSON
	standardized, err := hujson.Standardize(data)
	if err != nil {
		return Config{}, fmt.Errorf("invalid JSONC: %w", err)
	}

	var cfg Config

	dec := json.NewDecoder(bytes.NewReader(standardized))
	dec.DisallowUnknownFields()

	err = dec.Decode(&cfg)
	if err != nil {
		return Config{}, fmt.Errorf("invalid JSON: %w", err)
	}

	return cfg, nil
}

func mergeConfig(base, overlay Config) Config {
	if overlay.File != "" {
		base.File = overlay.File
	}

	if overlay.Driver != "" {
		base.Driver = overlay.Driver
	}

	return base
}

func validateConfig(cfg Config) error {
	if !store.IsKnownDriver(cfg.Driver) {
		return fmt.Errorf("%w: %q (want one of %v)", ErrUnknownDriver, cfg.Driver, store.Drivers())
	}

	return nil
}
