package absfs

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/tailscale/hujson"
)

// ConfigFileName is the default config file name, looked up in the
// working directory.
const ConfigFileName = ".absfs.json"

// Config holds the file-configurable walk options. The file is JWCC
// (JSON with comments and trailing commas); CLI flags override file
// values, file values override defaults.
type Config struct {
	Hash     string   `json:"hash,omitempty"`
	FsType   string   `json:"fstype,omitempty"`
	MaxDepth int      `json:"max_depth,omitempty"`
	Exclude  []string `json:"exclude,omitempty"`
}

// Config errors.
var (
	ErrConfigFileNotFound = errors.New("config file not found")
	ErrConfigFileRead     = errors.New("cannot read config file")
	ErrConfigInvalid      = errors.New("invalid config file")
)

// DefaultConfig returns the built-in defaults.
func DefaultConfig() Config {
	return Config{
		Hash:     string(DefaultAlgorithm),
		MaxDepth: DefaultMaxDepth,
	}
}

// LoadConfig loads path over the defaults. A missing file is an error
// only when explicit is true (the user named the file on the command
// line); otherwise the defaults are returned unchanged.
func LoadConfig(path string, explicit bool) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)

	switch {
	case errors.Is(err, os.ErrNotExist) && !explicit:
		return cfg, nil
	case errors.Is(err, os.ErrNotExist):
		return cfg, fmt.Errorf("%w: %s", ErrConfigFileNotFound, path)
	case err != nil:
		return cfg, fmt.Errorf("%w: %s: %v", ErrConfigFileRead, path, err)
	}

	standardized, err := hujson.Standardize(data)
	if err != nil {
		return cfg, fmt.Errorf("%w: %s: %v", ErrConfigInvalid, path, err)
	}

	if err := json.Unmarshal(standardized, &cfg); err != nil {
		return cfg, fmt.Errorf("%w: %s: %v", ErrConfigInvalid, path, err)
	}

	if err := cfg.validate(); err != nil {
		return cfg, fmt.Errorf("%w: %s: %v", ErrConfigInvalid, path, err)
	}

	return cfg, nil
}

func (c Config) validate() error {
	if !Algorithm(c.Hash).Valid() {
		return fmt.Errorf("%w: %q", ErrUnknownAlgorithm, c.Hash)
	}

	if c.MaxDepth < 0 {
		return fmt.Errorf("%w: %d", ErrMaxDepthInvalid, c.MaxDepth)
	}

	return nil
}

// Options materializes walk options from the config.
func (c Config) Options() Options {
	exclusions := DefaultExclusions()
	for _, p := range c.Exclude {
		exclusions.Add(p)
	}

	return Options{
		Algorithm:  Algorithm(c.Hash),
		FsType:     FsType(c.FsType),
		MaxDepth:   c.MaxDepth,
		Exclusions: exclusions,
	}
}
