package infra

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/eliteGoblin/focusd/focus_app/internal/policy"
)

// DefaultAllowListFile is resolved against the working directory.
const DefaultAllowListFile = "allowlist.json"

// Config is the optional focusapp.yaml. Pointer bools distinguish "unset" from false.
type Config struct {
	IntervalSeconds int    `yaml:"interval_seconds"`
	AllowListFile   string `yaml:"allowlist_file"`
	Notify          *bool  `yaml:"notify"`
	Minimize        *bool  `yaml:"minimize"`
	Journal         *bool  `yaml:"journal"`
	StartupOnClose  *bool  `yaml:"startup_on_close"`
	LogLevel        string `yaml:"log_level"`
}

// DefaultConfig returns the configuration used when no file exists.
func DefaultConfig() *Config {
	c := &Config{}
	c.applyDefaults()
	return c
}

// LoadConfig reads path. A missing file yields DefaultConfig.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultConfig(), nil
		}
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	var c Config
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	c.applyDefaults()
	return &c, nil
}

func (c *Config) applyDefaults() {
	if c.IntervalSeconds <= 0 {
		c.IntervalSeconds = policy.DefaultIntervalSeconds
	}
	if c.AllowListFile == "" {
		c.AllowListFile = DefaultAllowListFile
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
}

// IntervalText is the interval as the user would type it.
func (c *Config) IntervalText() string {
	return strconv.Itoa(c.IntervalSeconds)
}

// NotifyEnabled defaults to true.
func (c *Config) NotifyEnabled() bool { return boolDeref(c.Notify, true) }

// MinimizeEnabled defaults to true.
func (c *Config) MinimizeEnabled() bool { return boolDeref(c.Minimize, true) }

// JournalEnabled defaults to true.
func (c *Config) JournalEnabled() bool { return boolDeref(c.Journal, true) }

// StartupOnCloseEnabled defaults to true.
func (c *Config) StartupOnCloseEnabled() bool { return boolDeref(c.StartupOnClose, true) }

func boolDeref(ptr *bool, def bool) bool {
	if ptr == nil {
		return def
	}
	return *ptr
}
