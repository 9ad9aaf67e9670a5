package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Mode selects the format of the generated blocklist.
type Mode string

const (
	ModeDNSMasq Mode = "dnsmasq"
	ModeHosts   Mode = "hosts"
)

const (
	DefaultConfigDir = "/etc/blockgate"
)

var DefaultSources = []string{
	"http://winhelp2002.mvps.org/hosts.txt",
	"http://someonewhocares.org/hosts/hosts",
}

type ListsConfig struct {
	Sources   []string `yaml:"sources"`
	Blacklist string   `yaml:"blacklist"`
	Whitelist string   `yaml:"whitelist"`
}

type CacheConfig struct {
	Dir     string        `yaml:"dir"`
	Expire  time.Duration `yaml:"expire"`
	Disable bool          `yaml:"disable"`
}

type OutputConfig struct {
	Mode      Mode   `yaml:"mode"`
	File      string `yaml:"file"`
	DestIP    string `yaml:"dest_ip"`
	Backup    bool   `yaml:"backup"`
	NoClobber bool   `yaml:"noclobber"`
}

type LoggingConfig struct {
	Level string `yaml:"level"`
}

type Config struct {
	Lists          ListsConfig   `yaml:"lists"`
	Cache          CacheConfig   `yaml:"cache"`
	Output         OutputConfig  `yaml:"output"`
	StripToRoot    bool          `yaml:"strip_to_root"`
	RestartService bool          `yaml:"restart_service"`
	Logging        LoggingConfig `yaml:"logging"`
}

// Default returns the configuration used when no config file is given.
func Default() *Config {
	return &Config{
		Lists: ListsConfig{
			Sources:   DefaultSources,
			Blacklist: DefaultConfigDir + "/blacklist",
			Whitelist: DefaultConfigDir + "/whitelist",
		},
		Cache: CacheConfig{
			Dir:    DefaultConfigDir + "/cache",
			Expire: 24 * time.Hour,
		},
		Output: OutputConfig{
			Mode: ModeDNSMasq,
			File: DefaultConfigDir + "/generated_blacklist",
		},
		RestartService: true,
		Logging: LoggingConfig{
			Level: "warn",
		},
	}
}

func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %v", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %v", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %v", err)
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	if c.Output.Mode != ModeDNSMasq && c.Output.Mode != ModeHosts {
		return fmt.Errorf("output.mode must be %q or %q", ModeDNSMasq, ModeHosts)
	}
	if c.Output.File == "" {
		return fmt.Errorf("output.file is required")
	}
	if c.Cache.Expire <= 0 {
		return fmt.Errorf("cache.expire must be positive")
	}
	if c.Lists.Blacklist == "" || c.Lists.Whitelist == "" {
		return fmt.Errorf("lists.blacklist and lists.whitelist are required")
	}
	return nil
}
