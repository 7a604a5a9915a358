package dupefind

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-ini/ini"
)

// Config represents the dupefind configuration
type Config struct {
	configPath string
	ini        *ini.File
}

// FingerprintConfig represents content-fingerprint configuration
type FingerprintConfig struct {
	Algorithm  string // Fingerprint algorithm: md5, sha1, sha256
	FastReject bool   // Enable the first-block reject pass before full fingerprinting
}

// ScanConfig represents directory-walk configuration
type ScanConfig struct {
	MinSize uint64   // Minimum file size in bytes to consider (0 = everything)
	Exclude []string // Regex patterns for relative paths to skip
}

// VerboseConfig represents verbosity configuration
type VerboseConfig struct {
	Level int    // Default verbose level (0=quiet, 1=basic, 2=detailed, 3=trace)
	Debug string // Default debug flags (comma-separated)
}

// PerformanceConfig represents performance-related configuration
type PerformanceConfig struct {
	HashWorkers int // Number of concurrent fingerprint workers (default: 4)
}

// AllConfig represents all configuration options
type AllConfig struct {
	Fingerprint *FingerprintConfig
	Scan        *ScanConfig
	Verbose     *VerboseConfig
	Performance *PerformanceConfig
}

// DefaultConfigPath returns the per-user config file location.
func DefaultConfigPath() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("failed to locate user config directory: %w", err)
	}
	return filepath.Join(configDir, "dupefind", "config"), nil
}

// LoadConfig loads configuration from the given path, creating a default
// config file there if none exists.
func LoadConfig(configPath string) (*Config, error) {
	cfg := &Config{
		configPath: configPath,
	}

	// Load existing config or create default
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		// Create default config
		cfg.ini = ini.Empty()
		if err := cfg.setDefaults(); err != nil {
			return nil, fmt.Errorf("failed to set default config: %w", err)
		}
		if err := os.MkdirAll(filepath.Dir(configPath), 0755); err != nil {
			return nil, fmt.Errorf("failed to create config directory: %w", err)
		}
		if err := cfg.Save(); err != nil {
			return nil, fmt.Errorf("failed to save default config: %w", err)
		}
	} else {
		// Load existing config
		iniFile, err := ini.Load(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load config file: %w", err)
		}
		cfg.ini = iniFile
	}

	return cfg, nil
}

// setDefaults sets default configuration values
func (c *Config) setDefaults() error {
	// Set default fingerprint settings
	fingerprintSection, err := c.ini.NewSection("fingerprint")
	if err != nil {
		return fmt.Errorf("failed to create fingerprint section: %w", err)
	}
	_, err = fingerprintSection.NewKey("algorithm", "md5")
	if err != nil {
		return fmt.Errorf("failed to set default fingerprint algorithm: %w", err)
	}
	_, err = fingerprintSection.NewKey("fast_reject", "true")
	if err != nil {
		return fmt.Errorf("failed to set default fast_reject: %w", err)
	}

	// Set default scan settings
	scanSection, err := c.ini.NewSection("scan")
	if err != nil {
		return fmt.Errorf("failed to create scan section: %w", err)
	}
	_, err = scanSection.NewKey("min_size", "0")
	if err != nil {
		return fmt.Errorf("failed to set default min_size: %w", err)
	}
	_, err = scanSection.NewKey("exclude", "")
	if err != nil {
		return fmt.Errorf("failed to set default exclude patterns: %w", err)
	}

	// Set default verbose settings
	verboseSection, err := c.ini.NewSection("verbose")
	if err != nil {
		return fmt.Errorf("failed to create verbose section: %w", err)
	}
	_, err = verboseSection.NewKey("level", "0")
	if err != nil {
		return fmt.Errorf("failed to set default verbose level: %w", err)
	}
	_, err = verboseSection.NewKey("debug", "")
	if err != nil {
		return fmt.Errorf("failed to set default debug flags: %w", err)
	}

	// Set default performance settings
	performanceSection, err := c.ini.NewSection("performance")
	if err != nil {
		return fmt.Errorf("failed to create performance section: %w", err)
	}
	_, err = performanceSection.NewKey("hash_workers", "4")
	if err != nil {
		return fmt.Errorf("failed to set default hash workers: %w", err)
	}

	return nil
}

// GetFingerprintConfig returns the fingerprint configuration
func (c *Config) GetFingerprintConfig() *FingerprintConfig {
	fingerprintConfig := &FingerprintConfig{
		Algorithm:  "md5", // fallback default
		FastReject: true,  // fallback default
	}

	if c.ini.HasSection("fingerprint") {
		section := c.ini.Section("fingerprint")
		if section.HasKey("algorithm") {
			fingerprintConfig.Algorithm = section.Key("algorithm").String()
		}
		if section.HasKey("fast_reject") {
			if fastReject, err := section.Key("fast_reject").Bool(); err == nil {
				fingerprintConfig.FastReject = fastReject
			}
		}
	}

	return fingerprintConfig
}

// GetScanConfig returns the scan configuration
func (c *Config) GetScanConfig() *ScanConfig {
	scanConfig := &ScanConfig{
		MinSize: 0,   // fallback default
		Exclude: nil, // fallback default
	}

	if c.ini.HasSection("scan") {
		section := c.ini.Section("scan")
		if section.HasKey("min_size") {
			if raw := section.Key("min_size").String(); raw != "" {
				minSize, err := ParseHumanSize(raw)
				if err != nil {
					Warnf("invalid min_size %q, scanning all sizes: %v", raw, err)
				} else {
					scanConfig.MinSize = minSize
				}
			}
		}
		if section.HasKey("exclude") {
			raw := section.Key("exclude").String()
			for _, pattern := range strings.Split(raw, ",") {
				pattern = strings.TrimSpace(pattern)
				if pattern != "" {
					scanConfig.Exclude = append(scanConfig.Exclude, pattern)
				}
			}
		}
	}

	return scanConfig
}

// GetVerboseConfig returns the verbose configuration
func (c *Config) GetVerboseConfig() *VerboseConfig {
	verboseConfig := &VerboseConfig{
		Level: 0,  // fallback default
		Debug: "", // fallback default
	}

	if c.ini.HasSection("verbose") {
		section := c.ini.Section("verbose")
		if section.HasKey("level") {
			if level, err := section.Key("level").Int(); err == nil {
				verboseConfig.Level = level
			}
		}
		if section.HasKey("debug") {
			verboseConfig.Debug = section.Key("debug").String()
		}
	}

	return verboseConfig
}

// GetPerformanceConfig returns the performance configuration
func (c *Config) GetPerformanceConfig() *PerformanceConfig {
	performanceConfig := &PerformanceConfig{
		HashWorkers: 4, // fallback default
	}

	if c.ini.HasSection("performance") {
		section := c.ini.Section("performance")
		if section.HasKey("hash_workers") {
			if workers, err := section.Key("hash_workers").Int(); err == nil {
				performanceConfig.HashWorkers = workers
			}
		}
	}

	return performanceConfig
}

// GetAllConfig returns all configuration options
func (c *Config) GetAllConfig() *AllConfig {
	return &AllConfig{
		Fingerprint: c.GetFingerprintConfig(),
		Scan:        c.GetScanConfig(),
		Verbose:     c.GetVerboseConfig(),
		Performance: c.GetPerformanceConfig(),
	}
}

// Save saves the configuration to disk
func (c *Config) Save() error {
	return c.ini.SaveTo(c.configPath)
}

// ApplyOverrides applies command-line overrides to the configuration
// Accepts strings like "algorithm:sha256", "fast_reject:false", "level:2",
// "min_size:1024", "hash_workers:8"
func (c *Config) ApplyOverrides(overrides []string) error {
	for _, override := range overrides {
		parts := strings.SplitN(override, ":", 2)
		if len(parts) != 2 {
			return fmt.Errorf("invalid override format '%s', expected 'key:value'", override)
		}

		key := strings.TrimSpace(parts[0])
		value := strings.TrimSpace(parts[1])

		switch key {
		case "algorithm":
			// fingerprint.algorithm override
			section := c.ini.Section("fingerprint")
			section.Key("algorithm").SetValue(value)
		case "fast_reject":
			// fingerprint.fast_reject override
			section := c.ini.Section("fingerprint")
			section.Key("fast_reject").SetValue(value)
		case "min_size":
			// scan.min_size override
			section := c.ini.Section("scan")
			section.Key("min_size").SetValue(value)
		case "exclude":
			// scan.exclude override
			section := c.ini.Section("scan")
			section.Key("exclude").SetValue(value)
		case "level":
			// verbose.level override
			section := c.ini.Section("verbose")
			section.Key("level").SetValue(value)
		case "debug":
			// verbose.debug override
			section := c.ini.Section("verbose")
			section.Key("debug").SetValue(value)
		case "hash_workers":
			// performance.hash_workers override
			section := c.ini.Section("performance")
			section.Key("hash_workers").SetValue(value)
		default:
			return fmt.Errorf("unsupported override key '%s' (supported: algorithm, fast_reject, min_size, exclude, level, debug, hash_workers)", key)
		}
	}

	return nil
}

// ValidateFingerprintAlgorithm validates that a fingerprint algorithm is supported
func ValidateFingerprintAlgorithm(algorithm string) error {
	if _, ok := FingerprintTypeFromName(algorithm); !ok {
		return fmt.Errorf("unsupported fingerprint algorithm: %s (supported: md5, sha1, sha256)", algorithm)
	}
	return nil
}

// ValidateVerboseLevel validates that a verbose level is valid
func ValidateVerboseLevel(level int) error {
	if level < 0 || level > 3 {
		return fmt.Errorf("invalid verbose level: %d (supported: 0-3)", level)
	}
	return nil
}

// ValidateHashWorkers validates that the fingerprint worker count is reasonable
func ValidateHashWorkers(workers int) error {
	if workers < 1 {
		return fmt.Errorf("hash workers must be at least 1, got: %d", workers)
	}
	if workers > 64 {
		return fmt.Errorf("hash workers should not exceed 64, got: %d", workers)
	}
	return nil
}
