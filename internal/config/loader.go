package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/spf13/viper"
)

const configFileName = "config.toml"

// Manager handles configuration loading, watching, and reloading.
type Manager struct {
	config    *Config
	viper     *viper.Viper
	dir       string
	mu        sync.RWMutex
	callbacks []func(*Config)
	watching  bool

	reloadTimer *time.Timer
}

// NewManager creates a manager reading from the XDG config directory.
func NewManager() (*Manager, error) {
	configDir, err := GetConfigDir()
	if err != nil {
		return nil, fmt.Errorf("failed to determine config directory: %w\nCheck XDG_CONFIG_HOME environment variable or HOME directory", err)
	}
	return NewManagerWithDir(configDir)
}

// NewManagerWithDir creates a manager reading config.toml from dir.
func NewManagerWithDir(dir string) (*Manager, error) {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("toml")
	v.AddConfigPath(dir)

	// TILEGRID_LAYOUT_DIVIDER_PX, TILEGRID_RECONCILE_MAX_TICKS, ...
	v.SetEnvPrefix("TILEGRID")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Shared with logging.NewFromEnv so both paths agree.
	if err := v.BindEnv("logging.level", "TILEGRID_LOG_LEVEL"); err != nil {
		return nil, fmt.Errorf("failed to bind TILEGRID_LOG_LEVEL: %w", err)
	}
	if err := v.BindEnv("logging.format", "TILEGRID_LOG_FORMAT"); err != nil {
		return nil, fmt.Errorf("failed to bind TILEGRID_LOG_FORMAT: %w", err)
	}

	return &Manager{
		viper:     v,
		dir:       dir,
		callbacks: make([]func(*Config), 0),
	}, nil
}

// ConfigFile returns the path of the config file the manager reads.
func (m *Manager) ConfigFile() string {
	if used := m.viper.ConfigFileUsed(); used != "" {
		return used
	}
	return filepath.Join(m.dir, configFileName)
}

// Load loads the configuration from file and environment variables,
// writing a default file first when none exists.
func (m *Manager) Load() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.setDefaults()

	if err := m.readConfigFile(); err != nil {
		return err
	}

	config, err := m.unmarshalConfig()
	if err != nil {
		return err
	}
	normalizeConfig(config)

	if err := validateConfig(config); err != nil {
		return fmt.Errorf("configuration validation failed: %w", err)
	}

	m.config = config
	return nil
}

func (m *Manager) readConfigFile() error {
	err := m.viper.ReadInConfig()
	if err == nil {
		return nil
	}

	var notFound viper.ConfigFileNotFoundError
	if !errors.As(err, &notFound) {
		return fmt.Errorf("failed to read config file at %s: %w\nCheck the file format (must be valid TOML) and permissions", m.ConfigFile(), err)
	}

	if createErr := m.createDefaultConfig(); createErr != nil {
		return fmt.Errorf(
			"failed to create default config at %s: %w\nTry creating the directory manually or check permissions",
			m.dir,
			createErr,
		)
	}
	if rereadErr := m.viper.ReadInConfig(); rereadErr != nil {
		return fmt.Errorf("failed to read newly created config file: %w", rereadErr)
	}
	return nil
}

func (m *Manager) unmarshalConfig() (*Config, error) {
	config := &Config{}
	if err := m.viper.Unmarshal(config); err != nil {
		return nil, fmt.Errorf(
			"failed to parse config file at %s: %w\nCheck for syntax errors, invalid values, or type mismatches",
			m.viper.ConfigFileUsed(),
			err,
		)
	}
	return config, nil
}

func normalizeConfig(config *Config) {
	config.Logging.Level = strings.ToLower(strings.TrimSpace(config.Logging.Level))
	if config.Logging.Level == "" {
		config.Logging.Level = defaultLogLevel
	}

	switch strings.ToLower(config.Logging.Format) {
	case "json":
		config.Logging.Format = "json"
	default:
		config.Logging.Format = defaultLogFormat
	}

	config.Logging.LogDir = strings.TrimSpace(config.Logging.LogDir)
	config.Inspect.Addr = strings.TrimSpace(config.Inspect.Addr)
}

// Get returns the current configuration (thread-safe).
func (m *Manager) Get() *Config {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.config == nil {
		return DefaultConfig()
	}
	configCopy := *m.config
	return &configCopy
}

// Save validates cfg, writes it to disk and makes it current.
func (m *Manager) Save(cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("config is nil")
	}
	if err := validateConfig(cfg); err != nil {
		return fmt.Errorf("configuration validation failed: %w", err)
	}

	m.mu.Lock()
	if err := os.MkdirAll(m.dir, dirPerm); err != nil {
		m.mu.Unlock()
		return err
	}
	if err := WriteConfigOrdered(cfg, m.ConfigFile()); err != nil {
		m.mu.Unlock()
		return err
	}
	configCopy := *cfg
	m.config = &configCopy
	m.notifyCallbacksLocked()
	return nil
}

func (m *Manager) createDefaultConfig() error {
	if err := os.MkdirAll(m.dir, dirPerm); err != nil {
		return err
	}
	return WriteConfigOrdered(DefaultConfig(), filepath.Join(m.dir, configFileName))
}

func (m *Manager) setDefaults() {
	defaults := DefaultConfig()

	m.setLayoutDefaults(defaults)
	m.setReconcileDefaults(defaults)
	m.setBridgeDefaults(defaults)
	m.setLoggingDefaults(defaults)
	m.setInspectDefaults(defaults)
}

func (m *Manager) setLayoutDefaults(defaults *Config) {
	m.viper.SetDefault("layout.split_epsilon", defaults.Layout.SplitEpsilon)
	m.viper.SetDefault("layout.min_share", defaults.Layout.MinShare)
	m.viper.SetDefault("layout.default_split_fraction", defaults.Layout.DefaultSplitFraction)
	m.viper.SetDefault("layout.divider_px", defaults.Layout.DividerPx)
	m.viper.SetDefault("layout.min_tile_px", defaults.Layout.MinTilePx)
	m.viper.SetDefault("layout.edit_inset_px", defaults.Layout.EditInsetPx)
	m.viper.SetDefault("layout.nudge_step", defaults.Layout.NudgeStep)
}

func (m *Manager) setReconcileDefaults(defaults *Config) {
	m.viper.SetDefault("reconcile.interval_ms", defaults.Reconcile.IntervalMs)
	m.viper.SetDefault("reconcile.max_ticks", defaults.Reconcile.MaxTicks)
	m.viper.SetDefault("reconcile.capture_placeholder", defaults.Reconcile.CapturePlaceholder)
}

func (m *Manager) setBridgeDefaults(defaults *Config) {
	m.viper.SetDefault("bridge.buffer_size", defaults.Bridge.BufferSize)
	m.viper.SetDefault("bridge.request_timeout_ms", defaults.Bridge.RequestTimeoutMs)
}

func (m *Manager) setLoggingDefaults(defaults *Config) {
	m.viper.SetDefault("logging.level", defaults.Logging.Level)
	m.viper.SetDefault("logging.format", defaults.Logging.Format)
	m.viper.SetDefault("logging.log_dir", defaults.Logging.LogDir)
	m.viper.SetDefault("logging.enable_file_log", defaults.Logging.EnableFileLog)
}

func (m *Manager) setInspectDefaults(defaults *Config) {
	m.viper.SetDefault("inspect.enabled", defaults.Inspect.Enabled)
	m.viper.SetDefault("inspect.addr", defaults.Inspect.Addr)
}
