package config

import (
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/bnema/tilegrid/internal/logging"
)

// reloadDelay absorbs the burst of events editors emit for one save.
const reloadDelay = 100 * time.Millisecond

// Watch reloads the config file whenever it changes on disk. Callbacks run
// only when the reloaded values differ from the current ones. Calling Watch
// twice is a no-op.
func (m *Manager) Watch() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.watching {
		return nil
	}

	m.viper.OnConfigChange(func(e fsnotify.Event) {
		log := logging.NewFromEnv()
		log.Debug().
			Str("op", e.Op.String()).
			Str("file", e.Name).
			Msg("config file event")
		m.scheduleReload()
	})
	m.viper.WatchConfig()
	m.watching = true
	return nil
}

func (m *Manager) scheduleReload() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.reloadTimer != nil {
		m.reloadTimer.Reset(reloadDelay)
		return
	}
	m.reloadTimer = time.AfterFunc(reloadDelay, m.reloadAndNotify)
}

func (m *Manager) reloadAndNotify() {
	log := logging.NewFromEnv()

	m.mu.Lock()
	previous := m.config
	if err := m.reload(); err != nil {
		m.mu.Unlock()
		log.Warn().Err(err).Msg("config reload failed, keeping previous values")
		return
	}
	if previous != nil && *previous == *m.config {
		m.mu.Unlock()
		log.Debug().Msg("config unchanged")
		return
	}
	m.notifyCallbacksLocked()
}

// notifyCallbacksLocked releases m.mu and then hands every callback its own
// copy of the config. Caller holds m.mu for write.
func (m *Manager) notifyCallbacksLocked() {
	snapshot := *m.config
	callbacks := append([]func(*Config){}, m.callbacks...)
	m.mu.Unlock()

	for _, fn := range callbacks {
		cfg := snapshot
		fn(&cfg)
	}
}

// OnConfigChange registers fn to run after every effective change, from
// Save or from the file watcher.
func (m *Manager) OnConfigChange(fn func(*Config)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.callbacks = append(m.callbacks, fn)
}

// reload re-reads the file into m.config. Caller holds m.mu for write. An
// invalid file leaves the current config in place.
func (m *Manager) reload() error {
	if err := m.viper.ReadInConfig(); err != nil {
		return err
	}
	cfg, err := m.unmarshalConfig()
	if err != nil {
		return err
	}
	normalizeConfig(cfg)
	if err := validateConfig(cfg); err != nil {
		return err
	}
	m.config = cfg
	return nil
}
