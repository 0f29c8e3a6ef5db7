package workspace

import (
	"sync"

	"github.com/TebbyShelby/pricecatcher/server/config"
	"github.com/TebbyShelby/pricecatcher/server/drive"
	"github.com/TebbyShelby/pricecatcher/utils"
	"github.com/rs/zerolog"
)

// Manager is the registry of live workspaces, keyed by the session id
// carried in the browser cookie
type Manager struct {
	cfg     *config.Config
	fetcher drive.Fetcher
	logger  zerolog.Logger

	mu         sync.RWMutex
	workspaces map[string]*Workspace
}

// NewManager creates an empty workspace registry
func NewManager(cfg *config.Config, fetcher drive.Fetcher, logger zerolog.Logger) *Manager {
	return &Manager{
		cfg:        cfg,
		fetcher:    fetcher,
		logger:     logger.With().Str("component", "workspace-manager").Logger(),
		workspaces: make(map[string]*Workspace),
	}
}

// Get returns the workspace for id, if it exists
func (m *Manager) Get(id string) (*Workspace, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	w, ok := m.workspaces[id]
	return w, ok
}

// Create registers a new workspace under a fresh ULID
func (m *Manager) Create() *Workspace {
	id := utils.GenerateULIDString()
	w := newWorkspace(id, m.cfg, m.fetcher, m.logger)

	m.mu.Lock()
	m.workspaces[id] = w
	m.mu.Unlock()

	m.logger.Info().Str("workspace_id", id).Msg("Workspace created")
	return w
}

// GetOrCreate returns the workspace for id, or a fresh one when the id
// is unknown or empty
func (m *Manager) GetOrCreate(id string) *Workspace {
	if id != "" {
		if w, ok := m.Get(id); ok {
			return w
		}
	}
	return m.Create()
}

// Count returns the number of live workspaces
func (m *Manager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.workspaces)
}

// CloseAll tears down every workspace; called on shutdown so no
// temporary files survive the process
func (m *Manager) CloseAll() {
	m.mu.Lock()
	defer m.mu.Unlock()

	for id, w := range m.workspaces {
		if err := w.Close(); err != nil {
			m.logger.Error().Err(err).Str("workspace_id", id).Msg("Error closing workspace")
		}
		delete(m.workspaces, id)
	}
}
