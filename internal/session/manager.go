package session

import (
	"context"
	"sync"

	"github.com/learnsphere/assessment-client/internal/client"
	"github.com/learnsphere/assessment-client/internal/events"
	"github.com/learnsphere/assessment-client/internal/utils"
	"github.com/learnsphere/assessment-client/internal/validator"
)

// Manager owns the live controllers, keyed by session id. Each attempt gets
// its own controller; the manager only routes and enforces ownership.
type Manager struct {
	client    client.Client
	validator *validator.Validator
	logger    utils.Logger
	publisher events.EventPublisher

	mu       sync.RWMutex
	sessions map[string]*Controller
}

func NewManager(apiClient client.Client, v *validator.Validator, logger utils.Logger, publisher events.EventPublisher) *Manager {
	return &Manager{
		client:    apiClient,
		validator: v,
		logger:    logger,
		publisher: publisher,
		sessions:  make(map[string]*Controller),
	}
}

// Start constructs a controller for the assessment, loads it and registers
// it. A failed load is terminal: nothing is registered and the error is
// returned for the caller to present, with a path back to the listing.
func (m *Manager) Start(ctx context.Context, assessmentID, userID string) (*Controller, error) {
	ctrl := NewController(Config{
		AssessmentID: assessmentID,
		UserID:       userID,
		Client:       m.client,
		Validator:    m.validator,
		Logger:       m.logger,
		Publisher:    m.publisher,
	})

	if err := ctrl.Load(ctx); err != nil {
		ctrl.Close()
		return nil, err
	}

	m.mu.Lock()
	m.sessions[ctrl.ID()] = ctrl
	m.mu.Unlock()

	return ctrl, nil
}

// Get returns the controller for sessionID if it exists and belongs to
// userID.
func (m *Manager) Get(sessionID, userID string) (*Controller, error) {
	m.mu.RLock()
	ctrl, ok := m.sessions[sessionID]
	m.mu.RUnlock()

	if !ok {
		return nil, ErrSessionNotFound
	}
	if ctrl.UserID() != userID {
		return nil, ErrSessionAccessDenied
	}
	return ctrl, nil
}

// Close tears down and removes a session.
func (m *Manager) Close(sessionID, userID string) error {
	ctrl, err := m.Get(sessionID, userID)
	if err != nil {
		return err
	}

	m.mu.Lock()
	delete(m.sessions, sessionID)
	m.mu.Unlock()

	ctrl.Close()
	return nil
}

// CloseAll tears down every live session. Used on shutdown.
func (m *Manager) CloseAll() {
	m.mu.Lock()
	controllers := make([]*Controller, 0, len(m.sessions))
	for _, ctrl := range m.sessions {
		controllers = append(controllers, ctrl)
	}
	m.sessions = make(map[string]*Controller)
	m.mu.Unlock()

	for _, ctrl := range controllers {
		ctrl.Close()
	}
}

// Count returns the number of live sessions.
func (m *Manager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}
