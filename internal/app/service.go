package app

import (
	"context"

	"github.com/google/uuid"
	"github.com/randomchill-vibes/findthestate/internal/domain"
)

// SessionRepository abstracts where live game engines are kept (in-memory, Redis, etc).
type SessionRepository interface {
	Put(sessionID string, engine *Engine)
	Get(sessionID string) (*Engine, bool)
	Delete(sessionID string)
}

// CatalogRepository loads region catalogs (from cache/backing store).
type CatalogRepository interface {
	GetCatalog(ctx context.Context, catalogID string) (domain.Catalog, error)
}

// GameService hosts one engine per connected player.
type GameService struct {
	sessions SessionRepository
	catalogs CatalogRepository
	cfg      EngineConfig
	newID    func() string
}

// NewGameService wires the repositories. A non-nil cfg.Rand is shared by every engine
// and is wrapped so it can be used concurrently.
func NewGameService(store SessionRepository, catalogs CatalogRepository, cfg EngineConfig) *GameService {
	if cfg.Rand != nil {
		cfg.Rand = NewLockedPicker(cfg.Rand)
	}
	return &GameService{
		sessions: store,
		catalogs: catalogs,
		cfg:      cfg,
		newID:    uuid.NewString,
	}
}

// Open loads the catalog and creates an idle game rendering to render.
func (s *GameService) Open(ctx context.Context, catalogID string, render Renderer) (string, domain.View, error) {
	catalog, err := s.catalogs.GetCatalog(ctx, catalogID)
	if err != nil {
		return "", domain.View{}, err
	}
	engine := NewEngine(catalog, render, s.cfg)
	id := s.newID()
	s.sessions.Put(id, engine)
	return id, engine.View(), nil
}

// Start begins the round sequence. The bool is false when the session was not idle.
func (s *GameService) Start(_ context.Context, sessionID string, opts domain.Options) (bool, error) {
	engine, err := s.engine(sessionID)
	if err != nil {
		return false, err
	}
	return engine.Start(opts), nil
}

// StartWithPreferences starts using the toggles last reported by the input surface.
func (s *GameService) StartWithPreferences(_ context.Context, sessionID string) (bool, error) {
	engine, err := s.engine(sessionID)
	if err != nil {
		return false, err
	}
	return engine.Start(engine.Preferences().Options), nil
}

// Click submits a region click. The bool is false when the click was ignored.
func (s *GameService) Click(_ context.Context, sessionID, regionID string) (bool, error) {
	engine, err := s.engine(sessionID)
	if err != nil {
		return false, err
	}
	return engine.SubmitClick(regionID), nil
}

func (s *GameService) SetPreferences(_ context.Context, sessionID string, prefs domain.Preferences) error {
	engine, err := s.engine(sessionID)
	if err != nil {
		return err
	}
	engine.SetPreferences(prefs)
	return nil
}

// Reset replays the session with its previous options.
func (s *GameService) Reset(_ context.Context, sessionID string) error {
	engine, err := s.engine(sessionID)
	if err != nil {
		return err
	}
	engine.Reset()
	return nil
}

// Home abandons the session and waits for a new start.
func (s *GameService) Home(_ context.Context, sessionID string) error {
	engine, err := s.engine(sessionID)
	if err != nil {
		return err
	}
	engine.GoHome()
	return nil
}

func (s *GameService) State(_ context.Context, sessionID string) (domain.SessionState, error) {
	engine, err := s.engine(sessionID)
	if err != nil {
		return domain.SessionState{}, err
	}
	return engine.Snapshot(), nil
}

// Close tears the engine down and forgets the session.
func (s *GameService) Close(_ context.Context, sessionID string) {
	engine, ok := s.sessions.Get(sessionID)
	if !ok {
		return
	}
	engine.Close()
	s.sessions.Delete(sessionID)
}

func (s *GameService) engine(sessionID string) (*Engine, error) {
	engine, ok := s.sessions.Get(sessionID)
	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	return engine, nil
}
