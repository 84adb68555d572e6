package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/thereayou/rawrchat/internal/catalog"
	"github.com/thereayou/rawrchat/internal/chat"
	"github.com/thereayou/rawrchat/internal/clock"
	"github.com/thereayou/rawrchat/internal/models"
	"github.com/thereayou/rawrchat/internal/scheduler"
	"github.com/thereayou/rawrchat/internal/services"
	"github.com/thereayou/rawrchat/internal/store"
	"github.com/thereayou/rawrchat/internal/telemetry"
	"github.com/thereayou/rawrchat/internal/util"
)

var ErrNameRequired = errors.New("name is required")

// EventSink receives every store event of a session from its first tick on.
type EventSink func(sessionID string, e store.Event)

// Profile is what the login form collects.
type Profile struct {
	Name    string
	Age     string
	Gender  string
	Country string
	Avatar  string
}

type Deps struct {
	Generator services.Generator
	Speaker   services.Speaker
	// Personas is optional; without it created NPCs live only in their session.
	Personas services.PersonaStore
	Clock    clock.Clock
	Logger   *zap.Logger
}

type Config struct {
	Scheduler scheduler.Config
	Chat      chat.Config
	// Seed makes every session's draws reproducible; zero seeds from the clock.
	Seed int64
}

type Registry struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	seq      int64

	deps Deps
	cfg  Config
	log  *zap.Logger
}

func NewRegistry(deps Deps, cfg Config) *Registry {
	if deps.Clock == nil {
		deps.Clock = clock.Real()
	}
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}
	return &Registry{
		sessions: make(map[string]*Session),
		deps:     deps,
		cfg:      cfg,
		log:      deps.Logger.Named("session"),
	}
}

// Login opens a new session for the given profile and starts its bot loop.
// Sinks are subscribed before the loop starts.
func (r *Registry) Login(ctx context.Context, p Profile, sinks ...EventSink) (*Session, error) {
	if p.Name == "" {
		return nil, ErrNameRequired
	}

	self := catalog.Guest()
	self.Name = p.Name
	self.Age = p.Age
	self.Gender = p.Gender
	if p.Country != "" {
		self.Country = p.Country
	}
	if p.Avatar != "" {
		self.Avatar = p.Avatar
	}

	var npcs []models.NPC
	if r.deps.Personas != nil {
		var err error
		npcs, err = r.deps.Personas.ListNPCs(ctx)
		if err != nil {
			r.log.Warn("failed to load saved npcs", zap.Error(err))
		}
	}

	rnd := util.NewRand(r.nextSeed())
	id := uuid.NewString()
	log := r.log.With(zap.String("session", id))

	st := newWorld(self, catalog.Servers(rnd), npcs, log)
	sess := &Session{
		ID:        id,
		CreatedAt: r.deps.Clock.Now(),
		Store:     st,
		Scheduler: scheduler.New(st, scheduler.Deps{
			Generator: r.deps.Generator,
			Speaker:   r.deps.Speaker,
			Clock:     r.deps.Clock,
			Rand:      rnd,
			Logger:    log,
		}, r.cfg.Scheduler),
		Sender: chat.NewSender(st, chat.Deps{
			Generator: r.deps.Generator,
			Speaker:   r.deps.Speaker,
			Clock:     r.deps.Clock,
			Rand:      rnd,
			Logger:    log,
		}, r.cfg.Chat),
		personas: r.deps.Personas,
		log:      log,
	}
	for _, sink := range sinks {
		sink := sink
		st.Subscribe(func(e store.Event) { sink(id, e) })
	}
	sess.start()

	r.mu.Lock()
	r.sessions[id] = sess
	n := len(r.sessions)
	r.mu.Unlock()

	telemetry.ActiveSessions.Set(float64(n))
	log.Info("session opened", zap.String("name", self.Name), zap.String("country", self.Country))
	return sess, nil
}

func (r *Registry) Get(id string) (*Session, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.sessions[id]
	return s, ok
}

// Logout stops the session and forgets everything it held.
func (r *Registry) Logout(id string) bool {
	r.mu.Lock()
	sess, ok := r.sessions[id]
	delete(r.sessions, id)
	n := len(r.sessions)
	r.mu.Unlock()

	if !ok {
		return false
	}
	sess.Close()
	telemetry.ActiveSessions.Set(float64(n))
	r.log.Info("session closed", zap.String("session", id))
	return true
}

func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}

// Close stops every session.
func (r *Registry) Close() {
	r.mu.Lock()
	sessions := r.sessions
	r.sessions = make(map[string]*Session)
	r.mu.Unlock()

	for _, s := range sessions {
		s.Close()
	}
	telemetry.ActiveSessions.Set(0)
}

func (r *Registry) nextSeed() int64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	if r.cfg.Seed == 0 {
		return time.Now().UnixNano() + r.seq
	}
	return r.cfg.Seed + r.seq
}
