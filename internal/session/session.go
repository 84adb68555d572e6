// Package session owns one chat world per logged-in user.
package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/thereayou/rawrchat/internal/catalog"
	"github.com/thereayou/rawrchat/internal/chat"
	"github.com/thereayou/rawrchat/internal/models"
	"github.com/thereayou/rawrchat/internal/scheduler"
	"github.com/thereayou/rawrchat/internal/services"
	"github.com/thereayou/rawrchat/internal/store"
)

var ErrUnknownPersonality = errors.New("unknown personality")

// Session bundles the conversation state of one user with the loops that keep
// it moving.
type Session struct {
	ID        string
	CreatedAt time.Time

	Store     *store.Store
	Scheduler *scheduler.Scheduler
	Sender    *chat.Sender

	personas services.PersonaStore
	log      *zap.Logger

	cancel    context.CancelFunc
	done      chan struct{}
	closeOnce sync.Once
}

func (s *Session) start() {
	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel
	s.done = make(chan struct{})
	go func() {
		defer close(s.done)
		s.Scheduler.Run(ctx)
	}()
}

// Close stops the bot loop and abandons pending replies.
func (s *Session) Close() {
	s.closeOnce.Do(func() {
		s.cancel()
		<-s.done
		s.Sender.Close()
	})
}

// CreateNPC adds a persona to the active room and saves it when a persona
// store is configured. A failed save keeps the bot in this session. An empty
// personality means normal; any other unknown value is rejected.
func (s *Session) CreateNPC(ctx context.Context, npc models.User) (models.User, error) {
	if err := checkPersonality(npc.Personality); err != nil {
		return models.User{}, err
	}
	if npc.ID == "" {
		npc.ID = "npc-" + store.NewMessageID()
	}
	npc.IsBot = true
	npc.Personality = npc.Personality.OrNormal()

	serverID, err := s.Store.AddNPC(npc)
	if err != nil {
		return models.User{}, fmt.Errorf("add npc: %w", err)
	}

	if s.personas != nil {
		rec := &models.NPC{User: npc, ServerID: serverID, CreatedAt: time.Now()}
		if err := s.personas.SaveNPC(ctx, rec); err != nil {
			s.log.Warn("failed to persist npc", zap.String("npc", npc.ID), zap.Error(err))
		}
	}
	return npc, nil
}

// UpdateUser rewrites a roster profile. When the user is a saved persona the
// stored record follows, so the edit survives the next login.
func (s *Session) UpdateUser(ctx context.Context, user models.User) (models.User, error) {
	if err := checkPersonality(user.Personality); err != nil {
		return models.User{}, err
	}
	user.Personality = user.Personality.OrNormal()

	if !s.Store.UpdateUser(user) {
		return models.User{}, fmt.Errorf("update %q: %w", user.ID, store.ErrUserNotFound)
	}

	if s.personas != nil {
		if rec, err := s.personas.GetNPC(ctx, user.ID); err == nil && rec != nil {
			user.IsBot = true
			rec.User = user
			if err := s.personas.SaveNPC(ctx, rec); err != nil {
				s.log.Warn("failed to persist npc edit", zap.String("npc", user.ID), zap.Error(err))
			}
		}
	}
	return s.Store.ResolveUser(user.ID), nil
}

func checkPersonality(p models.Personality) error {
	if p != "" && !p.Valid() {
		return fmt.Errorf("%w: %q", ErrUnknownPersonality, p)
	}
	return nil
}

// newWorld seeds a fresh store: catalog rooms, saved personas and the
// welcome post in the default channel.
func newWorld(self models.User, servers []models.Server, npcs []models.NPC, log *zap.Logger) *store.Store {
	st := store.New(self, servers)
	for _, npc := range npcs {
		u := npc.User
		u.IsBot = true
		if err := st.AddUser(npc.ServerID, u); err != nil {
			log.Debug("skipping npc for unknown server", zap.String("npc", u.ID), zap.String("server", npc.ServerID))
		}
	}
	st.AppendMessage(catalog.DefaultChannelID, catalog.Welcome())
	return st
}
