// Package scheduler keeps bot rooms talking on their own.
//
// Every tick it may pick a bot from the active room, ask the generator for a
// line in that bot's voice and append the result to the channel that was
// active when the tick started. At most one generation is outstanding per
// scheduler; ticks that arrive meanwhile are skipped, not queued.
package scheduler

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/thereayou/rawrchat/internal/catalog"
	"github.com/thereayou/rawrchat/internal/clock"
	"github.com/thereayou/rawrchat/internal/models"
	"github.com/thereayou/rawrchat/internal/services"
	"github.com/thereayou/rawrchat/internal/store"
	"github.com/thereayou/rawrchat/internal/telemetry"
	"github.com/thereayou/rawrchat/internal/util"
)

const openingLine = "Start a conversation."

type Outcome string

const (
	SkippedHome   Outcome = "skipped_home"
	SkippedHuman  Outcome = "skipped_human"
	SkippedBusy   Outcome = "skipped_busy"
	SkippedNoBots Outcome = "skipped_no_bots"
	Throttled     Outcome = "throttled"
	Failed        Outcome = "failed"
	Empty         Outcome = "empty"
	Stale         Outcome = "stale"
	Appended      Outcome = "appended"
)

type Config struct {
	Interval time.Duration
	// TieBreakProbability is the chance of handing the turn to another bot
	// when the drawn bot also wrote the last message.
	TieBreakProbability float64
	SpeechProbability   float64
	ReactionProbability float64
	// GenerationsPerSecond bounds generator calls; zero disables the limit.
	GenerationsPerSecond float64
	Burst                int
}

func DefaultConfig() Config {
	return Config{
		Interval:            2 * time.Second,
		TieBreakProbability: 0.5,
		SpeechProbability:   0.2,
		ReactionProbability: 0.3,
	}
}

type Deps struct {
	Generator services.Generator
	Speaker   services.Speaker
	Clock     clock.Clock
	Rand      util.Rand
	Logger    *zap.Logger
}

type Scheduler struct {
	store     *store.Store
	generator services.Generator
	speaker   services.Speaker
	clock     clock.Clock
	rand      util.Rand
	log       *zap.Logger
	cfg       Config
	limiter   *rate.Limiter
	reactions []string

	inFlight atomic.Bool
	wg       sync.WaitGroup
}

func New(st *store.Store, deps Deps, cfg Config) *Scheduler {
	if deps.Clock == nil {
		deps.Clock = clock.Real()
	}
	if deps.Rand == nil {
		deps.Rand = util.NewRand(time.Now().UnixNano())
	}
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}
	if cfg.Interval <= 0 {
		cfg.Interval = DefaultConfig().Interval
	}

	limit := rate.Inf
	if cfg.GenerationsPerSecond > 0 {
		limit = rate.Limit(cfg.GenerationsPerSecond)
	}
	burst := cfg.Burst
	if burst <= 0 {
		burst = 1
	}

	return &Scheduler{
		store:     st,
		generator: deps.Generator,
		speaker:   deps.Speaker,
		clock:     deps.Clock,
		rand:      deps.Rand,
		log:       deps.Logger.Named("scheduler"),
		cfg:       cfg,
		limiter:   rate.NewLimiter(limit, burst),
		reactions: catalog.Reactions,
	}
}

// Run ticks until ctx is cancelled, then waits for the turn in progress.
// Each tick runs on its own goroutine so a slow generation never delays the
// ticker; the in-flight guard turns overlapping ticks into skips.
func (s *Scheduler) Run(ctx context.Context) {
	ticker := s.clock.NewTicker(s.cfg.Interval)
	defer ticker.Stop()
	defer s.wg.Wait()

	s.log.Debug("bot loop started", zap.Duration("interval", s.cfg.Interval))
	for {
		select {
		case <-ctx.Done():
			s.log.Debug("bot loop stopped")
			return
		case <-ticker.C():
			s.wg.Add(1)
			go func() {
				defer s.wg.Done()
				s.Tick(ctx)
			}()
		}
	}
}

// Tick runs one turn and reports what happened.
func (s *Scheduler) Tick(ctx context.Context) Outcome {
	outcome := s.tick(ctx)
	telemetry.BotTurns.WithLabelValues(string(outcome)).Inc()
	return outcome
}

func (s *Scheduler) tick(ctx context.Context) Outcome {
	active := s.store.Active()
	if active.Server.IsHome() {
		return SkippedHome
	}
	if active.Server.Kind == models.RoomHuman {
		return SkippedHuman
	}
	if s.store.Typing() {
		return SkippedBusy
	}
	if !s.inFlight.CompareAndSwap(false, true) {
		return SkippedBusy
	}
	defer s.inFlight.Store(false)

	bots := active.Server.Bots()
	if len(bots) == 0 {
		return SkippedNoBots
	}
	if !s.limiter.Allow() {
		return Throttled
	}

	s.store.BeginTyping()
	defer s.store.EndTyping()

	channelID := active.Channel.ID
	last, hasLast := s.store.LastMessage(channelID)
	trigger := openingLine
	if hasLast {
		trigger = last.Content
	}

	speaker := s.pickSpeaker(bots, last, hasLast)

	start := time.Now()
	reply, err := s.generator.GenerateReply(ctx, services.GenerateRequest{
		History:     s.store.Messages(channelID),
		Candidates:  []models.User{speaker},
		Trigger:     trigger,
		ServerName:  active.Server.Name,
		ChannelName: active.Channel.Name,
		Country:     s.store.Self().Country,
	})
	if err != nil {
		telemetry.ObserveGeneration("scheduler", "error", start)
		s.log.Warn("bot turn dropped",
			zap.String("channel", channelID),
			zap.String("speaker", speaker.ID),
			zap.Error(err),
		)
		return Failed
	}
	if reply == nil {
		telemetry.ObserveGeneration("scheduler", "empty", start)
		return Empty
	}
	telemetry.ObserveGeneration("scheduler", "ok", start)

	msg := models.Message{
		ID:        store.NewMessageID(),
		UserID:    reply.SpeakerID,
		Content:   reply.Text,
		CreatedAt: s.clock.Now(),
	}
	msg.Timestamp = models.DisplayTime(msg.CreatedAt)

	if util.Chance(s.rand, s.cfg.SpeechProbability) {
		msg.Audio = s.synthesize(ctx, reply.Text, speaker)
	}
	if util.Chance(s.rand, s.cfg.ReactionProbability) {
		msg.Reactions = map[string]int{util.Pick(s.rand, s.reactions): 1}
	}

	if !s.store.AppendMessage(channelID, msg) {
		s.log.Debug("bot reply for vanished channel dropped", zap.String("channel", channelID))
		return Stale
	}
	telemetry.MessagesAppended.WithLabelValues("bot").Inc()
	return Appended
}

// pickSpeaker draws a bot and, on a successful coin flip, steers away from
// the author of the last message. The steer is soft: a failed flip lets the
// same bot speak twice in a row.
func (s *Scheduler) pickSpeaker(bots []models.User, last models.Message, hasLast bool) models.User {
	candidate := util.Pick(s.rand, bots)
	if !hasLast || last.UserID != candidate.ID || len(bots) < 2 {
		return candidate
	}
	if !util.Chance(s.rand, s.cfg.TieBreakProbability) {
		return candidate
	}
	for _, b := range bots {
		if b.ID != candidate.ID {
			return b
		}
	}
	return candidate
}

func (s *Scheduler) synthesize(ctx context.Context, text string, speaker models.User) string {
	if s.speaker == nil {
		return ""
	}
	uri, err := s.speaker.Synthesize(ctx, text, speaker.Gender, speaker.Personality)
	if err != nil {
		telemetry.Speech.WithLabelValues("error").Inc()
		s.log.Warn("speech synthesis failed", zap.String("speaker", speaker.ID), zap.Error(err))
		return ""
	}
	if uri == "" {
		telemetry.Speech.WithLabelValues("empty").Inc()
		return ""
	}
	telemetry.Speech.WithLabelValues("ok").Inc()
	return uri
}
