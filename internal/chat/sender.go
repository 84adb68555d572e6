// Package chat handles messages a person sends and the bot reply each one
// may trigger.
package chat

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/thereayou/rawrchat/internal/clock"
	"github.com/thereayou/rawrchat/internal/models"
	"github.com/thereayou/rawrchat/internal/services"
	"github.com/thereayou/rawrchat/internal/store"
	"github.com/thereayou/rawrchat/internal/telemetry"
	"github.com/thereayou/rawrchat/internal/util"
)

var (
	ErrEmptyMessage   = errors.New("message has no text or image")
	ErrImagesDisabled = errors.New("images are not allowed in this room")
	ErrNoChannel      = errors.New("no channel selected")
)

const (
	directServerName  = "Direct Messages"
	directChannelName = "Private Chat"
	humanRoomHint     = " (Act like a real human internet user)"
)

type Config struct {
	DirectDelay       time.Duration
	BotDelay          time.Duration
	HumanDelay        time.Duration
	SpeechProbability float64
}

func DefaultConfig() Config {
	return Config{
		DirectDelay:       1500 * time.Millisecond,
		BotDelay:          1500 * time.Millisecond,
		HumanDelay:        3 * time.Second,
		SpeechProbability: 0.2,
	}
}

type Deps struct {
	Generator services.Generator
	Speaker   services.Speaker
	Clock     clock.Clock
	Rand      util.Rand
	Logger    *zap.Logger
}

type Sender struct {
	store     *store.Store
	generator services.Generator
	speaker   services.Speaker
	clock     clock.Clock
	rand      util.Rand
	log       *zap.Logger
	cfg       Config

	// Replies outlive the request that triggered them, so they hang off the
	// sender's own lifetime.
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func NewSender(st *store.Store, deps Deps, cfg Config) *Sender {
	if deps.Clock == nil {
		deps.Clock = clock.Real()
	}
	if deps.Rand == nil {
		deps.Rand = util.NewRand(time.Now().UnixNano())
	}
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Sender{
		store:     st,
		generator: deps.Generator,
		speaker:   deps.Speaker,
		clock:     deps.Clock,
		rand:      deps.Rand,
		log:       deps.Logger.Named("chat"),
		cfg:       cfg,
		ctx:       ctx,
		cancel:    cancel,
	}
}

// Send appends the session user's message to the active channel right away
// and schedules the bot reply in the background. The typing indicator stays
// up until that reply is appended or given up on.
func (s *Sender) Send(text, image string) (models.Message, error) {
	if strings.TrimSpace(text) == "" && image == "" {
		return models.Message{}, ErrEmptyMessage
	}

	active := s.store.Active()
	if image != "" && !active.Server.AllowImages {
		return models.Message{}, ErrImagesDisabled
	}

	channelID := active.Channel.ID
	history := s.store.Messages(channelID)
	self := s.store.Self()

	now := s.clock.Now()
	msg := models.Message{
		ID:        store.NewMessageID(),
		UserID:    self.ID,
		Content:   text,
		Timestamp: models.DisplayTime(now),
		CreatedAt: now,
		Image:     image,
	}
	if !s.store.AppendMessage(channelID, msg) {
		return models.Message{}, ErrNoChannel
	}
	telemetry.MessagesAppended.WithLabelValues("human").Inc()

	s.store.BeginTyping()
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		defer s.store.EndTyping()

		if active.Channel.Type == models.ChannelDM {
			s.replyDirect(active.Channel, self, text, history)
			return
		}
		s.replyRoom(active, self, text, history)
	}()

	return msg, nil
}

func (s *Sender) replyDirect(channel models.Channel, self models.User, text string, history []models.Message) {
	peerID, ok := channel.Peer(self.ID)
	if !ok {
		return
	}
	peer, ok := s.store.FindUser(peerID)
	if !ok || !peer.IsBot {
		return
	}

	reply := s.generate("direct", services.GenerateRequest{
		History:     history,
		Candidates:  []models.User{peer},
		Trigger:     text,
		ServerName:  directServerName,
		ChannelName: directChannelName,
		Country:     self.Country,
	})
	if reply == nil {
		return
	}

	msg := s.botMessage(peer.ID, reply.Text)
	s.appendAfter(s.cfg.DirectDelay, channel.ID, msg)
}

func (s *Sender) replyRoom(active store.ActiveView, self models.User, text string, history []models.Message) {
	human := active.Server.Kind == models.RoomHuman
	serverName := active.Server.Name
	if human {
		serverName += humanRoomHint
	}

	reply := s.generate("room", services.GenerateRequest{
		History:     history,
		Candidates:  active.Server.Users,
		Trigger:     text,
		ServerName:  serverName,
		ChannelName: active.Channel.Name,
		Country:     self.Country,
	})
	if reply == nil {
		return
	}

	speaker, ok := active.Server.FindUser(reply.SpeakerID)
	if !ok {
		s.log.Debug("reply from outside the roster ignored", zap.String("speaker", reply.SpeakerID))
		return
	}

	msg := s.botMessage(speaker.ID, reply.Text)
	if util.Chance(s.rand, s.cfg.SpeechProbability) {
		msg.Audio = s.synthesize(reply.Text, speaker)
	}

	delay := s.cfg.BotDelay
	if human {
		delay = s.cfg.HumanDelay
	}
	s.appendAfter(delay, active.Channel.ID, msg)
}

func (s *Sender) generate(path string, req services.GenerateRequest) *services.Reply {
	start := time.Now()
	reply, err := s.generator.GenerateReply(s.ctx, req)
	switch {
	case err != nil:
		telemetry.ObserveGeneration(path, "error", start)
		s.log.Warn("reply generation failed", zap.String("path", path), zap.Error(err))
		return nil
	case reply == nil:
		telemetry.ObserveGeneration(path, "empty", start)
		return nil
	}
	telemetry.ObserveGeneration(path, "ok", start)
	return reply
}

func (s *Sender) synthesize(text string, speaker models.User) string {
	if s.speaker == nil {
		return ""
	}
	uri, err := s.speaker.Synthesize(s.ctx, text, speaker.Gender, speaker.Personality)
	if err != nil {
		telemetry.Speech.WithLabelValues("error").Inc()
		s.log.Warn("speech synthesis failed", zap.String("speaker", speaker.ID), zap.Error(err))
		return ""
	}
	telemetry.Speech.WithLabelValues("ok").Inc()
	return uri
}

func (s *Sender) botMessage(userID, text string) models.Message {
	now := s.clock.Now()
	return models.Message{
		ID:        store.NewMessageID(),
		UserID:    userID,
		Content:   text,
		Timestamp: models.DisplayTime(now),
		CreatedAt: now,
	}
}

// appendAfter holds the reply back for a moment so bots don't answer
// instantly, then appends it to the channel the send came from.
func (s *Sender) appendAfter(delay time.Duration, channelID string, msg models.Message) {
	select {
	case <-s.clock.After(delay):
	case <-s.ctx.Done():
		return
	}
	if s.store.AppendMessage(channelID, msg) {
		telemetry.MessagesAppended.WithLabelValues("bot").Inc()
	}
}

// Wait blocks until every pending reply settled.
func (s *Sender) Wait() {
	s.wg.Wait()
}

// Close abandons pending replies and waits for them to return.
func (s *Sender) Close() {
	s.cancel()
	s.wg.Wait()
}
