// Package store is the in-memory conversation state of one chat session.
//
// Every mutation goes through a Store method; readers get copies, so callers
// can never alias the store's slices or reaction maps. Nothing is persisted:
// dropping the Store drops the conversation.
package store

import (
	"sync"

	"github.com/google/uuid"
	"github.com/thereayou/rawrchat/internal/models"
)

const (
	homeServerName   = "Direct Messages"
	placeholderDMID  = "dummy"
	placeholderDMTag = "Select a DM"
)

// ActiveView is the resolved (server, channel) selection.
type ActiveView struct {
	Server  models.Server  `json:"server"`
	Channel models.Channel `json:"channel"`
}

// State is a read-only snapshot for the UI.
type State struct {
	Self       models.User      `json:"self"`
	Active     ActiveView       `json:"active"`
	JoinedIDs  []string         `json:"joinedServerIds"`
	DMChannels []models.Channel `json:"dmChannels"`
	Typing     bool             `json:"typing"`
}

// ProfilePatch edits the session user. Nil fields are left alone.
type ProfilePatch struct {
	Name    *string        `json:"name"`
	Bio     *string        `json:"bio"`
	Color   *string        `json:"color"`
	Frame   *string        `json:"frame"`
	Font    *string        `json:"font"`
	Avatar  *string        `json:"avatar"`
	Banner  *string        `json:"banner"`
	Status  *models.Status `json:"status"`
	Country *string        `json:"country"`
}

type Store struct {
	mu sync.RWMutex

	self     models.User
	servers  []models.Server
	joined   []string
	dms      []models.Channel
	messages map[string][]models.Message

	activeServer  string
	activeChannel string

	typing int

	subscribers []Subscriber
	newID       func() string
}

type Option func(*Store)

// WithIDSource overrides how direct channel ids are minted.
func WithIDSource(fn func() string) Option {
	return func(s *Store) { s.newID = fn }
}

// New builds a store for self over the given server catalog. The first
// server is joined and selected.
func New(self models.User, servers []models.Server, opts ...Option) *Store {
	s := &Store{
		self:     self,
		servers:  make([]models.Server, len(servers)),
		messages: make(map[string][]models.Message),
		newID:    timeOrderedID,
	}
	for i, srv := range servers {
		s.servers[i] = cloneServer(srv)
	}
	if len(s.servers) > 0 {
		first := s.servers[0]
		s.joined = []string{first.ID}
		s.activeServer = first.ID
		if len(first.Channels) > 0 {
			s.activeChannel = first.Channels[0].ID
		}
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func timeOrderedID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}

// NewMessageID mints a unique, time-ordered message id.
func NewMessageID() string {
	return timeOrderedID()
}

func (s *Store) Subscribe(fn Subscriber) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.subscribers = append(s.subscribers, fn)
}

func (s *Store) publish(subs []Subscriber, events ...Event) {
	for _, ev := range events {
		for _, fn := range subs {
			fn(ev)
		}
	}
}

func (s *Store) subs() []Subscriber {
	out := make([]Subscriber, len(s.subscribers))
	copy(out, s.subscribers)
	return out
}

// AppendMessage adds msg at the tail of the channel. It is a no-op when the
// channel is unknown, so a reply that settles after its channel vanished is
// dropped instead of landing somewhere else.
func (s *Store) AppendMessage(channelID string, msg models.Message) bool {
	s.mu.Lock()
	if !s.channelExistsLocked(channelID) {
		s.mu.Unlock()
		return false
	}
	msg = msg.Clone()
	s.messages[channelID] = append(s.messages[channelID], msg)
	subs := s.subs()
	s.mu.Unlock()

	out := msg.Clone()
	s.publish(subs, Event{Type: EventMessage, ChannelID: channelID, Message: &out})
	return true
}

// IncrementReaction bumps the emoji counter of a message by one and returns
// the new count. ok is false when the message is not in the channel.
func (s *Store) IncrementReaction(channelID, messageID, emoji string) (count int, ok bool, err error) {
	if emoji == "" {
		return 0, false, ErrEmptyEmoji
	}

	s.mu.Lock()
	msgs := s.messages[channelID]
	for i := range msgs {
		if msgs[i].ID != messageID {
			continue
		}
		if msgs[i].Reactions == nil {
			msgs[i].Reactions = make(map[string]int)
		}
		msgs[i].Reactions[emoji]++
		count = msgs[i].Reactions[emoji]
		subs := s.subs()
		s.mu.Unlock()

		s.publish(subs, Event{Type: EventReaction, ChannelID: channelID, MessageID: messageID, Emoji: emoji, Count: count})
		return count, true, nil
	}
	s.mu.Unlock()
	return 0, false, nil
}

// JoinServer adds the server to the joined set. The first join also selects
// the server's first channel; joining again changes nothing.
func (s *Store) JoinServer(serverID string) error {
	s.mu.Lock()
	srv, ok := s.serverLocked(serverID)
	if !ok {
		s.mu.Unlock()
		return ErrServerNotFound
	}
	for _, id := range s.joined {
		if id == serverID {
			s.mu.Unlock()
			return nil
		}
	}
	s.joined = append(s.joined, serverID)
	s.activeServer = serverID
	if len(srv.Channels) > 0 {
		s.activeChannel = srv.Channels[0].ID
	}
	channelID := s.activeChannel
	subs := s.subs()
	s.mu.Unlock()

	s.publish(subs,
		Event{Type: EventServerJoined, ServerID: serverID},
		Event{Type: EventSelection, ServerID: serverID, ChannelID: channelID},
	)
	return nil
}

// OpenOrCreateDirectChannel returns the DM channel with the target, creating
// it on first use, and selects it.
func (s *Store) OpenOrCreateDirectChannel(targetUserID string) (models.Channel, error) {
	s.mu.Lock()
	if targetUserID == s.self.ID {
		s.mu.Unlock()
		return models.Channel{}, ErrSelfDirect
	}

	var events []Event
	channel, found := models.Channel{}, false
	for _, c := range s.dms {
		if c.HasParticipant(targetUserID) {
			channel, found = c, true
			break
		}
	}
	if !found {
		target, ok := s.findUserLocked(targetUserID)
		if !ok {
			s.mu.Unlock()
			return models.Channel{}, ErrUserNotFound
		}
		channel = models.Channel{
			ID:           "dm-" + s.newID(),
			Name:         target.Name,
			Type:         models.ChannelDM,
			Participants: []string{s.self.ID, target.ID},
		}
		s.dms = append(s.dms, channel)
		created := cloneChannel(channel)
		events = append(events, Event{Type: EventDirectChannel, ServerID: models.HomeServerID, Channel: &created})
	}

	s.activeServer = models.HomeServerID
	s.activeChannel = channel.ID
	events = append(events, Event{Type: EventSelection, ServerID: models.HomeServerID, ChannelID: channel.ID})
	subs := s.subs()
	s.mu.Unlock()

	s.publish(subs, events...)
	return cloneChannel(channel), nil
}

// SelectChannel moves the selection without validating it; Active resolves
// whatever it points at.
func (s *Store) SelectChannel(serverID, channelID string) {
	s.mu.Lock()
	s.activeServer = serverID
	s.activeChannel = channelID
	subs := s.subs()
	s.mu.Unlock()

	s.publish(subs, Event{Type: EventSelection, ServerID: serverID, ChannelID: channelID})
}

func (s *Store) Active() ActiveView {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.activeLocked()
}

func (s *Store) activeLocked() ActiveView {
	if s.activeServer == models.HomeServerID {
		home := s.homeLocked()
		if c, ok := home.FindChannel(s.activeChannel); ok {
			return ActiveView{Server: home, Channel: c}
		}
		return ActiveView{Server: home, Channel: models.Channel{ID: placeholderDMID, Name: placeholderDMTag, Type: models.ChannelDM}}
	}

	srv, ok := s.serverLocked(s.activeServer)
	if !ok {
		if len(s.servers) == 0 {
			return ActiveView{}
		}
		srv = s.servers[0]
	}
	srv = cloneServer(srv)
	if c, ok := srv.FindChannel(s.activeChannel); ok {
		return ActiveView{Server: srv, Channel: c}
	}
	if len(srv.Channels) > 0 {
		return ActiveView{Server: srv, Channel: srv.Channels[0]}
	}
	return ActiveView{Server: srv}
}

func (s *Store) homeLocked() models.Server {
	channels := make([]models.Channel, len(s.dms))
	for i, c := range s.dms {
		channels[i] = cloneChannel(c)
	}
	return models.Server{
		ID:          models.HomeServerID,
		Name:        homeServerName,
		Channels:    channels,
		AllowImages: true,
		Kind:        models.RoomBot,
	}
}

// Messages returns a copy of the channel's sequence in append order.
func (s *Store) Messages(channelID string) []models.Message {
	s.mu.RLock()
	defer s.mu.RUnlock()

	msgs := s.messages[channelID]
	out := make([]models.Message, len(msgs))
	for i, m := range msgs {
		out[i] = m.Clone()
	}
	return out
}

// LastMessage returns the tail of the channel.
func (s *Store) LastMessage(channelID string) (models.Message, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	msgs := s.messages[channelID]
	if len(msgs) == 0 {
		return models.Message{}, false
	}
	return msgs[len(msgs)-1].Clone(), true
}

// ResolveUser looks the id up in the session user, the active roster and
// then every roster, degrading to the Unknown placeholder.
func (s *Store) ResolveUser(userID string) models.User {
	if u, ok := s.FindUser(userID); ok {
		return u
	}
	return models.UnknownUser(userID)
}

func (s *Store) FindUser(userID string) (models.User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.findUserLocked(userID)
}

func (s *Store) findUserLocked(userID string) (models.User, bool) {
	if userID == s.self.ID {
		return s.self, true
	}
	if srv, ok := s.serverLocked(s.activeServer); ok {
		if u, ok := srv.FindUser(userID); ok {
			return u, true
		}
	}
	for _, srv := range s.servers {
		if u, ok := srv.FindUser(userID); ok {
			return u, true
		}
	}
	return models.User{}, false
}

func (s *Store) Self() models.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.self
}

// UpdateProfile applies patch to the session user.
func (s *Store) UpdateProfile(patch ProfilePatch) models.User {
	s.mu.Lock()
	applyPatch(&s.self, patch)
	self := s.self
	subs := s.subs()
	s.mu.Unlock()

	s.publish(subs, Event{Type: EventProfile, User: &self})
	return self
}

func applyPatch(u *models.User, p ProfilePatch) {
	set := func(dst *string, src *string) {
		if src != nil {
			*dst = *src
		}
	}
	set(&u.Name, p.Name)
	set(&u.Bio, p.Bio)
	set(&u.Color, p.Color)
	set(&u.Frame, p.Frame)
	set(&u.Font, p.Font)
	set(&u.Avatar, p.Avatar)
	set(&u.Banner, p.Banner)
	set(&u.Country, p.Country)
	if p.Status != nil {
		u.Status = *p.Status
	}
}

// UpdateUser replaces the user with the same id in every roster.
func (s *Store) UpdateUser(user models.User) bool {
	s.mu.Lock()
	found := false
	if user.ID == s.self.ID {
		s.self = user
		found = true
	}
	for i := range s.servers {
		for j := range s.servers[i].Users {
			if s.servers[i].Users[j].ID == user.ID {
				s.servers[i].Users[j] = user
				found = true
			}
		}
	}
	subs := s.subs()
	s.mu.Unlock()

	if found {
		s.publish(subs, Event{Type: EventProfile, User: &user})
	}
	return found
}

// AddNPC puts a bot persona into the active server's roster, or into the
// default server while the DM pseudo-room is active. It returns the server
// the persona landed in.
func (s *Store) AddNPC(npc models.User) (string, error) {
	s.mu.RLock()
	target := s.activeServer
	if target == models.HomeServerID {
		target = defaultNPCServer
	} else if _, ok := s.serverLocked(target); !ok && len(s.servers) > 0 {
		target = s.servers[0].ID
	}
	s.mu.RUnlock()

	npc.IsBot = true
	if err := s.AddUser(target, npc); err != nil {
		return "", err
	}
	return target, nil
}

const defaultNPCServer = "nightlov"

// AddUser appends a user to a server roster.
func (s *Store) AddUser(serverID string, user models.User) error {
	s.mu.Lock()
	for i := range s.servers {
		if s.servers[i].ID != serverID {
			continue
		}
		s.servers[i].Users = append(s.servers[i].Users, user)
		subs := s.subs()
		s.mu.Unlock()

		s.publish(subs, Event{Type: EventRoster, ServerID: serverID, User: &user})
		return nil
	}
	s.mu.Unlock()
	return ErrServerNotFound
}

// Servers returns a copy of the catalog.
func (s *Store) Servers() []models.Server {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.Server, len(s.servers))
	for i, srv := range s.servers {
		out[i] = cloneServer(srv)
	}
	return out
}

func (s *Store) Server(serverID string) (models.Server, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if serverID == models.HomeServerID {
		return s.homeLocked(), true
	}
	srv, ok := s.serverLocked(serverID)
	if !ok {
		return models.Server{}, false
	}
	return cloneServer(srv), true
}

func (s *Store) Joined(serverID string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, id := range s.joined {
		if id == serverID {
			return true
		}
	}
	return false
}

// ChannelExists reports whether a server channel or DM channel has this id.
func (s *Store) ChannelExists(channelID string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.channelExistsLocked(channelID)
}

func (s *Store) channelExistsLocked(channelID string) bool {
	for _, c := range s.dms {
		if c.ID == channelID {
			return true
		}
	}
	for _, srv := range s.servers {
		if _, ok := srv.FindChannel(channelID); ok {
			return true
		}
	}
	return false
}

func (s *Store) serverLocked(serverID string) (models.Server, bool) {
	for _, srv := range s.servers {
		if srv.ID == serverID {
			return srv, true
		}
	}
	return models.Server{}, false
}

// BeginTyping raises the typing indicator. Each call must be paired with
// EndTyping; the indicator stays up until every holder released it.
func (s *Store) BeginTyping() {
	s.mu.Lock()
	s.typing++
	rising := s.typing == 1
	subs := s.subs()
	s.mu.Unlock()

	if rising {
		s.publish(subs, Event{Type: EventTyping, Typing: true})
	}
}

func (s *Store) EndTyping() {
	s.mu.Lock()
	if s.typing == 0 {
		s.mu.Unlock()
		return
	}
	s.typing--
	falling := s.typing == 0
	subs := s.subs()
	s.mu.Unlock()

	if falling {
		s.publish(subs, Event{Type: EventTyping, Typing: false})
	}
}

func (s *Store) Typing() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.typing > 0
}

func (s *Store) Snapshot() State {
	s.mu.RLock()
	defer s.mu.RUnlock()

	joined := make([]string, len(s.joined))
	copy(joined, s.joined)
	dms := make([]models.Channel, len(s.dms))
	for i, c := range s.dms {
		dms[i] = cloneChannel(c)
	}
	return State{
		Self:       s.self,
		Active:     s.activeLocked(),
		JoinedIDs:  joined,
		DMChannels: dms,
		Typing:     s.typing > 0,
	}
}

func cloneChannel(c models.Channel) models.Channel {
	if c.Participants != nil {
		p := make([]string, len(c.Participants))
		copy(p, c.Participants)
		c.Participants = p
	}
	return c
}

func cloneServer(srv models.Server) models.Server {
	channels := make([]models.Channel, len(srv.Channels))
	for i, c := range srv.Channels {
		channels[i] = cloneChannel(c)
	}
	users := make([]models.User, len(srv.Users))
	copy(users, srv.Users)
	srv.Channels = channels
	srv.Users = users
	return srv
}
