package store

import "github.com/thereayou/rawrchat/internal/models"

type EventType string

const (
	EventMessage       EventType = "message"
	EventReaction      EventType = "reaction"
	EventSelection     EventType = "selection"
	EventTyping        EventType = "typing"
	EventProfile       EventType = "profile"
	EventServerJoined  EventType = "server_joined"
	EventDirectChannel EventType = "direct_channel"
	EventRoster        EventType = "roster"
)

// Event describes one committed change. Only the fields relevant to Type
// are set.
type Event struct {
	Type      EventType       `json:"type"`
	ServerID  string          `json:"serverId,omitempty"`
	ChannelID string          `json:"channelId,omitempty"`
	Message   *models.Message `json:"message,omitempty"`
	MessageID string          `json:"messageId,omitempty"`
	Emoji     string          `json:"emoji,omitempty"`
	Count     int             `json:"count,omitempty"`
	Typing    bool            `json:"typing"`
	User      *models.User    `json:"user,omitempty"`
	Channel   *models.Channel `json:"channel,omitempty"`
}

// Subscriber receives events after the store lock is released. It must not
// block.
type Subscriber func(Event)
