package models

// HomeServerID is the direct-message pseudo-room.
const HomeServerID = "home"

type ChannelType string

const (
	ChannelText ChannelType = "text"
	ChannelDM   ChannelType = "dm"
)

type RoomKind string

const (
	RoomBot       RoomKind = "bot"
	RoomHuman     RoomKind = "human"
	RoomCommunity RoomKind = "community"
)

type Channel struct {
	ID           string      `json:"id"`
	Name         string      `json:"name"`
	Type         ChannelType `json:"type"`
	Description  string      `json:"description,omitempty"`
	Participants []string    `json:"participants,omitempty"`
}

// Peer returns the participant of a direct channel that is not self.
func (c Channel) Peer(self string) (string, bool) {
	for _, p := range c.Participants {
		if p != self {
			return p, true
		}
	}
	return "", false
}

func (c Channel) HasParticipant(userID string) bool {
	for _, p := range c.Participants {
		if p == userID {
			return true
		}
	}
	return false
}

type Server struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Icon        string    `json:"icon"`
	Channels    []Channel `json:"channels"`
	Users       []User    `json:"users"`
	AllowImages bool      `json:"allowImages"`
	Kind        RoomKind  `json:"type"`
}

// Bots returns the bot subset of the roster in roster order.
func (s Server) Bots() []User {
	bots := make([]User, 0, len(s.Users))
	for _, u := range s.Users {
		if u.IsBot {
			bots = append(bots, u)
		}
	}
	return bots
}

func (s Server) FindUser(id string) (User, bool) {
	for _, u := range s.Users {
		if u.ID == id {
			return u, true
		}
	}
	return User{}, false
}

func (s Server) FindChannel(id string) (Channel, bool) {
	for _, c := range s.Channels {
		if c.ID == id {
			return c, true
		}
	}
	return Channel{}, false
}

func (s Server) IsHome() bool {
	return s.ID == HomeServerID
}
