package models

import "time"

type Message struct {
	ID        string         `json:"id"`
	UserID    string         `json:"userId"`
	Content   string         `json:"content"`
	Timestamp string         `json:"timestamp"`
	CreatedAt time.Time      `json:"createdAt"`
	Image     string         `json:"image,omitempty"`
	Audio     string         `json:"audio,omitempty"`
	Reactions map[string]int `json:"reactions,omitempty"`
}

// Clone returns a copy that shares no reaction map with m.
func (m Message) Clone() Message {
	if m.Reactions != nil {
		reactions := make(map[string]int, len(m.Reactions))
		for emoji, count := range m.Reactions {
			reactions[emoji] = count
		}
		m.Reactions = reactions
	}
	return m
}

// DisplayTime formats t the way chat timestamps are shown.
func DisplayTime(t time.Time) string {
	return t.Format("15:04")
}
