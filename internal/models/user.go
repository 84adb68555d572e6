package models

import "time"

type Personality string

const (
	PersonalitySad       Personality = "sad"
	PersonalityRomantic  Personality = "romantic"
	PersonalityTsundere  Personality = "tsundere"
	PersonalityYandere   Personality = "yandere"
	PersonalityExtrovert Personality = "extrovert"
	PersonalityIntrovert Personality = "introvert"
	PersonalityNormal    Personality = "normal"
)

var Personalities = []Personality{
	PersonalitySad,
	PersonalityRomantic,
	PersonalityTsundere,
	PersonalityYandere,
	PersonalityExtrovert,
	PersonalityIntrovert,
	PersonalityNormal,
}

func (p Personality) Valid() bool {
	for _, known := range Personalities {
		if p == known {
			return true
		}
	}
	return false
}

// OrNormal returns p, or normal when p is empty or unknown.
func (p Personality) OrNormal() Personality {
	if p.Valid() {
		return p
	}
	return PersonalityNormal
}

type Status string

const (
	StatusOnline  Status = "online"
	StatusIdle    Status = "idle"
	StatusDND     Status = "dnd"
	StatusOffline Status = "offline"
)

type User struct {
	ID          string      `gorm:"primaryKey" json:"id"`
	Name        string      `gorm:"not null" json:"name"`
	Avatar      string      `json:"avatar"`
	Banner      string      `json:"banner,omitempty"`
	Status      Status      `gorm:"default:'online'" json:"status"`
	Color       string      `json:"color"`
	IsBot       bool        `json:"isBot"`
	Bio         string      `json:"bio,omitempty"`
	Font        string      `json:"font,omitempty"`
	Age         string      `json:"age,omitempty"`
	Gender      string      `json:"gender,omitempty"`
	Country     string      `json:"country,omitempty"`
	Frame       string      `json:"frame,omitempty"`
	Personality Personality `json:"personality,omitempty"`
}

// UnknownUser is what a message author degrades to when no roster knows it.
func UnknownUser(id string) User {
	return User{
		ID:     id,
		Name:   "Unknown",
		Status: StatusOffline,
		Color:  "#aaaaaa",
	}
}

// NPC is a user-created bot persona persisted across restarts.
type NPC struct {
	User      `gorm:"embedded"`
	ServerID  string `gorm:"index;not null"`
	CreatedAt time.Time
}

func (NPC) TableName() string {
	return "npcs"
}
