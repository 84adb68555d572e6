package dto

import "github.com/thereayou/rawrchat/internal/models"

// MessagePayload структура для входящих сообщений (HTTP и WebSocket)
type MessagePayload struct {
	Content string `json:"content"`
	Image   string `json:"image,omitempty"`
}

type ReactionPayload struct {
	ChannelID string `json:"channelId"`
	MessageID string `json:"messageId"`
	Emoji     string `json:"emoji" binding:"required"`
}

type SelectionPayload struct {
	ServerID  string `json:"serverId" binding:"required"`
	ChannelID string `json:"channelId"`
}

type DirectRequest struct {
	UserID string `json:"userId" binding:"required"`
}

type NPCRequest struct {
	Name        string             `json:"name" binding:"required,min=1,max=32"`
	Bio         string             `json:"bio"`
	Gender      string             `json:"gender"`
	Personality models.Personality `json:"personality" binding:"omitempty,oneof=sad romantic tsundere yandere extrovert introvert normal"`
	Avatar      string             `json:"avatar"`
	Color       string             `json:"color"`
	Font        string             `json:"font"`
	Frame       string             `json:"frame"`
}

// MessageResponse структура для исходящих сообщений, с автором
type MessageResponse struct {
	models.Message
	Author models.User `json:"author"`
}

type ReactionResponse struct {
	MessageID string `json:"messageId"`
	Emoji     string `json:"emoji"`
	Count     int    `json:"count"`
}

type ServerResponse struct {
	models.Server
	Joined bool `json:"joined"`
}
