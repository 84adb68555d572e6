// Package gemini talks to the Gemini API for chat replies and speech.
package gemini

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"google.golang.org/genai"

	"github.com/thereayou/rawrchat/internal/models"
	"github.com/thereayou/rawrchat/internal/services"
	"github.com/thereayou/rawrchat/internal/util"
)

const (
	DefaultModel    = "gemini-2.5-flash"
	DefaultTTSModel = "gemini-2.5-flash-preview-tts"

	fallbackReply = "brb lag... (error)"
	emptyReply    = "..."
	audioPrefix   = "data:audio/mp3;base64,"
)

var ErrNoAPIKey = errors.New("gemini api key is not set")

// contentGenerator is the slice of *genai.Models the client needs.
type contentGenerator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

type Config struct {
	APIKey   string
	Model    string
	TTSModel string
	Timeout  time.Duration
}

type Client struct {
	models   contentGenerator
	rand     util.Rand
	log      *zap.Logger
	model    string
	ttsModel string
	timeout  time.Duration
}

var (
	_ services.Generator = (*Client)(nil)
	_ services.Speaker   = (*Client)(nil)
)

func NewClient(ctx context.Context, cfg Config, rnd util.Rand, logger *zap.Logger) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, ErrNoAPIKey
	}
	gc, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}
	return newClient(gc.Models, cfg, rnd, logger), nil
}

func newClient(m contentGenerator, cfg Config, rnd util.Rand, logger *zap.Logger) *Client {
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.TTSModel == "" {
		cfg.TTSModel = DefaultTTSModel
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	if rnd == nil {
		rnd = util.NewRand(time.Now().UnixNano())
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		models:   m,
		rand:     rnd,
		log:      logger.Named("gemini"),
		model:    cfg.Model,
		ttsModel: cfg.TTSModel,
		timeout:  cfg.Timeout,
	}
}

// GenerateReply picks one bot among the candidates and writes its line.
// API failures are logged and answered with a stock lag message so the room
// never goes silent on a hiccup.
func (c *Client) GenerateReply(ctx context.Context, req services.GenerateRequest) (*services.Reply, error) {
	bots := make([]models.User, 0, len(req.Candidates))
	for _, u := range req.Candidates {
		if u.IsBot {
			bots = append(bots, u)
		}
	}
	if len(bots) == 0 {
		return nil, nil
	}
	speaker := util.Pick(c.rand, bots)

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	resp, err := c.models.GenerateContent(ctx, c.model, []*genai.Content{{
		Role:  "user",
		Parts: []*genai.Part{{Text: buildPrompt(req, speaker)}},
	}}, nil)
	if err != nil {
		// A session shutting down is not worth a lag message.
		if errors.Is(ctx.Err(), context.Canceled) {
			return nil, err
		}
		c.log.Warn("generate content failed", zap.String("speaker", speaker.ID), zap.Error(err))
		return &services.Reply{SpeakerID: speaker.ID, Text: fallbackReply}, nil
	}

	text := strings.TrimSpace(responseText(resp))
	if text == "" {
		text = emptyReply
	}
	return &services.Reply{SpeakerID: speaker.ID, Text: text}, nil
}

// Synthesize voices text with a prebuilt voice matched to the speaker and
// returns it as a data URI. Any failure yields "".
func (c *Client) Synthesize(ctx context.Context, text, gender string, personality models.Personality) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	voice := VoiceFor(gender, personality)
	resp, err := c.models.GenerateContent(ctx, c.ttsModel, []*genai.Content{{
		Parts: []*genai.Part{{Text: text}},
	}}, &genai.GenerateContentConfig{
		ResponseModalities: []string{"AUDIO"},
		SpeechConfig: &genai.SpeechConfig{
			VoiceConfig: &genai.VoiceConfig{
				PrebuiltVoiceConfig: &genai.PrebuiltVoiceConfig{VoiceName: voice},
			},
		},
	})
	if err != nil {
		c.log.Warn("speech generation failed", zap.String("voice", voice), zap.Error(err))
		return "", nil
	}

	data := responseAudio(resp)
	if len(data) == 0 {
		return "", nil
	}
	return audioPrefix + base64.StdEncoding.EncodeToString(data), nil
}

func firstParts(resp *genai.GenerateContentResponse) []*genai.Part {
	if resp == nil || len(resp.Candidates) == 0 {
		return nil
	}
	cand := resp.Candidates[0]
	if cand == nil || cand.Content == nil {
		return nil
	}
	return cand.Content.Parts
}

func responseText(resp *genai.GenerateContentResponse) string {
	var sb strings.Builder
	for _, p := range firstParts(resp) {
		if p != nil && !p.Thought {
			sb.WriteString(p.Text)
		}
	}
	return sb.String()
}

func responseAudio(resp *genai.GenerateContentResponse) []byte {
	parts := firstParts(resp)
	if len(parts) == 0 || parts[0] == nil || parts[0].InlineData == nil {
		return nil
	}
	return parts[0].InlineData.Data
}
