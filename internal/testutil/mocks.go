// Package testutil holds fakes shared by package tests.
package testutil

import (
	"context"
	"sync"

	"github.com/thereayou/rawrchat/internal/models"
	"github.com/thereayou/rawrchat/internal/services"
)

// ScriptedRand replays queued draws. An exhausted queue yields 0 and the
// last float, which keeps long-running loops deterministic.
type ScriptedRand struct {
	mu     sync.Mutex
	Ints   []int
	Floats []float64
}

func (r *ScriptedRand) Intn(n int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.Ints) == 0 {
		return 0
	}
	v := r.Ints[0]
	r.Ints = r.Ints[1:]
	return v % n
}

func (r *ScriptedRand) Float64() float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.Floats) == 0 {
		return 0.99
	}
	v := r.Floats[0]
	r.Floats = r.Floats[1:]
	return v
}

// FakeGenerator records requests and answers with the first candidate bot.
type FakeGenerator struct {
	mu       sync.Mutex
	Requests []services.GenerateRequest
	Text     string
	Err      error
	// Empty makes every call return a nil reply.
	Empty bool
	// Block, when set, holds each call until it is closed or ctx ends.
	Block chan struct{}
	// Started receives a value when a call begins.
	Started chan struct{}
}

func (g *FakeGenerator) GenerateReply(ctx context.Context, req services.GenerateRequest) (*services.Reply, error) {
	g.mu.Lock()
	g.Requests = append(g.Requests, req)
	block, started := g.Block, g.Started
	g.mu.Unlock()

	if started != nil {
		started <- struct{}{}
	}
	if block != nil {
		select {
		case <-block:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	if g.Err != nil {
		return nil, g.Err
	}
	if g.Empty {
		return nil, nil
	}
	for _, c := range req.Candidates {
		if c.IsBot {
			text := g.Text
			if text == "" {
				text = "rawr xD"
			}
			return &services.Reply{SpeakerID: c.ID, Text: text}, nil
		}
	}
	return nil, nil
}

func (g *FakeGenerator) Calls() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.Requests)
}

func (g *FakeGenerator) Last() services.GenerateRequest {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.Requests[len(g.Requests)-1]
}

type SpeechCall struct {
	Text        string
	Gender      string
	Personality models.Personality
}

type FakeSpeaker struct {
	mu    sync.Mutex
	Calls []SpeechCall
	URI   string
	Err   error
}

func (s *FakeSpeaker) Synthesize(_ context.Context, text, gender string, personality models.Personality) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Calls = append(s.Calls, SpeechCall{Text: text, Gender: gender, Personality: personality})
	if s.Err != nil {
		return "", s.Err
	}
	return s.URI, nil
}

func (s *FakeSpeaker) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.Calls)
}
