// Package openaitest provides a scripted completion client for tests.
package openaitest

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/foundrr/foundrr-backend/internal/platform/openai"
)

// Scripted replays fixed chunks. Err, when set, is returned after
// FailAfter chunks have been delivered.
type Scripted struct {
	Chunks    []string
	Err       error
	FailAfter int

	mu      sync.Mutex
	Systems []string
	Users   []string
}

var _ openai.Client = (*Scripted)(nil)

func (s *Scripted) record(system, user string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Systems = append(s.Systems, system)
	s.Users = append(s.Users, user)
}

func (s *Scripted) StreamChat(ctx context.Context, system, user string, onDelta func(string) error) (openai.Completion, error) {
	s.record(system, user)
	var b strings.Builder
	for i, c := range s.Chunks {
		if s.Err != nil && i == s.FailAfter {
			return openai.Completion{}, fmt.Errorf("%w: scripted: %w", openai.ErrUpstream, s.Err)
		}
		if err := ctx.Err(); err != nil {
			return openai.Completion{}, fmt.Errorf("%w: scripted: %w", openai.ErrUpstream, err)
		}
		b.WriteString(c)
		if err := onDelta(c); err != nil {
			return openai.Completion{}, fmt.Errorf("%w: deliver delta: %w", openai.ErrUpstream, err)
		}
	}
	if s.Err != nil && s.FailAfter >= len(s.Chunks) {
		return openai.Completion{}, fmt.Errorf("%w: scripted: %w", openai.ErrUpstream, s.Err)
	}
	return openai.Completion{Text: b.String(), Model: "scripted"}, nil
}

func (s *Scripted) Chat(ctx context.Context, system, user string) (openai.Completion, error) {
	s.record(system, user)
	if s.Err != nil {
		return openai.Completion{}, fmt.Errorf("%w: scripted: %w", openai.ErrUpstream, s.Err)
	}
	return openai.Completion{Text: strings.Join(s.Chunks, ""), Model: "scripted"}, nil
}
