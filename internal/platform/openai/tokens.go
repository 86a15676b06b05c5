package openai

import (
	"sync"
	"unicode/utf8"

	"github.com/pkoukk/tiktoken-go"
)

// tokenCounter estimates token counts when the provider omits usage.
// It falls back to runes/4 when no encoding is available.
type tokenCounter struct {
	model   string
	enabled bool

	once sync.Once
	enc  *tiktoken.Tiktoken
}

func newTokenCounter(model string, enabled bool) *tokenCounter {
	return &tokenCounter{model: model, enabled: enabled}
}

func (t *tokenCounter) encoding() *tiktoken.Tiktoken {
	if t == nil || !t.enabled {
		return nil
	}
	t.once.Do(func() {
		enc, err := tiktoken.EncodingForModel(t.model)
		if err != nil {
			enc, err = tiktoken.GetEncoding("cl100k_base")
		}
		if err == nil {
			t.enc = enc
		}
	})
	return t.enc
}

func (t *tokenCounter) Count(s string) int {
	if s == "" {
		return 0
	}
	if enc := t.encoding(); enc != nil {
		return len(enc.Encode(s, nil, nil))
	}
	n := utf8.RuneCountInString(s) / 4
	if n == 0 {
		n = 1
	}
	return n
}
