package generation

import (
	"errors"
	"strings"
	"sync"
)

var ErrDocumentFinalized = errors.New("document already finalized")

// Document accumulates raw model output while streaming. Code and Markup are
// set exactly once by Finalize.
type Document struct {
	mu        sync.Mutex
	raw       strings.Builder
	code      string
	markup    string
	finalized bool
}

func NewDocument() *Document { return &Document{} }

func (d *Document) Append(chunk string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.finalized {
		return ErrDocumentFinalized
	}
	d.raw.WriteString(chunk)
	return nil
}

func (d *Document) Raw() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.raw.String()
}

func (d *Document) Finalize(code, markup string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.finalized {
		return ErrDocumentFinalized
	}
	d.code = code
	d.markup = markup
	d.finalized = true
	return nil
}

func (d *Document) Code() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.code
}

func (d *Document) Markup() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.markup
}

func (d *Document) Finalized() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.finalized
}
