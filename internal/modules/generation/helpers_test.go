package generation

import (
	"bytes"
	"context"
	"errors"
	"sync"

	"github.com/foundrr/foundrr-backend/internal/data/repos"
	types "github.com/foundrr/foundrr-backend/internal/domain"
	"github.com/foundrr/foundrr-backend/internal/platform/dbctx"
	"github.com/foundrr/foundrr-backend/internal/realtime"
)

type recorder struct {
	mu      sync.Mutex
	buf     bytes.Buffer
	flushes int
	// failAt makes the Nth write (1-based) fail; 0 never fails.
	failAt int
	writes int
}

func (r *recorder) Write(p []byte) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.writes++
	if r.failAt > 0 && r.writes >= r.failAt {
		return 0, errors.New("broken pipe")
	}
	return r.buf.Write(p)
}

func (r *recorder) Flush() {
	r.mu.Lock()
	r.flushes++
	r.mu.Unlock()
}

func (r *recorder) Started() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.buf.Len() > 0
}

func (r *recorder) String() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.buf.String()
}

type recordingPublisher struct {
	mu   sync.Mutex
	msgs []realtime.SSEMessage
	err  error
}

func (p *recordingPublisher) Publish(ctx context.Context, msg realtime.SSEMessage) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.msgs = append(p.msgs, msg)
	return nil
}

func (p *recordingPublisher) messages(event realtime.SSEEvent) []realtime.SSEMessage {
	p.mu.Lock()
	defer p.mu.Unlock()
	var out []realtime.SSEMessage
	for _, m := range p.msgs {
		if m.Event == event {
			out = append(out, m)
		}
	}
	return out
}

// flakyRepo fails Create with each queued error before delegating.
type flakyRepo struct {
	repos.SiteRepo
	mu         sync.Mutex
	createErrs []error
	creates    int
	deletes    int
}

func (r *flakyRepo) Create(dbc dbctx.Context, site *types.Site) (*types.Site, error) {
	r.mu.Lock()
	r.creates++
	var err error
	if len(r.createErrs) > 0 {
		err, r.createErrs = r.createErrs[0], r.createErrs[1:]
	}
	r.mu.Unlock()
	if err != nil {
		return nil, err
	}
	return r.SiteRepo.Create(dbc, site)
}

func (r *flakyRepo) Delete(dbc dbctx.Context, id string) error {
	r.mu.Lock()
	r.deletes++
	r.mu.Unlock()
	return r.SiteRepo.Delete(dbc, id)
}
