package panel

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

type PlayerLister interface {
	Players(ctx context.Context) ([]string, error)
}

// Roster is the player list shared by every panel. It is fetched once;
// until a fetch succeeds each Load tries again.
type Roster struct {
	loadMu sync.Mutex
	mu     sync.RWMutex
	lister PlayerLister
	log    *zap.SugaredLogger
	names  []string
	loaded bool
}

func NewRoster(lister PlayerLister, log *zap.SugaredLogger) *Roster {
	return &Roster{lister: lister, log: log}
}

// Names returns the current list. Callers must not modify it.
func (r *Roster) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.names
}

func (r *Roster) Loaded() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.loaded
}

// Load fetches the list unless it is already loaded. Concurrent callers
// share one fetch. A failure is logged and leaves the list as it was.
func (r *Roster) Load(ctx context.Context) {
	r.loadMu.Lock()
	defer r.loadMu.Unlock()
	if r.Loaded() {
		return
	}
	r.fetch(ctx)
}

// Reload fetches the list even if it is loaded.
func (r *Roster) Reload(ctx context.Context) {
	r.loadMu.Lock()
	defer r.loadMu.Unlock()
	r.fetch(ctx)
}

func (r *Roster) fetch(ctx context.Context) {
	names, err := r.lister.Players(ctx)
	if err != nil {
		r.log.Errorw("error fetching player list", "error", err)
		return
	}
	r.mu.Lock()
	r.names = names
	r.loaded = true
	r.mu.Unlock()
}

// Refresh reloads the list every interval until ctx is done.
func (r *Roster) Refresh(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.Reload(ctx)
		}
	}
}
