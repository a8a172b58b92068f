package render

import (
	"context"
	"sync"
	"time"
)

// DefaultInterval is the time between automatic step advances.
const DefaultInterval = time.Second

// Animator drives a Renderer through its time steps.
type Animator struct {
	r      *Renderer
	mu     sync.Mutex
	paused bool
}

func NewAnimator(r *Renderer) *Animator {
	return &Animator{r: r}
}

// Tick advances one step unless paused.
func (a *Animator) Tick() error {
	if a.Paused() {
		return nil
	}
	return a.r.Advance(1)
}

// Step moves by delta regardless of the paused state.
func (a *Animator) Step(delta int) error { return a.r.Advance(delta) }

func (a *Animator) Pause()  { a.setPaused(true) }
func (a *Animator) Resume() { a.setPaused(false) }

// Toggle flips the paused state and reports the new one.
func (a *Animator) Toggle() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.paused = !a.paused
	return a.paused
}

func (a *Animator) Paused() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.paused
}

func (a *Animator) setPaused(p bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.paused = p
}

// Run ticks every interval until ctx is done. A non-positive interval uses
// DefaultInterval.
func (a *Animator) Run(ctx context.Context, interval time.Duration) error {
	if interval <= 0 {
		interval = DefaultInterval
	}
	if !a.r.Loaded() {
		return ErrNotLoaded
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if err := a.Tick(); err != nil {
				return err
			}
		}
	}
}
