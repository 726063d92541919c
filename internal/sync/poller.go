package sync

import (
	"context"
	"errors"
	gosync "sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"

	"github.com/nemukerja/nemukerja-tui/internal/api"
	"github.com/nemukerja/nemukerja-tui/internal/notify"
)

// SyncState represents the current state of the notification poll.
type SyncState int

const (
	SyncIdle SyncState = iota
	SyncRunning
	SyncError
)

// SyncStatus holds the poll state.
type SyncStatus struct {
	State    SyncState
	LastSync time.Time
	Error    error
}

// SyncResultMsg is a tea.Msg sent when a poll completes.
type SyncResultMsg struct {
	Error     error
	AuthError bool
	Stale     bool
	At        time.Time
}

// Loader fetches and applies the notification list.
type Loader interface {
	Load(ctx context.Context) error
}

// fetchTimeout is the maximum time allowed for a single fetch operation.
const fetchTimeout = 30 * time.Second

// DefaultInterval is the poll period when none is configured.
const DefaultInterval = 30 * time.Second

// Poller refreshes the notification list on a fixed interval, starting
// with an immediate fetch, until it is stopped.
type Poller struct {
	loader    Loader
	interval  time.Duration
	log       zerolog.Logger
	status    SyncStatus
	resultCh  chan SyncResultMsg
	triggerCh chan struct{}
	stopCh    chan struct{}
	cancel    context.CancelFunc
	wg        gosync.WaitGroup
	mu        gosync.Mutex
	running   bool
}

// New creates a Poller over loader. A non-positive interval uses
// DefaultInterval.
func New(loader Loader, interval time.Duration, log zerolog.Logger) *Poller {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Poller{
		loader:    loader,
		interval:  interval,
		log:       log,
		resultCh:  make(chan SyncResultMsg, 16),
		triggerCh: make(chan struct{}, 1),
	}
}

// Interval returns the poll period.
func (p *Poller) Interval() time.Duration {
	return p.interval
}

// Start returns a tea.Cmd that starts the polling goroutine and
// subscribes to results. Calling Start on a running poller returns nil.
func (p *Poller) Start() tea.Cmd {
	p.mu.Lock()
	if p.running {
		p.mu.Unlock()
		return nil
	}
	p.running = true
	p.stopCh = make(chan struct{})
	ctx, cancel := context.WithCancel(context.Background())
	p.cancel = cancel
	stopCh := p.stopCh
	p.mu.Unlock()

	p.wg.Add(1)
	go p.poll(ctx, stopCh)

	return p.waitForResult()
}

// Stop halts the polling goroutine and cancels an in-flight fetch. It is
// safe to call more than once.
func (p *Poller) Stop() {
	p.mu.Lock()
	if !p.running {
		p.mu.Unlock()
		return
	}
	close(p.stopCh)
	p.cancel()
	p.running = false
	p.mu.Unlock()

	p.wg.Wait()
}

// Running reports whether the poller is active.
func (p *Poller) Running() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.running
}

// Refresh triggers an immediate poll. Triggers coalesce while one is
// pending.
func (p *Poller) Refresh() tea.Cmd {
	select {
	case p.triggerCh <- struct{}{}:
	default:
	}
	return nil
}

// Status returns the current poll status.
func (p *Poller) Status() SyncStatus {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.status
}

// poll runs the polling loop.
func (p *Poller) poll(ctx context.Context, stopCh chan struct{}) {
	defer p.wg.Done()

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	// Do an initial fetch immediately
	p.fetch(ctx)

	for {
		select {
		case <-stopCh:
			return
		case <-ticker.C:
			p.fetch(ctx)
		case <-p.triggerCh:
			p.fetch(ctx)
		}
	}
}

// fetch performs a single load and sends a SyncResultMsg on the result
// channel.
func (p *Poller) fetch(parent context.Context) {
	p.setStatus(SyncRunning, nil)

	ctx, cancel := context.WithTimeout(parent, fetchTimeout)
	defer cancel()

	err := p.loader.Load(ctx)
	now := time.Now()

	switch {
	case err == nil:
		p.setStatus(SyncIdle, nil)
		p.sendResult(SyncResultMsg{At: now})

	case errors.Is(err, notify.ErrStale):
		p.setStatus(SyncIdle, nil)
		p.sendResult(SyncResultMsg{Stale: true, At: now})

	case parent.Err() != nil:
		// Stopped mid-fetch; nobody is listening for this one.
		return

	default:
		p.setStatus(SyncError, err)
		p.log.Warn().Err(err).Msg("notification poll failed")
		p.sendResult(SyncResultMsg{Error: err, AuthError: api.IsAuthError(err), At: now})
	}
}

// setStatus updates the poll status.
func (p *Poller) setStatus(state SyncState, err error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.status.State = state
	p.status.Error = err
	if state == SyncIdle && err == nil {
		p.status.LastSync = time.Now()
	}
}

// sendResult sends a SyncResultMsg on the result channel without blocking.
func (p *Poller) sendResult(msg SyncResultMsg) {
	select {
	case p.resultCh <- msg:
	default:
		// Drop if channel is full to avoid blocking the poller
	}
}

// waitForResult returns a tea.Cmd that waits for the next result from
// the result channel.
func (p *Poller) waitForResult() tea.Cmd {
	return func() tea.Msg {
		result, ok := <-p.resultCh
		if !ok {
			return nil
		}
		return result
	}
}

// WaitForNextResult returns a tea.Cmd that waits for the next sync result.
// This should be called after processing a SyncResultMsg to continue
// listening for future results.
func (p *Poller) WaitForNextResult() tea.Cmd {
	return p.waitForResult()
}
