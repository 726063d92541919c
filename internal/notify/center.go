// Package notify keeps the signed-in user's notification list in sync with
// the backend and decides where a selected notification leads.
package notify

import (
	"context"
	"errors"
	"fmt"
	"net/http/httptrace"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/nemukerja/nemukerja-tui/internal/model"
)

var (
	// ErrStale is returned by Load when a newer fetch was applied first.
	ErrStale = errors.New("stale notification response")

	// ErrRejected is returned when the backend answered {success:false}.
	ErrRejected = errors.New("backend rejected the request")
)

// Backend is the part of the API client the center needs.
type Backend interface {
	JobResolver
	ListNotifications(ctx context.Context) ([]model.Notification, error)
	MarkNotificationRead(ctx context.Context, id model.ID) (model.MutationResult, error)
	MarkAllNotificationsRead(ctx context.Context) (model.MutationResult, error)
	ClearAllNotifications(ctx context.Context) (model.MutationResult, error)
}

// Snapshot is a copy of the last applied state.
type Snapshot struct {
	Items    []model.Notification
	Unread   int
	Loaded   bool
	Seq      uint64
	SyncedAt time.Time
	LastErr  error
}

// Center holds the last successfully fetched list. Every fetch reserves a
// sequence number when it is issued; a response is applied only if no
// later-issued fetch has been applied already.
type Center struct {
	backend Backend
	log     zerolog.Logger
	now     func() time.Time

	mu         sync.Mutex
	items      []model.Notification
	unread     int
	loaded     bool
	issuedSeq  uint64
	appliedSeq uint64
	syncedAt   time.Time
	lastErr    error
}

// Option configures a Center.
type Option func(*Center)

// WithLogger sets the diagnostics logger.
func WithLogger(l zerolog.Logger) Option {
	return func(c *Center) { c.log = l }
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(c *Center) { c.now = now }
}

// NewCenter creates an empty center over backend.
func NewCenter(backend Backend, opts ...Option) *Center {
	c := &Center{
		backend: backend,
		log:     zerolog.Nop(),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Backend returns the backend the center talks to.
func (c *Center) Backend() Backend {
	return c.backend
}

// Snapshot returns a copy of the current state.
func (c *Center) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	items := make([]model.Notification, len(c.items))
	copy(items, c.items)
	return Snapshot{
		Items:    items,
		Unread:   c.unread,
		Loaded:   c.loaded,
		Seq:      c.appliedSeq,
		SyncedAt: c.syncedAt,
		LastErr:  c.lastErr,
	}
}

// Unread returns the badge value.
func (c *Center) Unread() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.unread
}

// Load fetches the list and, if it is the newest response so far, replaces
// the current state. On failure the previous state is kept and the error
// is returned.
func (c *Center) Load(ctx context.Context) error {
	c.mu.Lock()
	c.issuedSeq++
	seq := c.issuedSeq
	c.mu.Unlock()

	list, err := c.backend.ListNotifications(ctx)

	c.mu.Lock()
	defer c.mu.Unlock()

	if err != nil {
		c.lastErr = err
		c.log.Warn().Err(err).Uint64("seq", seq).Msg("loading notifications")
		return fmt.Errorf("loading notifications: %w", err)
	}
	if seq < c.appliedSeq {
		c.log.Debug().
			Uint64("seq", seq).
			Uint64("applied", c.appliedSeq).
			Msg("discarding stale notification response")
		return ErrStale
	}

	c.items = list
	c.unread = model.CountUnread(list)
	c.loaded = true
	c.appliedSeq = seq
	c.syncedAt = c.now()
	c.lastErr = nil
	return nil
}

// MarkRead marks one notification read and re-fetches on success.
func (c *Center) MarkRead(ctx context.Context, id model.ID) error {
	res, err := c.backend.MarkNotificationRead(ctx, id)
	if err != nil {
		c.log.Error().Err(err).Str("notification_id", id.String()).Msg("marking notification read")
		return err
	}
	if !res.Success {
		c.log.Warn().Str("notification_id", id.String()).Str("message", res.Message).Msg("mark read rejected")
		return fmt.Errorf("marking notification %s read: %w", id, ErrRejected)
	}
	return c.reload(ctx)
}

// MarkAllRead marks every notification read and re-fetches on success.
func (c *Center) MarkAllRead(ctx context.Context) error {
	res, err := c.backend.MarkAllNotificationsRead(ctx)
	if err != nil {
		c.log.Error().Err(err).Msg("marking all notifications read")
		return err
	}
	if !res.Success {
		c.log.Warn().Str("message", res.Message).Msg("mark all read rejected")
		return fmt.Errorf("marking all notifications read: %w", ErrRejected)
	}
	return c.reload(ctx)
}

// ClearOutcome is what the user is told after a clear-all attempt.
type ClearOutcome int

const (
	// ClearUnknown means the request failed in transport; nothing is shown.
	ClearUnknown ClearOutcome = iota
	// ClearDeclined means the user did not confirm; no request was sent.
	ClearDeclined
	// ClearSucceeded means the list was cleared and re-fetched.
	ClearSucceeded
	// ClearFailed means the backend reported failure.
	ClearFailed
)

// Confirmed is a confirmation that always agrees. Use it when the caller
// has already asked the user.
func Confirmed() bool { return true }

// ClearAll deletes every notification after confirm agrees. A nil confirm
// is treated as declined.
func (c *Center) ClearAll(ctx context.Context, confirm func() bool) (ClearOutcome, error) {
	if confirm == nil || !confirm() {
		return ClearDeclined, nil
	}

	res, err := c.backend.ClearAllNotifications(ctx)
	if err != nil {
		c.log.Error().Err(err).Msg("clearing notifications")
		return ClearUnknown, err
	}
	if !res.Success {
		c.log.Warn().Str("message", res.Message).Msg("clear all rejected")
		return ClearFailed, nil
	}
	if err := c.reload(ctx); err != nil {
		c.log.Warn().Err(err).Msg("reloading after clear")
	}
	return ClearSucceeded, nil
}

// reload re-fetches after a mutation. A stale result means a newer fetch
// already landed, which is just as good.
func (c *Center) reload(ctx context.Context) error {
	if err := c.Load(ctx); err != nil && !errors.Is(err, ErrStale) {
		return err
	}
	return nil
}

// Select handles a click on n. It issues the mark-read request first and
// dispatches as soon as the request has been written, without waiting for
// the response. The returned channel yields the mark-read outcome (after
// the follow-up re-fetch) exactly once.
func (c *Center) Select(
	ctx context.Context,
	n model.Notification,
	page model.PageContext,
) (Action, <-chan error) {
	done := make(chan error, 1)
	issued := make(chan struct{})

	var once sync.Once
	markIssued := func() { once.Do(func() { close(issued) }) }

	trace := &httptrace.ClientTrace{
		WroteRequest: func(httptrace.WroteRequestInfo) { markIssued() },
	}
	markCtx := httptrace.WithClientTrace(ctx, trace)

	go func() {
		// Backends that never write a request still unblock dispatch.
		defer markIssued()
		done <- c.MarkRead(markCtx, n.ID)
	}()

	select {
	case <-issued:
	case <-ctx.Done():
	}

	action := Dispatch(ctx, n, page, c.backend)
	c.log.Debug().
		Str("notification_id", n.ID.String()).
		Str("type", string(n.Type)).
		Str("related_id", n.RelatedID.String()).
		Stringer("action", action.Kind).
		Msg("notification selected")
	return action, done
}
