package chat

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"lens-agent/internal/application/port/input"
	"lens-agent/internal/application/port/output"
	"lens-agent/internal/domain/entity"
)

var (
	// ErrBusy rejects a submit while the previous turn is still in flight.
	ErrBusy = errors.New("chat: a reply is already in flight")
	// ErrClosed rejects a submit after the session was closed.
	ErrClosed = errors.New("chat: session closed")
)

const (
	DefaultWelcome    = "Welcome to Lens Agent"
	ThinkingText      = "Thinking..."
	FallbackErrorText = "Something went wrong. Please try again."
)

type State int

const (
	StateIdle State = iota
	StateAwaitingResponse
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateAwaitingResponse:
		return "awaiting_response"
	default:
		return "unknown"
	}
}

type Option func(*Session)

func WithWelcome(text string) Option {
	return func(s *Session) { s.welcome = text }
}

func WithClock(now func() time.Time) Option {
	return func(s *Session) { s.now = now }
}

// Session holds one conversation: the append-only log, the pending input
// and whether a turn is in flight. At most one turn runs at a time.
type Session struct {
	agent   input.ChatAgent
	logger  output.LoggerPort
	now     func() time.Time
	welcome string

	mu       sync.Mutex
	state    State
	pending  string
	messages []entity.ChatMessage
	nextID   int
	closed   bool
	subs     map[int]chan entity.Snapshot
	nextSub  int
	inflight sync.WaitGroup
}

func NewSession(agent input.ChatAgent, logger output.LoggerPort, opts ...Option) *Session {
	s := &Session{
		agent:   agent,
		logger:  logger,
		now:     time.Now,
		welcome: DefaultWelcome,
		subs:    make(map[int]chan entity.Snapshot),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.appendLocked(s.welcome, entity.OriginRemote)
	return s
}

// SetInput records the text currently typed by the user.
func (s *Session) SetInput(text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.pending == text {
		return
	}
	s.pending = text
	s.notifyLocked()
}

// Submit appends text as a Self message, clears the pending input and
// starts the reply in the background. It returns before the reply settles.
// The caller's cancellation does not reach the in-flight turn.
func (s *Session) Submit(ctx context.Context, text string) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ErrClosed
	}
	if s.state == StateAwaitingResponse {
		s.mu.Unlock()
		return ErrBusy
	}

	s.appendLocked(text, entity.OriginSelf)
	s.pending = ""
	s.state = StateAwaitingResponse
	s.inflight.Add(1)
	s.notifyLocked()
	s.mu.Unlock()

	go s.settle(context.WithoutCancel(ctx), text)
	return nil
}

// SubmitPending submits whatever is in the pending input.
func (s *Session) SubmitPending(ctx context.Context) error {
	s.mu.Lock()
	text := s.pending
	s.mu.Unlock()
	return s.Submit(ctx, text)
}

func (s *Session) settle(ctx context.Context, prompt string) {
	defer s.inflight.Done()

	reply, err := s.agent.Reply(ctx, prompt)

	s.mu.Lock()
	defer s.mu.Unlock()

	switch {
	case err != nil:
		text := entity.UserMessage(err)
		if text == "" {
			text = FallbackErrorText
		}
		s.logger.Error("Chat turn failed", "error", err)
		s.appendLocked(text, entity.OriginRemote)
	case reply == nil:
		s.logger.Warn("Chat agent returned no reply")
		s.appendLocked("", entity.OriginRemote)
	default:
		s.logger.Debug("Chat turn completed",
			"steps", reply.Steps,
			"toolCalls", reply.ToolCalls,
			"text", reply.Text)
		s.appendLocked(reply.Text, entity.OriginRemote)
	}

	s.state = StateIdle
	s.notifyLocked()
}

func (s *Session) appendLocked(text string, origin entity.Origin) {
	s.messages = append(s.messages, entity.ChatMessage{
		ID:        s.nextID,
		Text:      text,
		Origin:    origin,
		CreatedAt: s.now(),
	})
	s.nextID++
}

func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *Session) Snapshot() entity.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *Session) snapshotLocked() entity.Snapshot {
	messages := make([]entity.ChatMessage, len(s.messages))
	copy(messages, s.messages)
	return entity.Snapshot{
		PendingInput: s.pending,
		Busy:         s.state == StateAwaitingResponse,
		Messages:     messages,
	}
}

// View returns the rendered projection of the current state.
func (s *Session) View() View {
	return NewView(s.Snapshot())
}

// Subscribe delivers a snapshot after every change. A slow reader only
// ever sees the latest snapshot. The returned func unsubscribes.
func (s *Session) Subscribe() (<-chan entity.Snapshot, func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ch := make(chan entity.Snapshot, 1)
	if s.closed {
		close(ch)
		return ch, func() {}
	}

	id := s.nextSub
	s.nextSub++
	s.subs[id] = ch

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			s.mu.Lock()
			defer s.mu.Unlock()
			if c, ok := s.subs[id]; ok {
				delete(s.subs, id)
				close(c)
			}
		})
	}
}

func (s *Session) notifyLocked() {
	if len(s.subs) == 0 {
		return
	}
	snap := s.snapshotLocked()
	for _, ch := range s.subs {
		select {
		case ch <- snap:
		default:
			select {
			case <-ch:
			default:
			}
			select {
			case ch <- snap:
			default:
			}
		}
	}
}

// Wait blocks until no turn is in flight.
func (s *Session) Wait() {
	s.inflight.Wait()
}

// InUse reports whether a turn is in flight or a front-end is subscribed.
func (s *Session) InUse() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state == StateAwaitingResponse || len(s.subs) > 0
}

// Close rejects further submits, waits for the in-flight turn until ctx is
// done and closes all subscriptions. A turn still running when ctx expires
// is abandoned and its reply is dropped from every subscriber.
func (s *Session) Close(ctx context.Context) error {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()

	done := make(chan struct{})
	go func() {
		s.inflight.Wait()
		close(done)
	}()

	var err error
	select {
	case <-done:
	case <-ctx.Done():
		err = fmt.Errorf("abandon in-flight turn: %w", ctx.Err())
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for id, ch := range s.subs {
		delete(s.subs, id)
		close(ch)
	}
	return err
}
