// Package duel implements the end-of-game synchronization between the two
// peers. An Agent owns the connection, reports a locally discovered outcome
// to the peer exactly once, and applies the peer's report exactly once.
//
// The agent is a one-shot latch: it starts active and concludes on the first
// of {local solve, local exhaustion, local forfeit, peer loss report, peer
// win report}. After that nothing is sent and nothing received is applied.
package duel

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/netgallows/netgallows/internal/peer"
	"github.com/netgallows/netgallows/internal/protocol"
)

// Display shows the final message. The implementation ends the process after
// its display duration.
type Display interface {
	ShowTerminalMessage(text string)
}

// Stopper is the game loop's keep-running flag.
type Stopper interface {
	Stop()
}

// CommunicationError is a connection failure during play. It is fatal to the
// session.
type CommunicationError struct {
	Op  string // "send" or "receive"
	Err error
}

func (e *CommunicationError) Error() string {
	return fmt.Sprintf("peer %s: %v", e.Op, e.Err)
}

func (e *CommunicationError) Unwrap() error { return e.Err }

// Result is how the session ended. Err is set when a CommunicationError cut
// the session short. After a failed send, Reason still names the local
// conclusion that could not be reported.
type Result struct {
	Outcome protocol.Outcome
	Reason  protocol.Reason
	Err     error
}

// Agent is the synchronization agent for one session.
type Agent struct {
	ch      peer.Channel
	display Display
	stopper Stopper
	log     *slog.Logger
	observe func(Event)

	mu     sync.Mutex
	active bool
	result Result
	done   chan struct{}

	sent     atomic.Int64
	received atomic.Int64
}

// Option configures an Agent.
type Option func(*Agent)

// WithLogger sets the logger. The default discards output.
func WithLogger(l *slog.Logger) Option {
	return func(a *Agent) { a.log = l }
}

// WithObserver registers fn for protocol events. fn is called synchronously
// from both the game loop and the receive loop and must not block.
func WithObserver(fn func(Event)) Option {
	return func(a *Agent) { a.observe = fn }
}

// New creates an active agent. ch must already be connected.
func New(ch peer.Channel, display Display, stopper Stopper, opts ...Option) *Agent {
	a := &Agent{
		ch:      ch,
		display: display,
		stopper: stopper,
		log:     slog.New(slog.NewTextHandler(io.Discard, nil)),
		active:  true,
		done:    make(chan struct{}),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// DeclareWin concludes the session as a win. selfInitiated is true when the
// local player solved the word; the peer is then told it lost. It is false
// when reacting to the peer's own loss report, and nothing is sent.
func (a *Agent) DeclareWin(selfInitiated bool) error {
	if selfInitiated {
		return a.conclude(protocol.LocalGuessComplete)
	}
	return a.conclude(protocol.PeerReportedLoss)
}

// DeclareLose concludes the session as a loss. selfInitiated is true when the
// local player ran out of guesses; the peer is then told it won. It is false
// when reacting to the peer's win report, and nothing is sent.
func (a *Agent) DeclareLose(selfInitiated bool) error {
	if selfInitiated {
		return a.conclude(protocol.LocalGuessesExhausted)
	}
	return a.conclude(protocol.PeerReportedWin)
}

// Forfeit concedes a live session because the local player quit. The peer
// is told it won. It does nothing once the session has concluded.
func (a *Agent) Forfeit() error {
	return a.conclude(protocol.LocalForfeit)
}

func (a *Agent) conclude(reason protocol.Reason) error {
	a.mu.Lock()
	if !a.active {
		a.mu.Unlock()
		a.log.Debug("ignoring conclusion after session ended", "reason", reason.String())
		return nil
	}
	a.active = false

	var err error
	notice, notify := reason.Notice()
	if notify {
		// Sent under the latch: a concurrent declare cannot slip in a second
		// notice.
		if sendErr := a.ch.Send(notice); sendErr != nil {
			err = &CommunicationError{Op: "send", Err: sendErr}
		} else {
			a.sent.Add(1)
		}
	}
	a.result = Result{Outcome: reason.Outcome(), Reason: reason, Err: err}
	close(a.done)
	a.mu.Unlock()

	a.stopper.Stop()
	if notify && err == nil {
		a.emit(Event{Kind: EventSent, Payload: notice, Reason: reason})
	}
	if err != nil {
		a.log.Error("session failed", "reason", reason.String(), "error", err)
		a.emit(Event{Kind: EventFailed, Reason: reason, Err: err})
		a.display.ShowTerminalMessage(failureText)
		return err
	}
	a.log.Info("session concluded", "outcome", reason.Outcome().String(), "reason", reason.String())
	a.emit(Event{Kind: EventConcluded, Reason: reason})
	a.display.ShowTerminalMessage(reason.Outcome().Banner())
	return nil
}

// fail closes the latch because the connection broke while the session was
// still live.
func (a *Agent) fail(err error) error {
	a.mu.Lock()
	if !a.active {
		a.mu.Unlock()
		return nil
	}
	a.active = false
	a.result = Result{Err: err}
	close(a.done)
	a.mu.Unlock()

	a.stopper.Stop()
	a.log.Error("session failed", "error", err)
	a.emit(Event{Kind: EventFailed, Err: err})
	a.display.ShowTerminalMessage(failureText)
	return err
}

const failureText = "CONNECTION LOST"

// Run is the receive loop. It reads one payload per iteration while the
// session is active and applies recognized reports. It returns nil when the
// session concluded, a *CommunicationError when the connection failed first,
// or ctx.Err() when ctx was cancelled. Cancelling ctx closes the channel.
func (a *Agent) Run(ctx context.Context) error {
	stop := context.AfterFunc(ctx, func() { a.ch.Close() })
	defer stop()

	for a.Active() {
		p, err := a.ch.Receive()
		if err != nil {
			if !a.Active() {
				return nil
			}
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return a.fail(&CommunicationError{Op: "receive", Err: err})
		}
		a.received.Add(1)

		reason, ok := protocol.ReasonFor(protocol.Decode(p))
		if !ok {
			a.log.Debug("ignoring unrecognized payload", "payload", p.String())
			a.emit(Event{Kind: EventIgnored, Payload: p})
			continue
		}
		a.emit(Event{Kind: EventReceived, Payload: p, Reason: reason})

		switch reason {
		case protocol.PeerReportedLoss:
			err = a.DeclareWin(false)
		case protocol.PeerReportedWin:
			err = a.DeclareLose(false)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

// Active reports whether the session is still live.
func (a *Agent) Active() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.active
}

// Result returns how the session ended; ok is false while it is live.
func (a *Agent) Result() (Result, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.active {
		return Result{}, false
	}
	return a.result, true
}

// Done is closed when the session concludes or fails.
func (a *Agent) Done() <-chan struct{} {
	return a.done
}

// Sent counts payloads transmitted to the peer.
func (a *Agent) Sent() int64 { return a.sent.Load() }

// Received counts payloads read from the peer, recognized or not.
func (a *Agent) Received() int64 { return a.received.Load() }

// Close releases the connection. A pending Run returns.
func (a *Agent) Close() error {
	return a.ch.Close()
}

func (a *Agent) emit(ev Event) {
	if a.observe != nil {
		a.observe(ev)
	}
}
