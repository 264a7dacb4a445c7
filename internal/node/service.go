// Package node serializes access to a single runtime and forwards its
// failures to the diagnostics sinks.
package node

import (
	"context"
	"log/slog"
	"sync"

	"github.com/congo-pay/congo_chain/internal/diagnostics"
	"github.com/congo-pay/congo_chain/internal/genesis"
	"github.com/congo-pay/congo_chain/internal/runtime"
	"github.com/congo-pay/congo_chain/internal/support"
	"github.com/congo-pay/congo_chain/internal/types"
)

// Account is the queryable state of one account.
type Account struct {
	ID      types.AccountID `json:"account"`
	Balance types.Balance   `json:"balance"`
	Nonce   types.Nonce     `json:"nonce"`
}

// Service executes blocks one at a time. Diagnostics are delivered in block
// order: the executing goroutine takes publishMu before releasing mu.
type Service struct {
	mu        sync.Mutex
	publishMu sync.Mutex
	rt        *runtime.Runtime
	events    *eventBuffer
	sink      diagnostics.Sink
	logger    *slog.Logger
}

// NewService builds a runtime seeded with g. Failures are reported to sink
// only; a nil sink logs them.
func NewService(g genesis.Genesis, sink diagnostics.Sink, logger *slog.Logger) *Service {
	if sink == nil {
		sink = diagnostics.NewLoggerSink(logger)
	}
	events := &eventBuffer{}
	rt := runtime.New(runtime.WithReporter(events))
	g.Apply(rt)
	return &Service{rt: rt, events: events, sink: sink, logger: logger}
}

// Submit executes block. A header mismatch returns an error matching
// runtime.ErrBlockNumberMismatch; failed extrinsics are recorded in the
// receipt only.
func (s *Service) Submit(ctx context.Context, block runtime.Block) (runtime.Receipt, error) {
	s.mu.Lock()
	receipt, err := s.rt.ExecuteBlock(block)
	s.publishAndUnlock(ctx)
	return receipt, err
}

// SubmitNext executes extrinsics as the block following the current head.
func (s *Service) SubmitNext(ctx context.Context, extrinsics []runtime.Extrinsic) (runtime.Receipt, error) {
	s.mu.Lock()
	block := runtime.Block{
		Header:     runtime.Header{BlockNumber: s.rt.BlockNumber() + 1},
		Extrinsics: extrinsics,
	}
	receipt, err := s.rt.ExecuteBlock(block)
	s.publishAndUnlock(ctx)
	return receipt, err
}

// Head returns the current block number.
func (s *Service) Head() types.BlockNumber {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rt.BlockNumber()
}

// Account returns the balance and nonce of who.
func (s *Service) Account(who types.AccountID) Account {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Account{ID: who, Balance: s.rt.Balance(who), Nonce: s.rt.Nonce(who)}
}

// Claim returns the owner of content.
func (s *Service) Claim(content types.Content) (types.AccountID, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rt.Claim(content)
}

// Snapshot copies the whole runtime state.
func (s *Service) Snapshot() runtime.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rt.Snapshot()
}

// publishAndUnlock must be called with mu held. Queries resume as soon as mu
// is released; only the next block waits for delivery to finish.
func (s *Service) publishAndUnlock(ctx context.Context) {
	pending := s.events.drain()
	s.publishMu.Lock()
	defer s.publishMu.Unlock()
	s.mu.Unlock()

	for _, ev := range pending {
		if err := s.sink.Report(ctx, ev); err != nil && s.logger != nil {
			s.logger.Warn("diagnostics delivery failed",
				slog.String("event_id", ev.ID),
				slog.String("kind", ev.Kind),
				slog.Any("error", err),
			)
		}
	}
}

// eventBuffer queues runtime failures as diagnostics events until the
// service lock is released. Guarded by Service.mu.
type eventBuffer struct {
	pending []diagnostics.Event
}

func (b *eventBuffer) ExtrinsicFailed(f runtime.ExtrinsicFailure) {
	ev := diagnostics.NewEvent(diagnostics.KindExtrinsicFailed)
	ev.BlockNumber = uint64(f.BlockNumber)
	ev.Index = f.Index
	ev.Caller = string(f.Caller)
	ev.ErrorKind = support.KindOf(f.Err).String()
	ev.Error = f.Err.Error()
	b.pending = append(b.pending, ev)
}

func (b *eventBuffer) BlockAborted(a runtime.BlockAbort) {
	ev := diagnostics.NewEvent(diagnostics.KindBlockAborted)
	ev.BlockNumber = uint64(a.HeaderBlockNumber)
	ev.ErrorKind = support.KindOf(a.Err).String()
	ev.Error = a.Err.Error()
	b.pending = append(b.pending, ev)
}

func (b *eventBuffer) drain() []diagnostics.Event {
	out := b.pending
	b.pending = nil
	return out
}
