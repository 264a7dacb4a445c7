package node

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/congo-pay/congo_chain/internal/diagnostics"
	"github.com/congo-pay/congo_chain/internal/genesis"
	"github.com/congo-pay/congo_chain/internal/logging"
	"github.com/congo-pay/congo_chain/internal/runtime"
	"github.com/congo-pay/congo_chain/internal/types"
)

type recordingSink struct {
	mu     sync.Mutex
	events []diagnostics.Event
	err    error
}

func (r *recordingSink) Report(_ context.Context, ev diagnostics.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, ev)
	return r.err
}

func newTestService(t *testing.T, sink diagnostics.Sink) *Service {
	t.Helper()
	g := genesis.Genesis{Balances: map[string]types.Balance{"alice": types.NewBalance(100)}}
	return NewService(g, sink, logging.Discard())
}

func transfer(caller, to types.AccountID, amount uint64) runtime.Extrinsic {
	return runtime.Extrinsic{Caller: caller, Call: runtime.BalancesCall{Call: runtime.Transfer{To: to, Amount: types.NewBalance(amount)}}}
}

func createClaim(caller types.AccountID, content string) runtime.Extrinsic {
	return runtime.Extrinsic{Caller: caller, Call: runtime.ProofOfExistenceCall{Call: runtime.CreateClaim{Content: types.ContentOf(content)}}}
}

func TestSubmitPublishesFailures(t *testing.T) {
	sink := &recordingSink{}
	svc := newTestService(t, sink)

	receipt, err := svc.Submit(context.Background(), runtime.Block{
		Header: runtime.Header{BlockNumber: 1},
		Extrinsics: []runtime.Extrinsic{
			transfer("alice", "bob", 30),
			transfer("bob", "charlie", 100),
		},
	})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if len(receipt.Failed()) != 1 {
		t.Fatalf("expected one failed extrinsic, got %+v", receipt)
	}

	acct := svc.Account("bob")
	if acct.Balance != types.NewBalance(30) || acct.Nonce != 1 {
		t.Fatalf("unexpected bob state %+v", acct)
	}
	if len(sink.events) != 1 {
		t.Fatalf("expected one event, got %d", len(sink.events))
	}
	ev := sink.events[0]
	if ev.Kind != diagnostics.KindExtrinsicFailed || ev.Index != 1 || ev.Caller != "bob" || ev.ErrorKind != "InsufficientBalance" {
		t.Fatalf("unexpected event %+v", ev)
	}
	if ev.ID == "" || ev.BlockNumber != 1 {
		t.Fatalf("event missing id or block number: %+v", ev)
	}
}

func TestSubmitMismatch(t *testing.T) {
	sink := &recordingSink{}
	svc := newTestService(t, sink)

	_, err := svc.Submit(context.Background(), runtime.Block{
		Header:     runtime.Header{BlockNumber: 5},
		Extrinsics: []runtime.Extrinsic{transfer("alice", "bob", 1)},
	})
	if !errors.Is(err, runtime.ErrBlockNumberMismatch) {
		t.Fatalf("expected mismatch, got %v", err)
	}
	if svc.Account("alice").Balance != types.NewBalance(100) {
		t.Fatalf("aborted block must not move funds")
	}
	if svc.Head() != 1 {
		t.Fatalf("expected head 1 after aborted block, got %d", svc.Head())
	}
	if len(sink.events) != 1 || sink.events[0].Kind != diagnostics.KindBlockAborted || sink.events[0].ErrorKind != "BlockNumberMismatch" {
		t.Fatalf("unexpected events %+v", sink.events)
	}
}

func TestSubmitNextFollowsHead(t *testing.T) {
	svc := newTestService(t, nil)
	ctx := context.Background()

	for want := types.BlockNumber(1); want <= 3; want++ {
		receipt, err := svc.SubmitNext(ctx, []runtime.Extrinsic{transfer("alice", "bob", 1)})
		if err != nil {
			t.Fatalf("submit next: %v", err)
		}
		if receipt.BlockNumber != want {
			t.Fatalf("expected block %d, got %d", want, receipt.BlockNumber)
		}
	}
	if got := svc.Account("alice"); got.Balance != types.NewBalance(97) || got.Nonce != 3 {
		t.Fatalf("unexpected alice state %+v", got)
	}
}

func TestSubmitNextConcurrent(t *testing.T) {
	svc := newTestService(t, nil)
	const n = 20

	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := svc.SubmitNext(context.Background(), []runtime.Extrinsic{transfer("alice", "bob", 1)}); err != nil {
				t.Errorf("submit next: %v", err)
			}
		}()
	}
	wg.Wait()

	if svc.Head() != n {
		t.Fatalf("expected head %d, got %d", n, svc.Head())
	}
	if svc.Account("bob").Balance != types.NewBalance(n) {
		t.Fatalf("expected bob %d, got %s", n, svc.Account("bob").Balance)
	}
}

func TestSinkErrorsDoNotFailBlocks(t *testing.T) {
	svc := newTestService(t, &recordingSink{err: errors.New("sink down")})

	receipt, err := svc.SubmitNext(context.Background(), []runtime.Extrinsic{
		createClaim("alice", "doc"),
		createClaim("bob", "doc"),
	})
	if err != nil {
		t.Fatalf("submit next: %v", err)
	}
	if len(receipt.Failed()) != 1 {
		t.Fatalf("expected one failure, got %+v", receipt)
	}
	owner, ok := svc.Claim(types.ContentOf("doc"))
	if !ok || owner != "alice" {
		t.Fatalf("expected alice to own doc, got %q %v", owner, ok)
	}
	if snap := svc.Snapshot(); snap.BlockNumber != 1 || len(snap.Claims) != 1 {
		t.Fatalf("unexpected snapshot %+v", snap)
	}
}

func TestFailuresAreLoggedOnce(t *testing.T) {
	var buf bytes.Buffer
	g := genesis.Genesis{Balances: map[string]types.Balance{"alice": types.NewBalance(100)}}
	svc := NewService(g, nil, logging.NewWithWriter(&buf, "info", "json"))

	if _, err := svc.SubmitNext(context.Background(), []runtime.Extrinsic{transfer("bob", "alice", 5)}); err != nil {
		t.Fatalf("submit next: %v", err)
	}
	if _, err := svc.Submit(context.Background(), runtime.Block{Header: runtime.Header{BlockNumber: 7}}); err == nil {
		t.Fatalf("expected mismatch")
	}

	out := buf.String()
	if n := strings.Count(out, `"error_kind":"InsufficientBalance"`); n != 1 {
		t.Fatalf("expected the failed transfer to be logged once, got %d times:\n%s", n, out)
	}
	if n := strings.Count(out, `"error_kind":"BlockNumberMismatch"`); n != 1 {
		t.Fatalf("expected the aborted block to be logged once, got %d times:\n%s", n, out)
	}
}

type slowSink struct {
	mu     sync.Mutex
	blocks []uint64
}

func (s *slowSink) Report(_ context.Context, ev diagnostics.Event) error {
	if ev.BlockNumber%2 == 1 {
		time.Sleep(5 * time.Millisecond)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.blocks = append(s.blocks, ev.BlockNumber)
	return nil
}

func TestDiagnosticsDeliveredInBlockOrder(t *testing.T) {
	sink := &slowSink{}
	svc := newTestService(t, sink)
	const n = 12

	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := svc.SubmitNext(context.Background(), []runtime.Extrinsic{transfer("nobody", "alice", 1)}); err != nil {
				t.Errorf("submit next: %v", err)
			}
		}()
	}
	wg.Wait()

	if len(sink.blocks) != n {
		t.Fatalf("expected %d events, got %d", n, len(sink.blocks))
	}
	for i, b := range sink.blocks {
		if b != uint64(i+1) {
			t.Fatalf("events out of block order: %v", sink.blocks)
		}
	}
}
