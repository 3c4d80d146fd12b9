package adapter

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/yolodolo42/testwallet/internal/keypair"
	"github.com/yolodolo42/testwallet/internal/tx"
	"github.com/yolodolo42/testwallet/internal/wallet"
)

func newKeyPair(t *testing.T) *keypair.KeyPair {
	t.Helper()
	kp, err := keypair.Generate(nil)
	require.NoError(t, err)
	return kp
}

func newAdapter(t *testing.T, cfg Config) *Adapter {
	t.Helper()
	a, err := New(cfg)
	require.NoError(t, err)
	return a
}

func newTx(feePayer keypair.PublicKey) *tx.Transaction {
	var program keypair.PublicKey
	return tx.New(tx.Options{
		FeePayer:        &feePayer,
		RecentBlockhash: program.String(),
	}).Add(tx.Instruction{ProgramID: program})
}

// eventLog collects every event an adapter emits.
type eventLog struct {
	mu     sync.Mutex
	events []Event
}

func record(a *Adapter) *eventLog {
	l := &eventLog{}
	for _, kind := range []EventKind{EventConnect, EventDisconnect, EventError} {
		a.On(kind, func(ev Event) {
			l.mu.Lock()
			defer l.mu.Unlock()
			l.events = append(l.events, ev)
		})
	}
	return l
}

func (l *eventLog) kinds() []EventKind {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]EventKind, len(l.events))
	for i, ev := range l.events {
		out[i] = ev.Kind
	}
	return out
}

func (l *eventLog) last() Event {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.events[len(l.events)-1]
}

// scriptedStrategy records the order of strategy calls and lets a test
// override individual decisions.
type scriptedStrategy struct {
	*wallet.BaseStrategy

	mu    sync.Mutex
	calls []string

	approve    bool
	approveErr error
	hookErr    error
	connectFn  func(ctx context.Context) (bool, error)
}

func newScripted(kp *keypair.KeyPair) *scriptedStrategy {
	return &scriptedStrategy{BaseStrategy: wallet.NewStaticStrategy(kp), approve: true}
}

func (s *scriptedStrategy) note(call string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, call)
}

func (s *scriptedStrategy) Calls() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.calls...)
}

func (s *scriptedStrategy) decide(call string) (bool, error) {
	s.note(call)
	return s.approve, s.approveErr
}

func (s *scriptedStrategy) ApproveConnect(ctx context.Context) (bool, error) {
	if s.connectFn != nil {
		s.note("approveConnect")
		return s.connectFn(ctx)
	}
	return s.decide("approveConnect")
}

func (s *scriptedStrategy) ApproveSignMessage(context.Context, []byte) (bool, error) {
	return s.decide("approveSignMessage")
}

func (s *scriptedStrategy) ApproveSignTransaction(context.Context, *tx.Transaction) (bool, error) {
	return s.decide("approveSignTransaction")
}

func (s *scriptedStrategy) ApproveSignAllTransactions(context.Context, []*tx.Transaction) (bool, error) {
	return s.decide("approveSignAllTransactions")
}

func (s *scriptedStrategy) BeforeSignMessage(context.Context, []byte) error {
	s.note("beforeSignMessage")
	return s.hookErr
}

func (s *scriptedStrategy) SignMessage(ctx context.Context, message []byte) ([]byte, error) {
	s.note("signMessage")
	return s.BaseStrategy.SignMessage(ctx, message)
}

func (s *scriptedStrategy) AfterSignMessage(context.Context, []byte) error {
	s.note("afterSignMessage")
	return nil
}

func (s *scriptedStrategy) BeforeSignTransaction(context.Context, *tx.Transaction) error {
	s.note("beforeSignTransaction")
	return nil
}

func (s *scriptedStrategy) SignTransaction(ctx context.Context, t *tx.Transaction) error {
	s.note("signTransaction")
	return s.BaseStrategy.SignTransaction(ctx, t)
}

func (s *scriptedStrategy) AfterSignTransaction(context.Context, *tx.Transaction) error {
	s.note("afterSignTransaction")
	return nil
}
