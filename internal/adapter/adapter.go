package adapter

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/rs/zerolog"
	"github.com/yolodolo42/testwallet/internal/keypair"
	"github.com/yolodolo42/testwallet/internal/tx"
	"github.com/yolodolo42/testwallet/internal/wallet"
	"golang.org/x/sync/singleflight"
)

const (
	DefaultName = "BrowserTestWallet (Unsafe)"
	DefaultURL  = "/"
	DefaultIcon = "/favicon.ico"
)

var (
	ErrNoStrategy        = errors.New("either a strategy or a key pair is required")
	ErrAmbiguousStrategy = errors.New("strategy and key pair are mutually exclusive")
)

// ReadyState describes whether the wallet could be connected to.
type ReadyState int

const (
	readyStateUnset ReadyState = iota
	ReadyStateInstalled
	ReadyStateNotDetected
	ReadyStateLoadable
	ReadyStateUnsupported
)

func (r ReadyState) String() string {
	switch r {
	case ReadyStateInstalled:
		return "Installed"
	case ReadyStateNotDetected:
		return "NotDetected"
	case ReadyStateLoadable:
		return "Loadable"
	case ReadyStateUnsupported:
		return "Unsupported"
	}
	return "Unknown"
}

// ParseReadyState accepts the String form, case-insensitively.
func ParseReadyState(s string) (ReadyState, error) {
	for _, r := range []ReadyState{ReadyStateInstalled, ReadyStateNotDetected, ReadyStateLoadable, ReadyStateUnsupported} {
		if strings.EqualFold(s, r.String()) {
			return r, nil
		}
	}
	return readyStateUnset, fmt.Errorf("unknown ready state %q", s)
}

func (r ReadyState) canConnect() bool {
	return r == ReadyStateInstalled || r == ReadyStateLoadable
}

// Config selects the strategy behind an adapter. Exactly one of Strategy
// and KeyPair must be set; a KeyPair gets a non-interactive static strategy.
type Config struct {
	Strategy wallet.Strategy
	KeyPair  *keypair.KeyPair

	Name       string
	URL        string
	Icon       string
	ReadyState ReadyState // defaults to ReadyStateLoadable

	Logger *zerolog.Logger
}

// WalletAdapter is the connect/sign/disconnect contract applications use.
type WalletAdapter interface {
	Name() string
	URL() string
	Icon() string
	ReadyState() ReadyState
	PublicKey() *keypair.PublicKey
	Connected() bool
	Connecting() bool

	Connect(ctx context.Context) error
	Disconnect(ctx context.Context) error
	SignMessage(ctx context.Context, message []byte) ([]byte, error)
	SignTransaction(ctx context.Context, t *tx.Transaction) (*tx.Transaction, error)
	SignAllTransactions(ctx context.Context, txs []*tx.Transaction) ([]*tx.Transaction, error)

	On(kind EventKind, fn Listener) ListenerID
	Once(kind EventKind, fn Listener) ListenerID
	Off(kind EventKind, id ListenerID) bool
}

// Adapter is a WalletAdapter backed by an in-process signing strategy.
type Adapter struct {
	name       string
	url        string
	icon       string
	readyState ReadyState
	strategy   wallet.Strategy
	log        zerolog.Logger

	// mu guards publicKey, connecting and settling. It is never held across
	// a call into the strategy or a listener.
	mu         sync.RWMutex
	publicKey  *keypair.PublicKey
	connecting bool
	// settling is set while the outcome of a connect attempt is being emitted
	settling bool

	// connects coalesces concurrent Connect calls into one attempt
	connects singleflight.Group
	events   emitter
}

var _ WalletAdapter = (*Adapter)(nil)

// New builds an adapter from cfg.
func New(cfg Config) (*Adapter, error) {
	strategy, err := resolveStrategy(cfg)
	if err != nil {
		return nil, err
	}

	a := &Adapter{
		name:       cfg.Name,
		url:        cfg.URL,
		icon:       cfg.Icon,
		readyState: cfg.ReadyState,
		strategy:   strategy,
		log:        zerolog.Nop(),
	}
	if a.name == "" {
		a.name = DefaultName
	}
	if a.url == "" {
		a.url = DefaultURL
	}
	if a.icon == "" {
		a.icon = DefaultIcon
	}
	if a.readyState == readyStateUnset {
		a.readyState = ReadyStateLoadable
	}
	if cfg.Logger != nil {
		a.log = cfg.Logger.With().Str("wallet", a.name).Logger()
	}
	return a, nil
}

func resolveStrategy(cfg Config) (wallet.Strategy, error) {
	switch {
	case cfg.Strategy != nil && cfg.KeyPair != nil:
		return nil, ErrAmbiguousStrategy
	case cfg.Strategy != nil:
		return cfg.Strategy, nil
	case cfg.KeyPair != nil:
		return wallet.NewStaticStrategy(cfg.KeyPair), nil
	}
	return nil, ErrNoStrategy
}

func (a *Adapter) Name() string              { return a.name }
func (a *Adapter) URL() string               { return a.url }
func (a *Adapter) Icon() string              { return a.icon }
func (a *Adapter) ReadyState() ReadyState    { return a.readyState }
func (a *Adapter) Strategy() wallet.Strategy { return a.strategy }

// PublicKey returns the connected key, or nil while disconnected.
func (a *Adapter) PublicKey() *keypair.PublicKey {
	a.mu.RLock()
	defer a.mu.RUnlock()
	if a.publicKey == nil {
		return nil
	}
	pk := *a.publicKey
	return &pk
}

func (a *Adapter) Connected() bool {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.publicKey != nil
}

func (a *Adapter) Connecting() bool {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.connecting
}

// On registers fn for kind. The same function may be registered repeatedly.
func (a *Adapter) On(kind EventKind, fn Listener) ListenerID {
	return a.events.on(kind, fn, false)
}

// Once registers fn to run for the next kind event only.
func (a *Adapter) Once(kind EventKind, fn Listener) ListenerID {
	return a.events.on(kind, fn, true)
}

// Off removes a registration. It reports whether id was registered.
func (a *Adapter) Off(kind EventKind, id ListenerID) bool {
	return a.events.off(kind, id)
}

// Connect asks the strategy for approval and, once granted, exposes the
// key pair's public key. It is a no-op when already connected.
//
// A call made while another connect is in flight waits for that attempt and
// returns its result; the strategy is consulted once. The attempt runs under
// the ctx of the call that started it, so cancelling that ctx fails every
// joined call too. Once the attempt has settled, connecting stays true while
// the connect or error listeners run, and a Connect from a listener returns
// nil without starting a new attempt.
func (a *Adapter) Connect(ctx context.Context) error {
	a.mu.RLock()
	busy := a.publicKey != nil || a.settling
	a.mu.RUnlock()
	if busy {
		return nil
	}
	if !a.readyState.canConnect() {
		return newError(KindNotReady, OpConnect, fmt.Errorf("ready state %s", a.readyState))
	}

	var (
		ran  bool
		pk   *keypair.PublicKey
		werr *WalletError
	)
	_, err, _ := a.connects.Do(OpConnect, func() (any, error) {
		ran = true
		pk, werr = a.connect(ctx)
		if werr != nil {
			return nil, werr
		}
		return nil, nil
	})
	if !ran {
		a.log.Debug().Msg("joined in-flight connect")
		return err
	}

	a.settle(pk, werr)
	if werr != nil {
		return werr
	}
	return nil
}

// connect runs one attempt. It returns nil, nil when the wallet was already
// connected. On return connecting is still set; settle clears it.
func (a *Adapter) connect(ctx context.Context) (*keypair.PublicKey, *WalletError) {
	a.mu.Lock()
	if a.publicKey != nil {
		a.mu.Unlock()
		return nil, nil
	}
	a.connecting = true
	a.mu.Unlock()

	pk, werr := a.approveConnect(ctx)

	a.mu.Lock()
	a.settling = true
	if werr == nil {
		a.publicKey = &pk
	}
	a.mu.Unlock()

	if werr != nil {
		return nil, werr
	}
	return &pk, nil
}

// settle emits the outcome of an attempt and then clears connecting.
func (a *Adapter) settle(pk *keypair.PublicKey, werr *WalletError) {
	defer func() {
		a.mu.Lock()
		a.connecting = false
		a.settling = false
		a.mu.Unlock()
	}()

	switch {
	case werr != nil:
		_ = a.fail(werr)
	case pk != nil:
		a.log.Debug().Str("public_key", pk.String()).Msg("wallet connected")
		a.events.emit(Event{Kind: EventConnect, PublicKey: *pk})
	}
}

func (a *Adapter) approveConnect(ctx context.Context) (keypair.PublicKey, *WalletError) {
	var pk keypair.PublicKey

	ok, err := a.strategy.ApproveConnect(ctx)
	if err != nil {
		return pk, toWalletError(err, KindConnectionFailed, OpConnect)
	}
	if !ok {
		return pk, newError(KindConnectionRejected, OpConnect, errUserRejected)
	}

	kp, err := a.strategy.KeyPair(ctx)
	if err != nil {
		return pk, toWalletError(err, KindConnectionFailed, OpConnect)
	}
	return kp.PublicKey(), nil
}

// Disconnect forgets the public key and emits disconnect. It never fails
// and does not wait for in-flight sign calls.
func (a *Adapter) Disconnect(context.Context) error {
	a.mu.Lock()
	a.publicKey = nil
	a.mu.Unlock()

	a.log.Debug().Msg("wallet disconnected")
	a.events.emit(Event{Kind: EventDisconnect})
	return nil
}

// SignMessage returns a detached signature over message.
func (a *Adapter) SignMessage(ctx context.Context, message []byte) ([]byte, error) {
	var sig []byte
	err := a.sign(ctx, OpSignMessage, signSteps{
		approve: func(ctx context.Context) (bool, error) { return a.strategy.ApproveSignMessage(ctx, message) },
		before:  func(ctx context.Context) error { return a.strategy.BeforeSignMessage(ctx, message) },
		sign: func(ctx context.Context) error {
			var err error
			sig, err = a.strategy.SignMessage(ctx, message)
			return err
		},
		after: func(ctx context.Context) error { return a.strategy.AfterSignMessage(ctx, message) },
	})
	if err != nil {
		return nil, err
	}
	return sig, nil
}

// SignTransaction has the strategy partially sign t in place and returns t.
func (a *Adapter) SignTransaction(ctx context.Context, t *tx.Transaction) (*tx.Transaction, error) {
	err := a.sign(ctx, OpSignTransaction, signSteps{
		approve: func(ctx context.Context) (bool, error) { return a.strategy.ApproveSignTransaction(ctx, t) },
		before:  func(ctx context.Context) error { return a.strategy.BeforeSignTransaction(ctx, t) },
		sign:    func(ctx context.Context) error { return a.strategy.SignTransaction(ctx, t) },
		after:   func(ctx context.Context) error { return a.strategy.AfterSignTransaction(ctx, t) },
	})
	if err != nil {
		return nil, err
	}
	return t, nil
}

// SignAllTransactions signs the batch in place and returns the same slice.
func (a *Adapter) SignAllTransactions(ctx context.Context, txs []*tx.Transaction) ([]*tx.Transaction, error) {
	err := a.sign(ctx, OpSignAllTransactions, signSteps{
		approve: func(ctx context.Context) (bool, error) { return a.strategy.ApproveSignAllTransactions(ctx, txs) },
		before:  func(ctx context.Context) error { return a.strategy.BeforeSignAllTransactions(ctx, txs) },
		sign:    func(ctx context.Context) error { return a.strategy.SignAllTransactions(ctx, txs) },
		after:   func(ctx context.Context) error { return a.strategy.AfterSignAllTransactions(ctx, txs) },
	})
	if err != nil {
		return nil, err
	}
	return txs, nil
}

type signSteps struct {
	approve func(ctx context.Context) (bool, error)
	before  func(ctx context.Context) error
	sign    func(ctx context.Context) error
	after   func(ctx context.Context) error
}

// sign checks the connection, then runs approve, before, sign and after in
// that order. Not being connected is caller misuse and skips the error event.
func (a *Adapter) sign(ctx context.Context, op string, steps signSteps) error {
	if !a.Connected() {
		return newError(KindNotConnected, op, nil)
	}
	if werr := a.runSign(ctx, op, steps); werr != nil {
		return a.fail(werr)
	}
	a.log.Debug().Str("op", op).Msg("signed")
	return nil
}

func (a *Adapter) runSign(ctx context.Context, op string, steps signSteps) *WalletError {
	ok, err := steps.approve(ctx)
	if err != nil {
		return toWalletError(err, KindSignFailed, op)
	}
	if !ok {
		return newError(KindSignRejected, op, errUserRejected)
	}

	for _, step := range []func(context.Context) error{steps.before, steps.sign, steps.after} {
		if err := step(ctx); err != nil {
			return toWalletError(err, KindSignFailed, op)
		}
	}
	return nil
}

// fail reports werr on the error channel and hands it back for returning.
func (a *Adapter) fail(werr *WalletError) error {
	a.log.Warn().Err(werr).Str("op", werr.Op).Msg("wallet operation failed")
	a.events.emit(Event{Kind: EventError, Err: werr})
	return werr
}
