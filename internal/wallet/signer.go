package wallet

import (
	"context"

	"github.com/yolodolo42/testwallet/internal/keypair"
	"github.com/yolodolo42/testwallet/internal/tx"
)

// Signer performs the cryptographic side of a wallet.
// Different implementations support different key management strategies.
type Signer interface {
	// KeyPair returns the key pair, resolving it first if needed
	KeyPair(ctx context.Context) (*keypair.KeyPair, error)

	// SignMessage returns a detached signature over message
	SignMessage(ctx context.Context, message []byte) ([]byte, error)

	// SignTransaction adds the wallet's partial signature to t in place
	SignTransaction(ctx context.Context, t *tx.Transaction) error

	// SignAllTransactions partially signs every transaction in place
	SignAllTransactions(ctx context.Context, txs []*tx.Transaction) error
}

// Approver decides whether an action may proceed. Interactive
// implementations may block on a human decision; ctx bounds the wait.
type Approver interface {
	ApproveConnect(ctx context.Context) (bool, error)
	ApproveSignMessage(ctx context.Context, message []byte) (bool, error)
	ApproveSignTransaction(ctx context.Context, t *tx.Transaction) (bool, error)
	ApproveSignAllTransactions(ctx context.Context, txs []*tx.Transaction) (bool, error)
}

// Hooks run immediately around the matching Sign call, never around approval.
type Hooks interface {
	BeforeSignMessage(ctx context.Context, message []byte) error
	AfterSignMessage(ctx context.Context, message []byte) error
	BeforeSignTransaction(ctx context.Context, t *tx.Transaction) error
	AfterSignTransaction(ctx context.Context, t *tx.Transaction) error
	BeforeSignAllTransactions(ctx context.Context, txs []*tx.Transaction) error
	AfterSignAllTransactions(ctx context.Context, txs []*tx.Transaction) error
}

// Strategy is everything an adapter needs from a wallet backend.
type Strategy interface {
	Signer
	Approver
	Hooks
}

// NopHooks implements Hooks with no-ops. Embed it and override only the
// hooks you need.
type NopHooks struct{}

func (NopHooks) BeforeSignMessage(context.Context, []byte) error                    { return nil }
func (NopHooks) AfterSignMessage(context.Context, []byte) error                     { return nil }
func (NopHooks) BeforeSignTransaction(context.Context, *tx.Transaction) error       { return nil }
func (NopHooks) AfterSignTransaction(context.Context, *tx.Transaction) error        { return nil }
func (NopHooks) BeforeSignAllTransactions(context.Context, []*tx.Transaction) error { return nil }
func (NopHooks) AfterSignAllTransactions(context.Context, []*tx.Transaction) error  { return nil }

// StrategyType names the built-in strategies
type StrategyType string

const (
	StrategyTypeStatic  StrategyType = "static"
	StrategyTypeConfirm StrategyType = "confirm"
)
