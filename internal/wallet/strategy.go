package wallet

import (
	"context"
	"errors"
	"fmt"

	"github.com/hashicorp/go-multierror"
	"github.com/yolodolo42/testwallet/internal/keypair"
	"github.com/yolodolo42/testwallet/internal/tx"
)

var ErrNilTransaction = errors.New("nil transaction")

// BaseStrategy approves everything and signs with a key pair from its
// source. Embed it to change approval behaviour while keeping the signing.
type BaseStrategy struct {
	NopHooks
	keys keypair.Source
}

var _ Strategy = (*BaseStrategy)(nil)

// NewBaseStrategy creates a strategy backed by keys
func NewBaseStrategy(keys keypair.Source) *BaseStrategy {
	return &BaseStrategy{keys: keys}
}

// NewStaticStrategy creates a strategy holding kp
func NewStaticStrategy(kp *keypair.KeyPair) *BaseStrategy {
	return NewBaseStrategy(keypair.Static(kp))
}

// NewLazyStrategy creates a strategy whose key pair is resolved on first use
func NewLazyStrategy(resolve keypair.ResolveFunc) *BaseStrategy {
	return NewBaseStrategy(keypair.Lazy(resolve))
}

// NewGeneratedStrategy creates a strategy with a key pair generated on first use
func NewGeneratedStrategy() *BaseStrategy {
	return NewBaseStrategy(keypair.Generated())
}

func (s *BaseStrategy) KeyPair(ctx context.Context) (*keypair.KeyPair, error) {
	kp, err := s.keys.KeyPair(ctx)
	if err != nil {
		return nil, fmt.Errorf("resolve key pair: %w", err)
	}
	return kp, nil
}

func (s *BaseStrategy) ApproveConnect(context.Context) (bool, error) { return true, nil }

func (s *BaseStrategy) ApproveSignMessage(context.Context, []byte) (bool, error) {
	return true, nil
}

func (s *BaseStrategy) ApproveSignTransaction(context.Context, *tx.Transaction) (bool, error) {
	return true, nil
}

func (s *BaseStrategy) ApproveSignAllTransactions(context.Context, []*tx.Transaction) (bool, error) {
	return true, nil
}

// SignMessage signs the exact message bytes with ed25519.
func (s *BaseStrategy) SignMessage(ctx context.Context, message []byte) ([]byte, error) {
	kp, err := s.KeyPair(ctx)
	if err != nil {
		return nil, err
	}
	return kp.Sign(message), nil
}

func (s *BaseStrategy) SignTransaction(ctx context.Context, t *tx.Transaction) error {
	if t == nil {
		return ErrNilTransaction
	}
	kp, err := s.KeyPair(ctx)
	if err != nil {
		return err
	}
	return t.PartialSign(kp)
}

// SignAllTransactions signs every transaction it can. Failures do not stop
// the batch; they are collected and returned together.
func (s *BaseStrategy) SignAllTransactions(ctx context.Context, txs []*tx.Transaction) error {
	kp, err := s.KeyPair(ctx)
	if err != nil {
		return err
	}

	var result *multierror.Error
	for i, t := range txs {
		if t == nil {
			result = multierror.Append(result, fmt.Errorf("transaction %d: %w", i, ErrNilTransaction))
			continue
		}
		if err := t.PartialSign(kp); err != nil {
			result = multierror.Append(result, fmt.Errorf("transaction %d: %w", i, err))
		}
	}
	return result.ErrorOrNil()
}
