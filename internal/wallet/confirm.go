package wallet

import (
	"context"
	"strings"

	"github.com/yolodolo42/testwallet/internal/tx"
)

// Action identifies what a confirmation request is about
type Action string

const (
	ActionConnect             Action = "connect"
	ActionSignMessage         Action = "sign_message"
	ActionSignTransaction     Action = "sign_transaction"
	ActionSignAllTransactions Action = "sign_all_transactions"
)

const approvalTitle = "Approval request"

// Request is shown to whoever approves the action
type Request struct {
	Action  Action
	Title   string
	Message string
}

// Confirmer asks an external party (usually a human) to approve a request.
type Confirmer interface {
	Confirm(ctx context.Context, req Request) (bool, error)
}

// ConfirmFunc adapts a function to Confirmer
type ConfirmFunc func(ctx context.Context, req Request) (bool, error)

func (f ConfirmFunc) Confirm(ctx context.Context, req Request) (bool, error) {
	return f(ctx, req)
}

// ConfirmStrategy signs like BaseStrategy but routes every approval through
// a Confirmer.
type ConfirmStrategy struct {
	*BaseStrategy
	confirmer Confirmer
}

var _ Strategy = (*ConfirmStrategy)(nil)

// NewConfirmStrategy wraps base with confirmer-driven approvals
func NewConfirmStrategy(base *BaseStrategy, confirmer Confirmer) *ConfirmStrategy {
	return &ConfirmStrategy{BaseStrategy: base, confirmer: confirmer}
}

func (s *ConfirmStrategy) ApproveConnect(ctx context.Context) (bool, error) {
	return s.confirmer.Confirm(ctx, Request{
		Action:  ActionConnect,
		Title:   approvalTitle,
		Message: "Connect wallet",
	})
}

func (s *ConfirmStrategy) ApproveSignMessage(ctx context.Context, message []byte) (bool, error) {
	return s.confirmer.Confirm(ctx, Request{
		Action:  ActionSignMessage,
		Title:   approvalTitle,
		Message: "Sign Message: \n" + strings.ToValidUTF8(string(message), "�"),
	})
}

func (s *ConfirmStrategy) ApproveSignTransaction(ctx context.Context, _ *tx.Transaction) (bool, error) {
	return s.confirmer.Confirm(ctx, Request{
		Action:  ActionSignTransaction,
		Title:   approvalTitle,
		Message: "Sign a transaction",
	})
}

func (s *ConfirmStrategy) ApproveSignAllTransactions(ctx context.Context, _ []*tx.Transaction) (bool, error) {
	return s.confirmer.Confirm(ctx, Request{
		Action:  ActionSignAllTransactions,
		Title:   approvalTitle,
		Message: "Sign all transactions",
	})
}
