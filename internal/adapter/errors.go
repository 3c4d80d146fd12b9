package adapter

import "errors"

// ErrorKind classifies adapter failures
type ErrorKind int

const (
	KindNotReady ErrorKind = iota + 1
	KindConnectionRejected
	KindConnectionFailed
	KindNotConnected
	KindSignRejected
	KindSignFailed
)

func (k ErrorKind) String() string {
	switch k {
	case KindNotReady:
		return "wallet not ready"
	case KindConnectionRejected:
		return "connection rejected"
	case KindConnectionFailed:
		return "connection failed"
	case KindNotConnected:
		return "wallet not connected"
	case KindSignRejected:
		return "sign rejected"
	case KindSignFailed:
		return "sign failed"
	}
	return "wallet error"
}

// Operation names carried in WalletError.Op
const (
	OpConnect             = "connect"
	OpSignMessage         = "signMessage"
	OpSignTransaction     = "signTransaction"
	OpSignAllTransactions = "signAllTransactions"
)

var errUserRejected = errors.New("user rejected")

// WalletError is the only error type the adapter returns. Err holds the
// underlying cause, if any.
type WalletError struct {
	Kind ErrorKind
	Op   string
	Err  error
}

// Sentinels for errors.Is. They match any operation of their kind.
var (
	ErrNotReady           = &WalletError{Kind: KindNotReady}
	ErrConnectionRejected = &WalletError{Kind: KindConnectionRejected}
	ErrConnectionFailed   = &WalletError{Kind: KindConnectionFailed}
	ErrNotConnected       = &WalletError{Kind: KindNotConnected}
	ErrSignRejected       = &WalletError{Kind: KindSignRejected}
	ErrSignFailed         = &WalletError{Kind: KindSignFailed}
)

func (e *WalletError) Error() string {
	msg := e.Kind.String()
	if e.Op != "" {
		msg = e.Op + ": " + msg
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *WalletError) Unwrap() error {
	return e.Err
}

// Is matches another WalletError of the same kind. A target without Op
// matches every operation.
func (e *WalletError) Is(target error) bool {
	t, ok := target.(*WalletError)
	if !ok {
		return false
	}
	return t.Kind == e.Kind && (t.Op == "" || t.Op == e.Op)
}

func newError(kind ErrorKind, op string, cause error) *WalletError {
	return &WalletError{Kind: kind, Op: op, Err: cause}
}

// toWalletError maps err into the taxonomy. A *WalletError anywhere in the
// chain is returned as is; anything else becomes kind.
func toWalletError(err error, kind ErrorKind, op string) *WalletError {
	var we *WalletError
	if errors.As(err, &we) {
		return we
	}
	return newError(kind, op, err)
}
