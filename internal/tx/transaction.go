package tx

import (
	"errors"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/rlp"
	"github.com/yolodolo42/testwallet/internal/keypair"
)

var (
	ErrFeePayerRequired  = errors.New("transaction fee payer required")
	ErrBlockhashRequired = errors.New("transaction recent blockhash required")
	ErrUnknownSigner     = errors.New("unknown signer")
)

// AccountMeta describes an account an instruction touches.
type AccountMeta struct {
	PublicKey  keypair.PublicKey
	IsSigner   bool
	IsWritable bool
}

// Instruction is a single program invocation.
type Instruction struct {
	ProgramID keypair.PublicKey
	Keys      []AccountMeta
	Data      []byte
}

// SignaturePair is one signature slot. Signature is nil until signed.
type SignaturePair struct {
	PublicKey keypair.PublicKey
	Signature []byte
}

// Transaction is the payload a wallet signs. The signer set is the fee payer
// followed by every instruction key flagged as signer, in first-seen order.
type Transaction struct {
	FeePayer             *keypair.PublicKey
	RecentBlockhash      string
	LastValidBlockHeight uint64
	Instructions         []Instruction
	Signatures           []SignaturePair
}

// Options seeds a new transaction
type Options struct {
	FeePayer             *keypair.PublicKey
	RecentBlockhash      string
	LastValidBlockHeight uint64
}

// New creates an empty transaction
func New(opts Options) *Transaction {
	return &Transaction{
		FeePayer:             opts.FeePayer,
		RecentBlockhash:      opts.RecentBlockhash,
		LastValidBlockHeight: opts.LastValidBlockHeight,
	}
}

// Add appends instructions and returns the transaction for chaining
func (t *Transaction) Add(ins ...Instruction) *Transaction {
	t.Instructions = append(t.Instructions, ins...)
	return t
}

// Signers returns the keys whose signatures the transaction requires.
func (t *Transaction) Signers() []keypair.PublicKey {
	var out []keypair.PublicKey
	seen := make(map[keypair.PublicKey]struct{})
	add := func(pk keypair.PublicKey) {
		if _, ok := seen[pk]; ok {
			return
		}
		seen[pk] = struct{}{}
		out = append(out, pk)
	}

	if t.FeePayer != nil {
		add(*t.FeePayer)
	}
	for _, ins := range t.Instructions {
		for _, meta := range ins.Keys {
			if meta.IsSigner {
				add(meta.PublicKey)
			}
		}
	}
	return out
}

// wire layout of the signed bytes
type message struct {
	Signers         []keypair.PublicKey
	RecentBlockhash string
	Instructions    []Instruction
}

// Message returns the bytes signers commit to.
func (t *Transaction) Message() ([]byte, error) {
	if t.FeePayer == nil {
		return nil, ErrFeePayerRequired
	}
	if t.RecentBlockhash == "" {
		return nil, ErrBlockhashRequired
	}

	b, err := rlp.EncodeToBytes(message{
		Signers:         t.Signers(),
		RecentBlockhash: t.RecentBlockhash,
		Instructions:    t.Instructions,
	})
	if err != nil {
		return nil, fmt.Errorf("encode message: %w", err)
	}
	return b, nil
}

// Hash is the keccak256 digest of the message. It identifies the
// transaction in command output and does not change when signatures are added.
func (t *Transaction) Hash() (common.Hash, error) {
	msg, err := t.Message()
	if err != nil {
		return common.Hash{}, err
	}
	return crypto.Keccak256Hash(msg), nil
}

// PartialSign signs the message with each key pair and fills the matching
// signature slots. Signatures from other signers are kept.
func (t *Transaction) PartialSign(kps ...*keypair.KeyPair) error {
	msg, err := t.Message()
	if err != nil {
		return err
	}
	t.syncSlots()

	for _, kp := range kps {
		idx := t.slot(kp.PublicKey())
		if idx < 0 {
			return fmt.Errorf("%w: %s", ErrUnknownSigner, kp.PublicKey())
		}
		t.Signatures[idx].Signature = kp.Sign(msg)
	}
	return nil
}

// Signature returns the fee payer's signature, or nil if unsigned.
func (t *Transaction) Signature() []byte {
	if len(t.Signatures) == 0 {
		return nil
	}
	return t.Signatures[0].Signature
}

// VerifySignatures checks every present signature against the current
// message. With requireAll, missing signatures also fail.
func (t *Transaction) VerifySignatures(requireAll bool) bool {
	msg, err := t.Message()
	if err != nil {
		return false
	}
	signers := t.Signers()
	if len(t.Signatures) != len(signers) {
		return false
	}
	for i, pair := range t.Signatures {
		if pair.PublicKey != signers[i] {
			return false
		}
		if pair.Signature == nil {
			if requireAll {
				return false
			}
			continue
		}
		if !pair.PublicKey.Verify(msg, pair.Signature) {
			return false
		}
	}
	return true
}

// syncSlots lays out one slot per signer, carrying over existing signatures.
func (t *Transaction) syncSlots() {
	existing := make(map[keypair.PublicKey][]byte, len(t.Signatures))
	for _, pair := range t.Signatures {
		existing[pair.PublicKey] = pair.Signature
	}

	signers := t.Signers()
	slots := make([]SignaturePair, len(signers))
	for i, pk := range signers {
		slots[i] = SignaturePair{PublicKey: pk, Signature: existing[pk]}
	}
	t.Signatures = slots
}

func (t *Transaction) slot(pk keypair.PublicKey) int {
	for i, pair := range t.Signatures {
		if pair.PublicKey == pk {
			return i
		}
	}
	return -1
}
