package tx

import "github.com/yolodolo42/testwallet/internal/keypair"

// MemoProgramID is the address of the on-chain memo program.
var MemoProgramID = mustParse("MemoSq4gqABAXKb96qnH8TysNcWxMyWCqXgDLGmfcHr")

func mustParse(s string) keypair.PublicKey {
	pk, err := keypair.ParsePublicKey(s)
	if err != nil {
		panic(err)
	}
	return pk
}

// Memo builds a memo instruction signed by signer.
func Memo(signer keypair.PublicKey, memo string) Instruction {
	return Instruction{
		ProgramID: MemoProgramID,
		Keys:      []AccountMeta{{PublicKey: signer, IsSigner: true, IsWritable: false}},
		Data:      []byte(memo),
	}
}
