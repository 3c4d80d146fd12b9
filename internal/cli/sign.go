package cli

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"io"

	"github.com/mr-tron/base58"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/yolodolo42/testwallet/internal/tx"
	"github.com/yolodolo42/testwallet/internal/ui"
)

var signMessageCmd = &cobra.Command{
	Use:   "sign-message <message>",
	Short: "Connect the wallet and sign a message",
	Long: `Sign the exact bytes of a message and print the base58 signature.

Use --hex to pass raw bytes instead of text.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := loadSettings(viper.GetViper())
		if err != nil {
			return err
		}
		isHex, _ := cmd.Flags().GetBool("hex")
		message, err := decodeMessage(args[0], isHex)
		if err != nil {
			return err
		}
		return runSignMessage(cmd.Context(), defaultStreams(cmd.OutOrStdout()), s, message)
	},
}

var signTxCmd = &cobra.Command{
	Use:   "sign-tx [memo]",
	Short: "Connect the wallet and sign memo transactions",
	Long: `Build memo transactions paid by the wallet key and sign them.

With --count greater than one the batch goes through signAllTransactions.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := loadSettings(viper.GetViper())
		if err != nil {
			return err
		}
		memo := "testwallet"
		if len(args) == 1 {
			memo = args[0]
		}
		count, _ := cmd.Flags().GetInt("count")
		blockhash, _ := cmd.Flags().GetString("blockhash")
		return runSignTx(cmd.Context(), defaultStreams(cmd.OutOrStdout()), s, memo, blockhash, count)
	},
}

func init() {
	signMessageCmd.Flags().Bool("hex", false, "Message argument is hex encoded")
	signTxCmd.Flags().Int("count", 1, "Number of transactions to sign")
	signTxCmd.Flags().String("blockhash", "", "Recent blockhash (base58); random when empty")

	rootCmd.AddCommand(signMessageCmd)
	rootCmd.AddCommand(signTxCmd)
}

func decodeMessage(arg string, isHex bool) ([]byte, error) {
	if !isHex {
		return []byte(arg), nil
	}
	b, err := hex.DecodeString(arg)
	if err != nil {
		return nil, fmt.Errorf("decode message: %w", err)
	}
	return b, nil
}

func runSignMessage(ctx context.Context, streams ioStreams, s settings, message []byte) error {
	e, err := connected(ctx, s, streams)
	if err != nil {
		return err
	}
	defer e.Close()

	sig, err := e.adapter.SignMessage(ctx, message)
	if err != nil {
		return err
	}

	pk := e.adapter.PublicKey()
	fmt.Fprintf(streams.Out, "Public key: %s\n", pk)
	fmt.Fprintf(streams.Out, "Signature:  %s\n", base58.Encode(sig))
	printVerified(streams.Out, pk.Verify(message, sig))
	return nil
}

func runSignTx(ctx context.Context, streams ioStreams, s settings, memo, blockhash string, count int) error {
	if count < 1 {
		return fmt.Errorf("count must be at least 1")
	}
	if blockhash == "" {
		var err error
		if blockhash, err = randomBlockhash(); err != nil {
			return err
		}
	}

	e, err := connected(ctx, s, streams)
	if err != nil {
		return err
	}
	defer e.Close()

	pk := e.adapter.PublicKey()
	txs := make([]*tx.Transaction, count)
	for i := range txs {
		txs[i] = tx.New(tx.Options{FeePayer: pk, RecentBlockhash: blockhash}).
			Add(tx.Memo(*pk, memo))
	}

	if count == 1 {
		_, err = e.adapter.SignTransaction(ctx, txs[0])
	} else {
		_, err = e.adapter.SignAllTransactions(ctx, txs)
	}
	if err != nil {
		return err
	}

	fmt.Fprintf(streams.Out, "Fee payer: %s\n", pk)
	for i, t := range txs {
		hash, err := t.Hash()
		if err != nil {
			return err
		}
		fmt.Fprintf(streams.Out, "[%d] %s\n    hash %s ", i, base58.Encode(t.Signature()), hash.Hex())
		printVerified(streams.Out, t.VerifySignatures(true))
	}
	return nil
}

func randomBlockhash() (string, error) {
	var b [32]byte
	if _, err := rand.Read(b[:]); err != nil {
		return "", fmt.Errorf("generate blockhash: %w", err)
	}
	return base58.Encode(b[:]), nil
}

func printVerified(w io.Writer, ok bool) {
	if ok {
		fmt.Fprintln(w, ui.SuccessStyle.Render(ui.SymbolCheck+" verified"))
		return
	}
	fmt.Fprintln(w, ui.ErrorStyle.Render(ui.SymbolCross+" verification failed"))
}
