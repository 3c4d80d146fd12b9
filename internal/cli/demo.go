package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/mr-tron/base58"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/yolodolo42/testwallet/internal/adapter"
	"github.com/yolodolo42/testwallet/internal/tx"
	"github.com/yolodolo42/testwallet/internal/ui"
)

var demoCmd = &cobra.Command{
	Use:   "demo",
	Short: "Walk the wallet through a full connect, sign and disconnect cycle",
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := loadSettings(viper.GetViper())
		if err != nil {
			return err
		}
		return runDemo(cmd.Context(), defaultStreams(cmd.OutOrStdout()), s)
	},
}

func init() {
	rootCmd.AddCommand(demoCmd)
}

func runDemo(ctx context.Context, streams ioStreams, s settings) error {
	e, err := newEnv(s, streams)
	if err != nil {
		return err
	}
	defer e.Close()

	a := e.adapter
	out := streams.Out
	for _, kind := range []adapter.EventKind{adapter.EventConnect, adapter.EventDisconnect, adapter.EventError} {
		a.On(kind, func(ev adapter.Event) {
			fmt.Fprintln(out, ui.DimStyle.Render("  event: "+describeEvent(ev)))
		})
	}

	fmt.Fprintf(out, "%s %s (%s)\n", ui.TitleStyle.Render(a.Name()), a.URL(), a.ReadyState())

	step(out, "connect")
	if err := a.Connect(ctx); err != nil {
		return err
	}
	pk := a.PublicKey()

	step(out, "sign message")
	message := []byte("testwallet demo")
	sig, err := a.SignMessage(ctx, message)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "  signature: %s\n", base58.Encode(sig))

	blockhash, err := randomBlockhash()
	if err != nil {
		return err
	}
	newTx := func(memo string) *tx.Transaction {
		return tx.New(tx.Options{FeePayer: pk, RecentBlockhash: blockhash}).Add(tx.Memo(*pk, memo))
	}

	step(out, "sign transaction")
	signed, err := a.SignTransaction(ctx, newTx("demo"))
	if err != nil {
		return err
	}
	hash, err := signed.Hash()
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "  signature: %s\n", base58.Encode(signed.Signature()))
	fmt.Fprintf(out, "  hash:      %s\n", hash.Hex())

	step(out, "sign all transactions")
	batch := []*tx.Transaction{newTx("demo 1"), newTx("demo 2"), newTx("demo 3")}
	if _, err := a.SignAllTransactions(ctx, batch); err != nil {
		return err
	}
	for i, t := range batch {
		fmt.Fprintf(out, "  [%d] %s\n", i, base58.Encode(t.Signature()))
	}

	step(out, "disconnect")
	if err := a.Disconnect(ctx); err != nil {
		return err
	}

	step(out, "sign after disconnect")
	if _, err := a.SignMessage(ctx, message); err != nil {
		fmt.Fprintf(out, "  %s\n", ui.ErrorStyle.Render(err.Error()))
	}

	if e.recorder != nil {
		e.recorder.Note("demo", "completed")
		fmt.Fprintf(out, "Session log: %s\n", e.recorder.Path())
	}
	return nil
}

func step(w io.Writer, name string) {
	fmt.Fprintln(w, ui.SelectorActive.Render(ui.SymbolArrow+" "+name))
}

func describeEvent(ev adapter.Event) string {
	switch ev.Kind {
	case adapter.EventConnect:
		return fmt.Sprintf("%s %s", ev.Kind, ev.PublicKey)
	case adapter.EventError:
		return fmt.Sprintf("%s %v", ev.Kind, ev.Err)
	}
	return string(ev.Kind)
}
