package cli

import (
	"encoding/hex"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/yolodolo42/testwallet/internal/keypair"
	"github.com/yolodolo42/testwallet/internal/ui"
)

var keygenCmd = &cobra.Command{
	Use:   "keygen",
	Short: "Generate a test key pair",
	Long: `Generate an ed25519 key pair and store it as a JSON byte array.

Without --out the key is saved under <data-dir>/keys/<pubkey>.json.
A hex --seed makes the key deterministic.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := loadSettings(viper.GetViper())
		if err != nil {
			return err
		}
		seed, _ := cmd.Flags().GetString("seed")
		out, _ := cmd.Flags().GetString("out")
		return runKeygen(cmd.OutOrStdout(), s, seed, out)
	},
}

var keysCmd = &cobra.Command{
	Use:   "keys",
	Short: "List stored test key pairs",
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := loadSettings(viper.GetViper())
		if err != nil {
			return err
		}
		return runListKeys(cmd.OutOrStdout(), s)
	},
}

var importCmd = &cobra.Command{
	Use:   "import <keypair-file>",
	Short: "Copy a keypair file into the key store",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := loadSettings(viper.GetViper())
		if err != nil {
			return err
		}
		return runImport(cmd.OutOrStdout(), s, args[0])
	},
}

var pubkeyCmd = &cobra.Command{
	Use:   "pubkey",
	Short: "Connect the wallet and print its public key",
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := loadSettings(viper.GetViper())
		if err != nil {
			return err
		}
		e, err := connected(cmd.Context(), s, defaultStreams(cmd.OutOrStdout()))
		if err != nil {
			return err
		}
		defer e.Close()
		fmt.Fprintln(cmd.OutOrStdout(), e.adapter.PublicKey())
		return nil
	},
}

func init() {
	keygenCmd.Flags().String("seed", "", "32-byte seed as hex")
	keygenCmd.Flags().String("out", "", "Write the keypair file here instead of the key store")

	rootCmd.AddCommand(keygenCmd)
	rootCmd.AddCommand(keysCmd)
	rootCmd.AddCommand(importCmd)
	rootCmd.AddCommand(pubkeyCmd)
}

func runKeygen(w io.Writer, s settings, seedHex, out string) error {
	kp, err := newKeyPair(seedHex)
	if err != nil {
		return err
	}

	path := out
	if path == "" {
		store, err := keypair.NewStore(s.DataDir)
		if err != nil {
			return err
		}
		if path, err = store.Save(kp); err != nil {
			return err
		}
	} else if err := keypair.WriteFile(path, kp); err != nil {
		return err
	}

	fmt.Fprintln(w, ui.SuccessStyle.Render("Key pair created"))
	fmt.Fprintf(w, "  Public key: %s\n", kp.PublicKey())
	fmt.Fprintf(w, "  File:       %s\n", path)
	fmt.Fprintln(w, ui.WarningStyle.Render("  Test keys only. Never fund this key on a real network."))
	return nil
}

func newKeyPair(seedHex string) (*keypair.KeyPair, error) {
	if seedHex == "" {
		return keypair.Generate(nil)
	}
	seed, err := hex.DecodeString(seedHex)
	if err != nil {
		return nil, fmt.Errorf("decode seed: %w", err)
	}
	return keypair.FromSeed(seed)
}

func runListKeys(w io.Writer, s settings) error {
	store, err := keypair.NewStore(s.DataDir)
	if err != nil {
		return err
	}
	keys, err := store.List()
	if err != nil {
		return err
	}
	if len(keys) == 0 {
		fmt.Fprintln(w, ui.DimStyle.Render("No stored key pairs. Create one with: testwallet keygen"))
		return nil
	}
	for _, pk := range keys {
		fmt.Fprintln(w, pk)
	}
	return nil
}

func runImport(w io.Writer, s settings, src string) error {
	store, err := keypair.NewStore(s.DataDir)
	if err != nil {
		return err
	}
	kp, path, err := store.Import(src)
	if err != nil {
		return err
	}
	fmt.Fprintln(w, ui.SuccessStyle.Render("Key pair imported"))
	fmt.Fprintf(w, "  Public key: %s\n", kp.PublicKey())
	fmt.Fprintf(w, "  File:       %s\n", path)
	return nil
}
