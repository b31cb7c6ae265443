package cli

import (
	"github.com/spf13/cobra"

	"github.com/smallyu/go-stealth/internal/codec"
	"github.com/smallyu/go-stealth/internal/wire"
	"github.com/smallyu/go-stealth/pkg/stealthpay"
)

func newKeysCmd(a *app) *cobra.Command {
	keysCmd := &cobra.Command{
		Use:   "keys",
		Short: "Create receiver meta keys",
		Long: `Create the spend and view key pairs of a receiver and print them with
the meta-address to publish.

Keep spendPriv secret. viewPriv can be handed to a scanning service: it
recognises payments but cannot spend them.

Examples:
  stealthctl keys generate
  stealthctl keys derive --seed "signature over a fixed message"
  stealthctl keys derive --seed 0x8f3a... --seed-encoding hex --chain sui`,
	}

	generateCmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate random meta keys",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			keys, err := a.protocol.GenerateMetaKeys()
			if err != nil {
				return err
			}
			return a.printKeys(cmd, keys)
		},
	}

	deriveCmd := &cobra.Command{
		Use:   "derive",
		Short: "Derive meta keys from a seed",
		Long: `Derive meta keys deterministically from a seed, typically a wallet
signature. The same seed and chain always give the same keys.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			seed, _ := cmd.Flags().GetString("seed")
			encoding, _ := cmd.Flags().GetString("seed-encoding")

			in, err := wire.ParseInput(seed, encoding)
			if err != nil {
				return err
			}
			b, err := codec.Decode(in)
			if err != nil {
				return err
			}
			defer clear(b)

			keys, err := a.protocol.DeriveDeterministicMetaKeys(b)
			if err != nil {
				return err
			}
			return a.printKeys(cmd, keys)
		},
	}
	deriveCmd.Flags().String("seed", "", "seed material")
	deriveCmd.Flags().String("seed-encoding", "raw", "seed encoding: raw, hex or base58")
	_ = deriveCmd.MarkFlagRequired("seed")

	keysCmd.AddCommand(generateCmd)
	keysCmd.AddCommand(deriveCmd)
	return keysCmd
}

func (a *app) printKeys(cmd *cobra.Command, keys *stealthpay.MetaKeys) error {
	defer keys.Zero()
	meta, err := a.protocol.MetaAddress(keys)
	if err != nil {
		return err
	}
	return wire.Write(cmd.OutOrStdout(), wire.NewMetaKeys(a.protocol.Chain(), meta, keys))
}
