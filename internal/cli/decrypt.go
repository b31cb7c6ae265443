package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/smallyu/go-stealth/internal/codec"
)

func newDecryptCmd(a *app) *cobra.Command {
	decryptCmd := &cobra.Command{
		Use:   "decrypt",
		Short: "Decrypt a payment label or note",
		Long: `Decrypt one encrypted label or note with the receiver's view key.

Examples:
  stealthctl decrypt --blob 0x... --ephemeral-pub 0x02... --view-priv 0x...`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			blob, err := keyFlag(cmd, "blob")
			if err != nil {
				return err
			}
			ephPub, err := keyFlag(cmd, "ephemeral-pub")
			if err != nil {
				return err
			}
			viewPriv, err := keyFlag(cmd, "view-priv")
			if err != nil {
				return err
			}
			defer clear(viewPriv)

			plaintext, err := a.protocol.DecryptPayload(blob, ephPub, viewPriv)
			if err != nil {
				return err
			}
			if raw, _ := cmd.Flags().GetBool("hex"); raw {
				_, err = fmt.Fprintln(cmd.OutOrStdout(), codec.EncodeHex(plaintext))
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), string(plaintext))
			return err
		},
	}
	decryptCmd.Flags().String("blob", "", "encrypted payload")
	decryptCmd.Flags().String("ephemeral-pub", "", "ephemeral public key of the payment")
	decryptCmd.Flags().String("view-priv", "", "view private key")
	decryptCmd.Flags().Bool("hex", false, "print the plaintext as hex")
	addKeyEncodingFlag(decryptCmd)
	for _, name := range []string{"blob", "ephemeral-pub", "view-priv"} {
		_ = decryptCmd.MarkFlagRequired(name)
	}
	return decryptCmd
}
