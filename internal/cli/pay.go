package cli

import (
	"github.com/spf13/cobra"

	"github.com/smallyu/go-stealth/internal/wire"
	"github.com/smallyu/go-stealth/pkg/stealthpay"
)

func newPayCmd(a *app) *cobra.Command {
	payCmd := &cobra.Command{
		Use:   "pay",
		Short: "Derive a stealth address for a receiver",
		Long: `Draw a one-time ephemeral key, derive the receiver's stealth address and
encrypt the optional label and note to the receiver's view key.

Send the funds to "address" and publish ephemeralPub, viewTag and the
encrypted fields with the payment.

Examples:
  stealthctl pay --to st:sha3:0x03ab...
  stealthctl pay --to st:ethereum:0x02cd... --label rent --note "March 2026"`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			to, _ := cmd.Flags().GetString("to")
			receiver, err := stealthpay.ParseMetaAddress(to)
			if err != nil {
				return err
			}

			b := a.protocol.NewPayment(receiver)
			if cmd.Flags().Changed("label") {
				label, _ := cmd.Flags().GetString("label")
				b.WithLabel([]byte(label))
			}
			if cmd.Flags().Changed("note") {
				note, _ := cmd.Flags().GetString("note")
				b.WithNote([]byte(note))
			}

			payment, err := b.Build()
			if err != nil {
				return err
			}
			a.logger.Debug().Str("address", payment.Address).Msg("payment derived")
			return wire.Write(cmd.OutOrStdout(), wire.NewPayment(payment))
		},
	}
	payCmd.Flags().String("to", "", "receiver meta-address")
	payCmd.Flags().String("label", "", "label to encrypt to the receiver")
	payCmd.Flags().String("note", "", "note to encrypt to the receiver")
	_ = payCmd.MarkFlagRequired("to")
	return payCmd
}
