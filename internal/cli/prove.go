package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/smallyu/go-stealth/internal/codec"
)

var errProofRejected = errors.New("ownership proof rejected")

func newProveCmd(a *app) *cobra.Command {
	proveCmd := &cobra.Command{
		Use:   "prove",
		Short: "Prove control of a stealth address",
		Long: `Produce a proof that you hold the private key of a stealth address,
bound to a context string chosen by the verifier.

Examples:
  stealthctl prove --stealth-priv 0x... --context "challenge-7f1c"`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			priv, err := keyFlag(cmd, "stealth-priv")
			if err != nil {
				return err
			}
			defer clear(priv)
			context, _ := cmd.Flags().GetString("context")

			proof, err := a.protocol.ProveOwnership(priv, []byte(context))
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), codec.EncodeHex(proof))
			return err
		},
	}
	proveCmd.Flags().String("stealth-priv", "", "stealth private key")
	proveCmd.Flags().String("context", "", "context the proof is bound to")
	addKeyEncodingFlag(proveCmd)
	_ = proveCmd.MarkFlagRequired("stealth-priv")
	return proveCmd
}

func newVerifyCmd(a *app) *cobra.Command {
	verifyCmd := &cobra.Command{
		Use:   "verify",
		Short: "Verify an ownership proof",
		Long: `Check that a proof shows control of the given stealth address. Exits
non-zero when the proof is rejected.

Examples:
  stealthctl verify --address 0x... --stealth-pub 0x02... --context "challenge-7f1c" --proof 0x...`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			addr, _ := cmd.Flags().GetString("address")
			context, _ := cmd.Flags().GetString("context")
			pub, err := keyFlag(cmd, "stealth-pub")
			if err != nil {
				return err
			}
			proof, err := keyFlag(cmd, "proof")
			if err != nil {
				return err
			}

			ok, err := a.protocol.VerifyOwnership(addr, pub, []byte(context), proof)
			if err != nil {
				return err
			}
			if !ok {
				return errProofRejected
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), "ok")
			return err
		},
	}
	verifyCmd.Flags().String("address", "", "stealth address")
	verifyCmd.Flags().String("stealth-pub", "", "stealth public key")
	verifyCmd.Flags().String("context", "", "context the proof is bound to")
	verifyCmd.Flags().String("proof", "", "ownership proof")
	addKeyEncodingFlag(verifyCmd)
	for _, name := range []string{"address", "stealth-pub", "proof"} {
		_ = verifyCmd.MarkFlagRequired(name)
	}
	return verifyCmd
}
