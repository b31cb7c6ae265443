package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/smallyu/go-stealth/internal/wire"
	"github.com/smallyu/go-stealth/pkg/stealthpay"
)

func newScanCmd(a *app) *cobra.Command {
	scanCmd := &cobra.Command{
		Use:   "scan",
		Short: "Find the payments addressed to a receiver",
		Long: `Scan a JSON array of payment events and print those addressed to the
receiver, with the recovered stealth private key and decrypted notes.

With --spend-pub instead of --spend-priv the scan is view-only: matches
are found and notes decrypted, but no private key is recovered.

Event format (byte fields are hex):
  [{"owner": "0x...", "payer": "0x...", "amount": 1000,
    "ephemeralPub": "0x02...", "viewTag": 17,
    "encryptedLabel": "0x...", "encryptedNote": "0x..."}]

Examples:
  stealthctl scan --events events.json --spend-priv 0x... --view-priv 0x...
  stealthctl scan --events events.json --spend-pub 0x03... --view-priv 0x...`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path, _ := cmd.Flags().GetString("events")
			f, err := os.Open(path)
			if err != nil {
				return err
			}
			defer f.Close()
			events, err := wire.ReadEvents(f)
			if err != nil {
				return err
			}

			viewPriv, err := keyFlag(cmd, "view-priv")
			if err != nil {
				return err
			}
			defer clear(viewPriv)

			var results []stealthpay.ScanResult
			switch {
			case cmd.Flags().Changed("spend-priv"):
				spendPriv, err := keyFlag(cmd, "spend-priv")
				if err != nil {
					return err
				}
				defer clear(spendPriv)
				keys := &stealthpay.MetaKeys{SpendPriv: spendPriv, ViewPriv: viewPriv}
				results, err = a.protocol.ScanBatch(cmd.Context(), keys, events)
				if err != nil {
					return err
				}
			case cmd.Flags().Changed("spend-pub"):
				spendPub, err := keyFlag(cmd, "spend-pub")
				if err != nil {
					return err
				}
				results, err = a.protocol.ScanBatchViewOnly(cmd.Context(), spendPub, viewPriv, events)
				if err != nil {
					return err
				}
			default:
				return errors.New("one of --spend-priv or --spend-pub is required")
			}

			for _, r := range results {
				if r.Err != nil {
					a.logger.Warn().Int("index", r.Index).Err(r.Err).Msg("skipping malformed event")
				}
			}
			matches := wire.Matches(results)
			a.logger.Info().Int("events", len(events)).Int("matched", len(matches)).Msg("scan complete")
			return wire.Write(cmd.OutOrStdout(), matches)
		},
	}
	scanCmd.Flags().String("events", "", "path to a JSON array of events")
	scanCmd.Flags().String("spend-priv", "", "spend private key")
	scanCmd.Flags().String("spend-pub", "", "spend public key for a view-only scan")
	scanCmd.Flags().String("view-priv", "", "view private key")
	addKeyEncodingFlag(scanCmd)
	_ = scanCmd.MarkFlagRequired("events")
	_ = scanCmd.MarkFlagRequired("view-priv")
	scanCmd.MarkFlagsMutuallyExclusive("spend-priv", "spend-pub")
	return scanCmd
}

// addKeyEncodingFlag registers --key-encoding, read by keyFlag.
func addKeyEncodingFlag(cmd *cobra.Command) {
	cmd.Flags().String("key-encoding", wire.EncodingHex, "encoding of key and blob flags: hex or base58")
}

func keyFlag(cmd *cobra.Command, name string) ([]byte, error) {
	s, _ := cmd.Flags().GetString(name)
	encoding, _ := cmd.Flags().GetString("key-encoding")
	b, err := wire.DecodeArg(s, encoding)
	if err != nil {
		return nil, fmt.Errorf("--%s: %w", name, err)
	}
	return b, nil
}
