// Package cli implements the stealthctl command tree.
package cli

import (
	"io"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/smallyu/go-stealth/internal/config"
	"github.com/smallyu/go-stealth/internal/logging"
	"github.com/smallyu/go-stealth/pkg/stealthpay"
)

// app carries what every subcommand needs once flags and configuration
// have been resolved.
type app struct {
	v       *viper.Viper
	cfgFile string

	cfg      *config.Config
	logger   zerolog.Logger
	protocol *stealthpay.Protocol
}

// NewRootCmd builds the stealthctl command tree. Logs go to stderr, results
// to the command's output writer.
func NewRootCmd(stderr io.Writer) *cobra.Command {
	a := &app{v: viper.New()}

	rootCmd := &cobra.Command{
		Use:   "stealthctl",
		Short: "Stealth address payments for secp256k1 chains",
		Long: `stealthctl derives one-time stealth addresses, encrypts payment notes
and scans payment events for a receiver.

A receiver publishes a meta-address (st:<chain>:0x<spend pub><view pub>).
Payers derive a fresh address from it for every payment; only the receiver
can recognise those payments and spend from them.

Configuration is read from --config (YAML), then STEALTH_* environment
variables, then flags.

Examples:
  stealthctl keys derive --seed "wallet signature"
  stealthctl pay --to st:sha3:0x03ab... --note "invoice 42"
  stealthctl scan --events events.json --spend-priv 0x... --view-priv 0x...`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.init(stderr)
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&a.cfgFile, "config", "", "config file (YAML)")
	flags.String("chain", "", "target chain: sha3, sui or ethereum")
	flags.Int("workers", 0, "concurrent scan workers (default: number of CPUs)")
	flags.String("log-level", "", "log level: debug, info, warn, error")
	flags.String("log-format", "", "log format: console or json")

	_ = a.v.BindPFlag("chain", flags.Lookup("chain"))
	_ = a.v.BindPFlag("workers", flags.Lookup("workers"))
	_ = a.v.BindPFlag("log.level", flags.Lookup("log-level"))
	_ = a.v.BindPFlag("log.format", flags.Lookup("log-format"))

	rootCmd.AddCommand(newKeysCmd(a))
	rootCmd.AddCommand(newPayCmd(a))
	rootCmd.AddCommand(newScanCmd(a))
	rootCmd.AddCommand(newDecryptCmd(a))
	rootCmd.AddCommand(newProveCmd(a))
	rootCmd.AddCommand(newVerifyCmd(a))

	return rootCmd
}

func (a *app) init(stderr io.Writer) error {
	// Bound flags only win when passed; otherwise env, file and defaults
	// apply in that order.
	cfg, err := config.Load(a.v, a.cfgFile)
	if err != nil {
		return err
	}
	logger, err := logging.New(stderr, cfg.Log)
	if err != nil {
		return err
	}
	p, err := stealthpay.New(cfg.Chain,
		stealthpay.WithLogger(logger),
		stealthpay.WithWorkers(cfg.Workers),
	)
	if err != nil {
		return err
	}

	a.cfg = cfg
	a.logger = logger
	a.protocol = p
	logger.Debug().Str("chain", cfg.Chain).Int("workers", cfg.Workers).Msg("configuration loaded")
	return nil
}
