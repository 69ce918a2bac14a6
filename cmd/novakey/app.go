package main

import (
	"encoding/hex"
	"errors"
	"fmt"
	"strings"

	"github.com/eightyfourcoin/novacoin/internal/ulogger"
	"github.com/eightyfourcoin/novacoin/pkg/compact"
	"github.com/eightyfourcoin/novacoin/pkg/keys"
	"github.com/eightyfourcoin/novacoin/pkg/stealth"
	"github.com/urfave/cli/v2"
)

// errNotOwned is returned by stealth-check when the variant belongs to
// somebody else, so scripts can rely on the exit status.
var errNotOwned = errors.New("variant is not owned by this pair")

// errInvalidSignature is returned by verify when the signature recovers a
// different key.
var errInvalidSignature = errors.New("signature does not match public key")

type commands struct {
	logger ulogger.Logger
}

func newApp() *cli.App {
	cmds := &commands{logger: ulogger.NopLogger{}}

	secretFlags := func() []cli.Flag {
		return []cli.Flag{
			&cli.StringFlag{Name: "scan-secret", Usage: "32-byte scan secret l", Required: true},
			&cli.StringFlag{Name: "spend-secret", Usage: "32-byte spend secret h", Required: true},
		}
	}

	return &cli.App{
		Name:  "novakey",
		Usage: "secp256k1 keys, compact signatures and stealth addresses",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Value:   "INFO",
				Usage:   "log level (DEBUG, INFO, WARN, ERROR)",
				EnvVars: []string{"NOVAKEY_LOG_LEVEL"},
			},
			&cli.BoolFlag{
				Name:    "pretty-logs",
				Value:   true,
				Usage:   "human readable log output",
				EnvVars: []string{"NOVAKEY_PRETTY_LOGS"},
			},
		},
		Before: func(c *cli.Context) error {
			cmds.logger = ulogger.New("novakey",
				ulogger.WithWriter(c.App.ErrWriter),
				ulogger.WithLevel(c.String("log-level")),
				ulogger.WithPretty(c.Bool("pretty-logs")),
			)
			return nil
		},
		Commands: []*cli.Command{
			{
				Name:   "keygen",
				Usage:  "Generate a private key",
				Action: cmds.keygen,
				Flags: []cli.Flag{
					&cli.BoolFlag{Name: "uncompressed", Usage: "use the 65-byte public key encoding"},
				},
			},
			{
				Name:   "sign",
				Usage:  "Create a 65-byte compact signature over a 32-byte digest",
				Action: cmds.sign,
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "secret", Usage: "32-byte private key", Required: true},
					&cli.StringFlag{Name: "digest", Usage: "32-byte digest", Required: true},
					&cli.BoolFlag{Name: "uncompressed", Usage: "mark the key as uncompressed in the header"},
				},
			},
			{
				Name:   "recover",
				Usage:  "Recover the public key from a compact signature",
				Action: cmds.recover,
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "digest", Usage: "32-byte digest", Required: true},
					&cli.StringFlag{Name: "signature", Usage: "65-byte compact signature", Required: true},
				},
			},
			{
				Name:   "verify",
				Usage:  "Verify a compact signature against a public key",
				Action: cmds.verify,
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "digest", Usage: "32-byte digest", Required: true},
					&cli.StringFlag{Name: "signature", Usage: "65-byte compact signature", Required: true},
					&cli.StringFlag{Name: "pubkey", Usage: "expected public key", Required: true},
				},
			},
			{
				Name:   "stealth-keygen",
				Usage:  "Generate a scan/spend pair and its published address",
				Action: cmds.stealthKeygen,
			},
			{
				Name:   "stealth-derive",
				Usage:  "Derive a one-time key for a published address",
				Action: cmds.stealthDerive,
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "address", Usage: "66-byte stealth address", Required: true},
				},
			},
			{
				Name:   "stealth-check",
				Usage:  "Check whether a variant belongs to a pair",
				Action: cmds.stealthCheck,
				Flags: append(secretFlags(),
					&cli.StringFlag{Name: "ephemeral", Usage: "ephemeral public key R", Required: true},
					&cli.StringFlag{Name: "onetime", Usage: "one-time public key P", Required: true},
				),
			},
			{
				Name:   "stealth-scan",
				Usage:  "Scan a file of variants for those owned by a pair",
				Action: cmds.stealthScan,
				Flags: append(secretFlags(),
					&cli.StringFlag{Name: "variants", Usage: "path to the variant file", Required: true},
					&cli.StringFlag{Name: "format", Value: "json", Usage: "variant file format (json or csv)"},
					&cli.IntFlag{
						Name:    "workers",
						Usage:   "number of parallel workers (0 = auto-detect based on CPU cores)",
						EnvVars: []string{"NOVAKEY_WORKERS"},
					},
					&cli.BoolFlag{Name: "stop-on-error", Usage: "abort on the first invalid variant"},
				),
			},
		},
	}
}

func (cmds *commands) keygen(c *cli.Context) error {
	key, err := keys.GeneratePrivateKey(!c.Bool("uncompressed"))
	if err != nil {
		return err
	}
	defer key.Zero()

	der, err := key.MarshalDER()
	if err != nil {
		return err
	}
	defer clear(der)

	secret, _ := key.Secret()
	defer clear(secret[:])

	fmt.Fprintf(c.App.Writer, "secret: %x\n", secret)
	fmt.Fprintf(c.App.Writer, "pubkey: %x\n", key.PubKey().Bytes())
	fmt.Fprintf(c.App.Writer, "der:    %x\n", der)

	return nil
}

func (cmds *commands) sign(c *cli.Context) error {
	key, err := secretFlag(c, "secret", !c.Bool("uncompressed"))
	if err != nil {
		return err
	}
	defer key.Zero()

	digest, err := hexFlag(c, "digest")
	if err != nil {
		return err
	}

	sig, err := compact.Sign(digest, key)
	if err != nil {
		return fmt.Errorf("failed to sign: %w", err)
	}
	cmds.logger.Debugf("signed with header %d", sig[0])

	fmt.Fprintf(c.App.Writer, "%x\n", sig)
	return nil
}

func (cmds *commands) recover(c *cli.Context) error {
	digest, err := hexFlag(c, "digest")
	if err != nil {
		return err
	}
	sig, err := hexFlag(c, "signature")
	if err != nil {
		return err
	}

	pub, err := compact.RecoverFrom(digest, sig)
	if err != nil {
		return fmt.Errorf("failed to recover public key: %w", err)
	}

	fmt.Fprintf(c.App.Writer, "%x\n", pub.Bytes())
	return nil
}

func (cmds *commands) verify(c *cli.Context) error {
	digest, err := hexFlag(c, "digest")
	if err != nil {
		return err
	}
	sig, err := hexFlag(c, "signature")
	if err != nil {
		return err
	}
	pub, err := pubKeyFlag(c, "pubkey")
	if err != nil {
		return err
	}

	ok, err := compact.Verify(digest, sig, pub)
	if err != nil {
		return fmt.Errorf("failed to verify: %w", err)
	}
	if !ok {
		return errInvalidSignature
	}

	fmt.Fprintln(c.App.Writer, "valid")
	return nil
}

func (cmds *commands) stealthKeygen(c *cli.Context) error {
	pair, err := stealth.GeneratePair()
	if err != nil {
		return err
	}
	defer pair.Zero()

	scan, spend := pair.Secrets()
	defer clear(scan[:])
	defer clear(spend[:])

	fmt.Fprintf(c.App.Writer, "scan-secret:  %x\n", scan)
	fmt.Fprintf(c.App.Writer, "spend-secret: %x\n", spend)
	fmt.Fprintf(c.App.Writer, "address:      %x\n", pair.Address().Bytes())

	return nil
}

func (cmds *commands) stealthDerive(c *cli.Context) error {
	b, err := hexFlag(c, "address")
	if err != nil {
		return err
	}
	addr, err := stealth.ParseAddress(b)
	if err != nil {
		return err
	}

	variant, err := stealth.DeriveVariant(addr)
	if err != nil {
		return fmt.Errorf("failed to derive variant: %w", err)
	}

	fmt.Fprintf(c.App.Writer, "ephemeral: %x\n", variant.Ephemeral.SerializeCompressed())
	fmt.Fprintf(c.App.Writer, "onetime:   %x\n", variant.OneTime.SerializeCompressed())
	return nil
}

func (cmds *commands) stealthCheck(c *cli.Context) error {
	pair, err := pairFlags(c)
	if err != nil {
		return err
	}
	defer pair.Zero()

	ephemeral, err := pubKeyFlag(c, "ephemeral")
	if err != nil {
		return err
	}
	oneTime, err := pubKeyFlag(c, "onetime")
	if err != nil {
		return err
	}
	variant := &stealth.Variant{Ephemeral: ephemeral, OneTime: oneTime}

	key, owned, err := pair.CheckVariant(variant)
	if err != nil {
		return fmt.Errorf("failed to check variant: %w", err)
	}
	if !owned {
		return errNotOwned
	}
	defer key.Zero()

	secret, _ := key.Secret()
	defer clear(secret[:])

	fmt.Fprintf(c.App.Writer, "owned: %x\n", secret)
	return nil
}

func (cmds *commands) stealthScan(c *cli.Context) error {
	pair, err := pairFlags(c)
	if err != nil {
		return err
	}
	defer pair.Zero()

	var parser stealth.VariantParser
	switch strings.ToLower(c.String("format")) {
	case "json":
		parser = &stealth.JSONParser{}
	case "csv":
		parser = &stealth.CSVParser{}
	default:
		return fmt.Errorf("unknown variant format %q", c.String("format"))
	}

	scanner := stealth.NewScanner().
		WithConfig(stealth.ScanConfig{
			NumWorkers:  c.Int("workers"),
			StopOnError: c.Bool("stop-on-error"),
		}).
		WithLogger(cmds.logger.New("scanner"))

	client := stealth.NewClient().WithParser(parser).WithScanner(scanner)

	result, err := client.ScanFile(c.Context, c.String("variants"), pair)
	if err != nil {
		return err
	}

	for _, m := range result.Matches {
		secret, _ := m.Key.Secret()
		fmt.Fprintf(c.App.Writer, "%d %x %x\n", m.Index, m.Variant.OneTime.SerializeCompressed(), secret)
		clear(secret[:])
		m.Key.Zero()
	}
	cmds.logger.Infof("scanned %d variants, %d owned, %d invalid", result.Scanned, len(result.Matches), result.Invalid)

	return nil
}

func hexFlag(c *cli.Context, name string) ([]byte, error) {
	s := strings.TrimPrefix(strings.TrimSpace(c.String(name)), "0x")
	b, err := hex.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("--%s: %w", name, err)
	}
	return b, nil
}

// pubKeyFlag parses a compressed or uncompressed public key.
func pubKeyFlag(c *cli.Context, name string) (*keys.PublicKey, error) {
	b, err := hexFlag(c, name)
	if err != nil {
		return nil, err
	}
	pub, err := keys.ParsePublicKey(b)
	if err != nil {
		return nil, fmt.Errorf("--%s: %w", name, err)
	}
	return pub, nil
}

func secretFlag(c *cli.Context, name string, compressed bool) (*keys.PrivateKey, error) {
	b, err := hexFlag(c, name)
	if err != nil {
		return nil, err
	}
	defer clear(b)

	key, err := keys.PrivateKeyFromSecret(b, compressed)
	if err != nil {
		return nil, fmt.Errorf("--%s: %w", name, err)
	}
	return key, nil
}

func pairFlags(c *cli.Context) (*stealth.Pair, error) {
	scan, err := hexFlag(c, "scan-secret")
	if err != nil {
		return nil, err
	}
	defer clear(scan)

	spend, err := hexFlag(c, "spend-secret")
	if err != nil {
		return nil, err
	}
	defer clear(spend)

	return stealth.PairFromSecrets(scan, spend)
}
