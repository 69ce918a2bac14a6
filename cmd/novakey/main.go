// Package main implements novakey, a command line tool for secp256k1 keys,
// compact recoverable signatures and dual-key stealth addresses.
//
// Usage:
//
//	novakey keygen
//	novakey sign --secret <hex> --digest <hex>
//	novakey recover --digest <hex> --signature <hex>
//	novakey verify --digest <hex> --signature <hex> --pubkey <hex>
//	novakey stealth-keygen
//	novakey stealth-derive --address <hex>
//	novakey stealth-check --scan-secret <hex> --spend-secret <hex> --ephemeral <hex> --onetime <hex>
//	novakey stealth-scan --scan-secret <hex> --spend-secret <hex> --variants <file>
//
// All binary values are read and written as hex.
package main

import (
	"os"

	"github.com/eightyfourcoin/novacoin/internal/ulogger"
)

func main() {
	app := newApp()

	if err := app.Run(os.Args); err != nil {
		ulogger.New("novakey").Fatalf("%v", err)
	}
}
