// Package stealth implements dual-key stealth addresses over secp256k1.
//
// A recipient holds two key pairs, a scan key (l, L = l*G) and a spend key
// (h, H = h*G), and publishes the Address (L, H).  To pay the recipient a
// sender picks an ephemeral secret r and computes
//
//	R = r*G
//	c = Hash160(r*L)
//	P = c*G + H
//
// and sends the funds to the one-time key P, publishing R alongside.  Since
// l*R = r*L, the recipient recomputes c from R and its scan secret, checks
// c*G + H = P, and spends with the one-time private key c + h.  The sender
// never learns h, and P can not be linked to (L, H) without l.
//
// # Quick Start
//
//	pair, err := stealth.GeneratePair()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer pair.Zero()
//
//	// Sender side, knowing only the published address.
//	variant, err := stealth.DeriveVariant(pair.Address())
//
//	// Recipient side.
//	key, owned, err := pair.CheckVariant(variant)
//
// # Scanning
//
// The Client loads published variants from a file and checks them against
// a pair in parallel:
//
//	client := stealth.NewClient().
//	    WithParser(&stealth.CSVParser{}).
//	    WithScanner(stealth.NewScanner().WithWorkers(8))
//
//	result, err := client.ScanFile(ctx, "variants.csv", pair)
//	for _, m := range result.Matches {
//	    fmt.Printf("%d: %x\n", m.Index, m.Variant.OneTime.SerializeCompressed())
//	}
package stealth
