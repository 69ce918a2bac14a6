package stealth

import (
	"context"
	"fmt"
)

// Client provides a high-level API for wallet scanning.
type Client struct {
	scanner *Scanner
	parser  VariantParser
}

// NewClient creates a new client with default settings.
func NewClient() *Client {
	return &Client{
		scanner: NewScanner(),
		parser:  &JSONParser{},
	}
}

// WithScanner sets a custom scanner.
func (c *Client) WithScanner(scanner *Scanner) *Client {
	c.scanner = scanner
	return c
}

// WithParser sets a custom variant parser.
func (c *Client) WithParser(parser VariantParser) *Client {
	c.parser = parser
	return c
}

// ScanFile loads variants from source and returns those owned by pair.
//
// Args:
//   - ctx: Context for cancellation.
//   - source: Path to a variant file (JSON or CSV, depending on the parser).
//   - pair: The recipient's scan and spend keys.
func (c *Client) ScanFile(ctx context.Context, source string, pair *Pair) (*ScanResult, error) {
	variants, err := c.parser.ParseVariants(source)
	if err != nil {
		return nil, fmt.Errorf("failed to parse variants: %w", err)
	}
	return c.ScanVariants(ctx, variants, pair)
}

// ScanVariants returns the in-memory variants owned by pair.
func (c *Client) ScanVariants(ctx context.Context, variants []*Variant, pair *Pair) (*ScanResult, error) {
	if pair == nil {
		return nil, fmt.Errorf("pair is required")
	}
	result, err := c.scanner.Scan(ctx, pair, variants)
	if err != nil {
		return nil, fmt.Errorf("scan failed: %w", err)
	}
	return result, nil
}
