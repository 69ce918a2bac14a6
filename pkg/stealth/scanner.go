package stealth

import (
	"context"
	"fmt"
	"runtime"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/eightyfourcoin/novacoin/internal/ulogger"
	"github.com/eightyfourcoin/novacoin/pkg/keys"
	"golang.org/x/sync/errgroup"
)

// ScanConfig configures a Scanner.
type ScanConfig struct {
	// NumWorkers controls parallelization (0 = auto-detect)
	NumWorkers int

	// StopOnError aborts the scan on the first variant that fails to
	// decode or validate.  When false such variants are counted and
	// skipped.
	StopOnError bool
}

// DefaultScanConfig returns a configuration that uses every CPU and skips
// invalid variants.
func DefaultScanConfig() ScanConfig {
	return ScanConfig{
		NumWorkers:  0, // Auto-detect
		StopOnError: false,
	}
}

// Match is a variant that belongs to the scanning pair.
type Match struct {
	Index   int              // Position of the variant in the scanned slice
	Variant *Variant         // The owned variant
	Key     *keys.PrivateKey // One-time private key for Variant.OneTime
}

// ScanResult summarizes a scan.
type ScanResult struct {
	Matches []Match // Owned variants in input order
	Scanned int64   // Variants checked
	Invalid int64   // Variants skipped because they failed validation
}

// Scanner checks many variants against one pair in parallel.
type Scanner struct {
	config ScanConfig
	logger ulogger.Logger
}

// NewScanner creates a scanner with default settings.
func NewScanner() *Scanner {
	initPrometheusMetrics()

	return &Scanner{
		config: DefaultScanConfig(),
		logger: ulogger.NopLogger{},
	}
}

// WithConfig sets the scan configuration.
func (s *Scanner) WithConfig(config ScanConfig) *Scanner {
	s.config = config
	return s
}

// WithWorkers sets the number of parallel workers.
func (s *Scanner) WithWorkers(n int) *Scanner {
	s.config.NumWorkers = n
	return s
}

// WithLogger sets the logger used for progress reporting.
func (s *Scanner) WithLogger(logger ulogger.Logger) *Scanner {
	s.logger = logger
	return s
}

type scanItem struct {
	index   int
	variant *Variant
}

// Scan runs CheckOwnership for every variant.  Cancelling ctx stops the
// workers and returns ctx.Err(); keys already recovered are zeroed.
func (s *Scanner) Scan(ctx context.Context, pair *Pair, variants []*Variant) (*ScanResult, error) {
	initPrometheusMetrics()
	if s.logger == nil {
		s.logger = ulogger.NopLogger{}
	}

	numWorkers := s.config.NumWorkers
	if numWorkers <= 0 {
		numWorkers = runtime.NumCPU()
	}
	s.logger.Debugf("scanning %d variants with %d workers", len(variants), numWorkers)

	start := time.Now()
	defer func() {
		prometheusScannerDuration.Observe(time.Since(start).Seconds())
	}()

	g, gCtx := errgroup.WithContext(ctx)
	workChan := make(chan scanItem, numWorkers*10)

	var (
		mu      sync.Mutex
		matches []Match
		scanned atomic.Int64
		invalid atomic.Int64
	)

	// Generate work items in a separate goroutine
	g.Go(func() error {
		defer close(workChan)
		for i, v := range variants {
			select {
			case <-gCtx.Done():
				return gCtx.Err()
			case workChan <- scanItem{index: i, variant: v}:
			}
		}
		return nil
	})

	for i := 0; i < numWorkers; i++ {
		g.Go(func() error {
			for item := range workChan {
				if err := gCtx.Err(); err != nil {
					return err
				}

				key, owned, err := pair.CheckVariant(item.variant)
				scanned.Add(1)
				prometheusScannerVariants.Inc()

				if err != nil {
					invalid.Add(1)
					prometheusScannerInvalid.Inc()
					if s.config.StopOnError {
						return fmt.Errorf("variant %d: %w", item.index, err)
					}
					continue
				}

				if owned {
					prometheusScannerOwned.Inc()
					mu.Lock()
					matches = append(matches, Match{Index: item.index, Variant: item.variant, Key: key})
					mu.Unlock()
				}
			}
			return nil
		})
	}

	err := g.Wait()
	if err == nil {
		err = ctx.Err()
	}
	if err != nil {
		for _, m := range matches {
			m.Key.Zero()
		}
		return nil, err
	}

	sort.Slice(matches, func(i, j int) bool { return matches[i].Index < matches[j].Index })

	result := &ScanResult{
		Matches: matches,
		Scanned: scanned.Load(),
		Invalid: invalid.Load(),
	}
	s.logger.Debugf("scanned %d variants, %d owned, %d invalid", result.Scanned, len(matches), result.Invalid)

	return result, nil
}
