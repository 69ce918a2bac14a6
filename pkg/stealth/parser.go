package stealth

import (
	"encoding/csv"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/eightyfourcoin/novacoin/pkg/keys"
	jsoniter "github.com/json-iterator/go"
)

// VariantParser defines the interface for loading variants from various
// sources.
type VariantParser interface {
	// ParseVariants parses variants from a source and returns them.
	ParseVariants(source string) ([]*Variant, error)
}

// JSONParser parses variants from JSON files.
type JSONParser struct {
	EphemeralField string // Field name for R (default: "r")
	OneTimeField   string // Field name for P (default: "p")
}

// ParseVariants parses variants from a JSON file.
//
// Expected format:
//
//	[
//	  {"r": "02...", "p": "03..."},
//	  {"r": "0x03...", "p": "0x02..."}
//	]
func (p *JSONParser) ParseVariants(jsonFile string) ([]*Variant, error) {
	file, err := os.Open(jsonFile)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	defer file.Close()

	var json = jsoniter.ConfigCompatibleWithStandardLibrary

	var items []map[string]string
	if err := json.NewDecoder(file).Decode(&items); err != nil {
		return nil, fmt.Errorf("failed to parse JSON: %w", err)
	}

	rField := p.EphemeralField
	if rField == "" {
		rField = "r"
	}
	pField := p.OneTimeField
	if pField == "" {
		pField = "p"
	}

	variants := make([]*Variant, 0, len(items))
	for i, item := range items {
		rHex, ok := item[rField]
		if !ok {
			return nil, fmt.Errorf("item %d: missing %s field", i, rField)
		}
		pHex, ok := item[pField]
		if !ok {
			return nil, fmt.Errorf("item %d: missing %s field", i, pField)
		}

		v, err := decodeVariant(rHex, pHex)
		if err != nil {
			return nil, fmt.Errorf("item %d: %w", i, err)
		}
		variants = append(variants, v)
	}

	return variants, nil
}

// CSVParser parses variants from CSV files with a header row.
type CSVParser struct {
	EphemeralCol string // Column name for R (default: "r")
	OneTimeCol   string // Column name for P (default: "p")
}

// ParseVariants parses variants from a CSV file.
func (p *CSVParser) ParseVariants(csvFile string) ([]*Variant, error) {
	file, err := os.Open(csvFile)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}

	rCol := p.EphemeralCol
	if rCol == "" {
		rCol = "r"
	}
	pCol := p.OneTimeCol
	if pCol == "" {
		pCol = "p"
	}

	rIdx, pIdx := -1, -1
	for i, col := range header {
		switch col {
		case rCol:
			rIdx = i
		case pCol:
			pIdx = i
		}
	}
	if rIdx == -1 || pIdx == -1 {
		return nil, fmt.Errorf("missing required columns: %s or %s", rCol, pCol)
	}

	variants := make([]*Variant, 0)
	for line := 2; ; line++ {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read record: %w", err)
		}
		if rIdx >= len(record) || pIdx >= len(record) {
			return nil, fmt.Errorf("line %d: column index out of range", line)
		}

		v, err := decodeVariant(record[rIdx], record[pIdx])
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		variants = append(variants, v)
	}

	return variants, nil
}

func decodeVariant(rHex, pHex string) (*Variant, error) {
	r, err := hexDecode(rHex)
	if err != nil {
		return nil, fmt.Errorf("failed to decode ephemeral key: %w", err)
	}
	p, err := hexDecode(pHex)
	if err != nil {
		return nil, fmt.Errorf("failed to decode one-time key: %w", err)
	}

	ephemeral, err := keys.ParsePublicKey(r)
	if err != nil {
		return nil, fmt.Errorf("ephemeral key: %w", err)
	}
	oneTime, err := keys.ParsePublicKey(p)
	if err != nil {
		return nil, fmt.Errorf("one-time key: %w", err)
	}
	return &Variant{Ephemeral: ephemeral, OneTime: oneTime}, nil
}

// hexDecode decodes a hex string, handling 0x prefix
func hexDecode(s string) ([]byte, error) {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "0x")
	s = strings.TrimPrefix(s, "0X")
	return hex.DecodeString(s)
}
