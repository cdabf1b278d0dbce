package charges

import (
	"os"

	"github.com/rs/zerolog"

	"billaudit/internal/domain"
)

const (
	codeTypeHCPCS = "HCPCS"
	codeTypeRC    = "RC"

	// maxLookupVariants caps how many filtered price variants a lookup
	// returns. The unfiltered total is still reported.
	maxLookupVariants = 5
)

// Index maps HCPCS code to its disclosure entry. It is built once at startup
// and is safe for concurrent reads afterwards; there is no write path after
// construction.
type Index struct {
	entries map[string]*domain.ChargeEntry
	order   []string // insertion order, for deterministic scans
}

// Build constructs an Index from a parsed disclosure dataset. Only records
// carrying an HCPCS-typed code are indexed. When the same HCPCS code appears
// in multiple records, the first record wins and later ones are dropped.
func Build(ds *Dataset, log zerolog.Logger) *Index {
	idx := &Index{entries: make(map[string]*domain.ChargeEntry)}
	if ds == nil {
		return idx
	}

	dropped := 0
	for i := range ds.StandardChargeInformation {
		rec := &ds.StandardChargeInformation[i]
		for _, ref := range rec.CodeInformation {
			if ref.Type != codeTypeHCPCS || ref.Code == "" {
				continue
			}
			if _, ok := idx.entries[ref.Code]; ok {
				dropped++
				continue
			}
			idx.entries[ref.Code] = &domain.ChargeEntry{
				Code:          ref.Code,
				Description:   rec.Description,
				RevenueCode:   firstRevenueCode(rec.CodeInformation),
				PriceVariants: toPriceVariants(rec.StandardCharges),
			}
			idx.order = append(idx.order, ref.Code)
		}
	}

	log.Info().
		Int("codes", len(idx.entries)).
		Int("duplicate_codes_dropped", dropped).
		Msg("charge index built")
	return idx
}

// Load builds an index from raw disclosure JSON. A nil or malformed document
// yields an empty index and a logged warning: lookups then degrade to
// not-found instead of the service failing to start.
func Load(data []byte, log zerolog.Logger) *Index {
	if len(data) == 0 {
		log.Warn().Msg("no disclosure dataset provided, charge index is empty")
		return &Index{entries: make(map[string]*domain.ChargeEntry)}
	}
	ds, err := ParseDataset(data)
	if err != nil {
		log.Warn().Err(err).Msg("disclosure dataset unreadable, charge index is empty")
		return &Index{entries: make(map[string]*domain.ChargeEntry)}
	}
	return Build(ds, log)
}

// LoadFile reads and indexes a disclosure dataset from disk with the same
// degrade-to-empty failure semantics as Load.
func LoadFile(path string, log zerolog.Logger) *Index {
	data, err := os.ReadFile(path)
	if err != nil {
		log.Warn().Err(err).Str("path", path).Msg("disclosure dataset not readable, charge index is empty")
		return &Index{entries: make(map[string]*domain.ChargeEntry)}
	}
	return Load(data, log)
}

// Len returns the number of indexed codes.
func (idx *Index) Len() int {
	return len(idx.entries)
}

// Lookup returns pricing for an exact HCPCS code, optionally filtered by care
// setting and billing class. A code missing from the index is a normal
// Found=false result. At most maxLookupVariants filtered variants are
// returned in source order; TotalVariants reports the unfiltered count.
func (idx *Index) Lookup(code, setting, billingClass string) domain.LookupResult {
	entry, ok := idx.entries[code]
	if !ok {
		return domain.LookupResult{
			Code:    code,
			Message: "code not found in standard charges disclosure",
		}
	}

	var matching []domain.PriceVariant
	for _, v := range entry.PriceVariants {
		if !v.Setting.Matches(setting) {
			continue
		}
		if billingClass != "" && v.BillingClass != billingClass {
			continue
		}
		matching = append(matching, v)
		if len(matching) == maxLookupVariants {
			break
		}
	}

	return domain.LookupResult{
		Found:            true,
		Code:             code,
		Description:      entry.Description,
		RevenueCode:      entry.RevenueCode,
		MatchingVariants: matching,
		TotalVariants:    len(entry.PriceVariants),
	}
}

func firstRevenueCode(refs []CodeRef) string {
	for _, ref := range refs {
		if ref.Type == codeTypeRC {
			return ref.Code
		}
	}
	return ""
}

func toPriceVariants(charges []StandardCharge) []domain.PriceVariant {
	variants := make([]domain.PriceVariant, 0, len(charges))
	for _, c := range charges {
		variants = append(variants, domain.PriceVariant{
			GrossCharge:    c.GrossCharge.Value,
			DiscountedCash: c.DiscountedCash.Value,
			Setting:        domain.Setting(c.Setting),
			BillingClass:   c.BillingClass,
			Modifiers:      c.Modifiers,
		})
	}
	return variants
}
