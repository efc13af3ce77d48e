package validation

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/fsecamp/reimburse/record"
)

// identifierGroup collects the records sharing one valid identifier.
type identifierGroup struct {
	identifier string
	indexes    []int
	total      decimal.Decimal
}

// groupByIdentifier groups records whose identifier passed validation, in order
// of first occurrence. Records with a missing or malformed identifier are left
// out: they are already flagged individually.
func groupByIdentifier(records []record.Record, valid []bool) []*identifierGroup {
	var groups []*identifierGroup
	byID := make(map[string]*identifierGroup)
	for i, rec := range records {
		if !valid[i] {
			continue
		}
		g, ok := byID[rec.Identifier]
		if !ok {
			g = &identifierGroup{identifier: rec.Identifier}
			byID[rec.Identifier] = g
			groups = append(groups, g)
		}
		g.indexes = append(g.indexes, i)
		g.total = g.total.Add(rec.Contribution)
	}
	return groups
}

// duplicateOutcomes returns one batch row per identifier occurring more than once.
func duplicateOutcomes(groups []*identifierGroup) []Outcome {
	var out []Outcome
	for _, g := range groups {
		if len(g.indexes) < 2 {
			continue
		}
		err := &DuplicateIdentifierError{Identifier: g.identifier, Indexes: g.indexes}
		r := failf(err, "Identifier '%s' appears %d times in the batch", g.identifier, len(g.indexes))
		out = append(out, Outcome{
			Row:        BatchRow,
			Index:      -1,
			Identifier: g.identifier,
			Duplicate:  r,
			Blocking:   []string{r.Message},
		})
	}
	return out
}

// applyBeneficiaryCap marks every record of an identifier whose cumulative
// contribution exceeds the cap. outcomes is indexed by record position.
func applyBeneficiaryCap(cfg *Config, groups []*identifierGroup, outcomes []Outcome) {
	for _, g := range groups {
		if !exceeds(g.total, cfg.BeneficiaryCap, cfg.CapTolerance) {
			continue
		}
		err := &BeneficiaryCapError{Identifier: g.identifier, Total: g.total, Cap: cfg.BeneficiaryCap}
		msg := fmt.Sprintf("Cap %s exceeded (%s total in batch for '%s')",
			cfg.BeneficiaryCap.StringFixed(2), g.total.StringFixed(2), g.identifier)
		for _, i := range g.indexes {
			o := &outcomes[i]
			o.BeneficiaryCap = failf(err, "%s", msg)
			o.markBlocking(o.BeneficiaryCap.Message)
		}
	}
}
