// Package compliance attaches ISO 26262 / UN R155 / ISO-SAE 21434 clause
// references to engine output via static table lookup.
package compliance

import (
	"strings"

	"taramap/internal/config"
	"taramap/internal/domain"
)

// Mapper resolves standard clause references. Stateless apart from the
// read-only tables; safe for concurrent use.
type Mapper struct {
	table config.ComplianceTable
}

// NewMapper builds a mapper over the given tables
func NewMapper(tables *config.Tables) *Mapper {
	return &Mapper{table: tables.Compliance}
}

// Map merges the clauses keyed by safety level, trust zone, and threat
// category keywords. Unmatched inputs contribute nothing; an empty result
// is valid.
func (m *Mapper) Map(threatCategory string, safetyLevel domain.SafetyLevel, trustZone domain.TrustZone) []domain.ComplianceRequirement {
	out := make([]domain.ComplianceRequirement, 0, 6)
	seen := make(map[string]bool)

	add := func(reqs []domain.ComplianceRequirement) {
		for _, r := range reqs {
			key := r.Standard + "|" + r.Clause
			if seen[key] {
				continue
			}
			seen[key] = true
			out = append(out, r)
		}
	}

	add(m.table.SafetyClauses[string(safetyLevel)])
	add(m.table.TrustZoneClauses[string(trustZone)])

	needle := strings.ToLower(threatCategory)
	for _, kc := range m.table.ThreatClauses {
		for _, kw := range kc.Keywords {
			if strings.Contains(needle, kw) {
				add(kc.Clauses)
				break
			}
		}
	}

	return out
}
