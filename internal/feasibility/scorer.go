// Package feasibility computes attack-potential scores for (threat,
// component) pairs using the injected scoring and profile tables.
package feasibility

import (
	"math"
	"strings"

	"taramap/internal/config"
	"taramap/internal/domain"
)

// Scorer computes feasibility scores. It is stateless apart from the
// read-only tables and safe for concurrent use.
type Scorer struct {
	scoring  config.ScoringTable
	profiles config.ProfileTable
}

// NewScorer builds a scorer over the given tables
func NewScorer(tables *config.Tables) *Scorer {
	return &Scorer{
		scoring:  tables.Scoring,
		profiles: tables.Profiles,
	}
}

// Score computes the feasibility score for one threat against one component.
// Pure function over the inputs and the tables.
func (s *Scorer) Score(threat domain.ThreatScenario, component domain.Component) domain.FeasibilityScore {
	ifc := s.interfaceComplexity(component)
	access := s.accessibility(component)
	baseline, profile := s.inferProfile(threat, component)

	// Surface capability blends what the component exposes with what the
	// inferred attacker brings.
	tc := clampScore(int(math.Round(float64(ifc+access+baseline.TechnicalCapability) / 3.0)))
	kr := clampScore(baseline.KnowledgeRequired)
	rn := clampScore(baseline.ResourcesNeeded)
	tr := clampScore(baseline.TimeRequired)

	overall := s.overallScore(tc, kr, rn, tr)

	return domain.FeasibilityScore{
		ThreatID:            threat.ID,
		ComponentID:         component.ID,
		TechnicalCapability: tc,
		KnowledgeRequired:   kr,
		ResourcesNeeded:     rn,
		TimeRequired:        tr,
		OverallScore:        overall,
		Level:               s.level(overall),
		Profile:             profile,
	}
}

// interfaceComplexity averages the weighted protocol scores so components
// with many low-risk interfaces are not penalized. No interfaces scores 1.
func (s *Scorer) interfaceComplexity(component domain.Component) int {
	if len(component.Interfaces) == 0 {
		return 1
	}
	total := 0
	for _, iface := range component.Interfaces {
		total += s.interfaceWeight(iface)
	}
	avg := int(math.Round(float64(total) / float64(len(component.Interfaces))))
	return clampScore(avg)
}

func (s *Scorer) interfaceWeight(iface string) int {
	tag := strings.ToLower(strings.TrimSpace(iface))
	if w, ok := s.scoring.InterfaceWeights[tag]; ok {
		return w
	}
	// unknown tags fall back to a substring match so "can-fd" still hits "can"
	for key, w := range s.scoring.InterfaceWeights {
		if strings.Contains(tag, key) {
			return w
		}
	}
	return 1
}

// accessibility combines physical location, component type, and exposed
// access points into a 1-5 score
func (s *Scorer) accessibility(component domain.Component) int {
	table := s.scoring.Accessibility

	score, ok := table.LocationBase[component.Location]
	if !ok {
		score = table.LocationBase[domain.LocationInternal]
	}

	if adj, ok := table.TypeAdjustment[string(component.Type)]; ok {
		score += adj
	} else {
		score += table.TypeAdjustment["default"]
	}

	if s.hasRiskyAccessPoint(component) {
		score += table.AccessPointBonus
	}

	return clampScore(score)
}

func (s *Scorer) hasRiskyAccessPoint(component domain.Component) bool {
	for _, ap := range component.AccessPoints {
		lower := strings.ToLower(ap)
		for _, kw := range s.scoring.Accessibility.AccessPointKeywords {
			if strings.Contains(lower, kw) {
				return true
			}
		}
	}
	return false
}

// inferProfile matches the threat text against the ordered profile keyword
// sets. Most hits wins; ties go to the earlier (more capable) profile. With
// no hits at all, the fallback rules and then the default baseline apply,
// hardened for high safety levels.
func (s *Scorer) inferProfile(threat domain.ThreatScenario, component domain.Component) (config.CapabilityBaseline, domain.AttackerProfile) {
	text := strings.ToLower(threat.Name + " " + threat.Description)

	bestHits := 0
	var best *config.ProfileEntry
	for i := range s.profiles.Profiles {
		entry := &s.profiles.Profiles[i]
		hits := 0
		for _, kw := range entry.Keywords {
			if strings.Contains(text, kw) {
				hits++
			}
		}
		if hits > bestHits {
			bestHits = hits
			best = entry
		}
	}
	if best != nil {
		return best.Capability, best.Name
	}

	for _, rule := range s.profiles.Fallbacks {
		if matchesAll(text, rule.Keywords) {
			return rule.Capability, rule.Profile
		}
	}

	baseline := s.profiles.Default
	// Unmatched threats against high-integrity components are assumed to
	// demand more preparation.
	if component.SafetyLevel == domain.SafetyASILC || component.SafetyLevel == domain.SafetyASILD {
		baseline.KnowledgeRequired = clampScore(baseline.KnowledgeRequired + 1)
		baseline.ResourcesNeeded = clampScore(baseline.ResourcesNeeded + 1)
	}
	return baseline, domain.ProfileCriminal
}

func matchesAll(text string, keywords []string) bool {
	if len(keywords) == 0 {
		return false
	}
	for _, kw := range keywords {
		if !strings.Contains(text, kw) {
			return false
		}
	}
	return true
}

// overallScore inverts the "harder = lower feasibility" factors and blends
// them with technical capability
func (s *Scorer) overallScore(tc, kr, rn, tr int) float64 {
	inverted := (float64(6-kr) + float64(6-rn) + float64(6-tr)) / 3.0
	overall := float64(tc)*s.scoring.TechnicalWeight + inverted*s.scoring.InvertedWeight
	if overall < 1 {
		overall = 1
	}
	if overall > 5 {
		overall = 5
	}
	return math.Round(overall*100) / 100
}

func (s *Scorer) level(overall float64) domain.FeasibilityLevel {
	t := s.scoring.LevelThresholds
	switch {
	case overall >= t.VeryHigh:
		return domain.FeasibilityVeryHigh
	case overall >= t.High:
		return domain.FeasibilityHigh
	case overall >= t.Medium:
		return domain.FeasibilityMedium
	case overall >= t.Low:
		return domain.FeasibilityLow
	default:
		return domain.FeasibilityVeryLow
	}
}

// StepProbability maps an overall feasibility score to a per-step success
// probability via the configured step table
func (s *Scorer) StepProbability(overall float64) float64 {
	key := clampScore(int(math.Round(overall)))
	if p, ok := s.scoring.StepProbabilities[key]; ok {
		return p
	}
	return 0.2
}

func clampScore(v int) int {
	if v < 1 {
		return 1
	}
	if v > 5 {
		return 5
	}
	return v
}
