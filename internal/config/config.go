// Package config loads the engine's lookup tables. Defaults are embedded
// YAML; every table can be overridden from a directory so the scoring
// weights, keyword rules, and clause mappings stay editable without a
// rebuild.
package config

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"taramap/internal/domain"
)

//go:embed tables/scoring.yaml
var defaultScoringYAML []byte

//go:embed tables/profiles.yaml
var defaultProfilesYAML []byte

//go:embed tables/acceptance.yaml
var defaultAcceptanceYAML []byte

//go:embed tables/compliance.yaml
var defaultComplianceYAML []byte

// Tables aggregates every constant table the engine consumes. Loaded once,
// then treated as read-only; safe for concurrent use across analysis runs.
type Tables struct {
	Scoring    ScoringTable
	Profiles   ProfileTable
	Acceptance AcceptanceTable
	Compliance ComplianceTable
}

// ScoringTable parametrizes the feasibility scorer and path risk scoring
type ScoringTable struct {
	InterfaceWeights  map[string]int       `yaml:"interface_weights"`
	Accessibility     AccessibilityTable   `yaml:"accessibility"`
	TechnicalWeight   float64              `yaml:"technical_weight"`
	InvertedWeight    float64              `yaml:"inverted_weight"`
	LevelThresholds   FeasibilityThresholds `yaml:"level_thresholds"`
	StepProbabilities map[int]float64      `yaml:"step_probabilities"`
	HighRiskThreshold float64              `yaml:"high_risk_threshold"`
}

// AccessibilityTable parametrizes the accessibility sub-score
type AccessibilityTable struct {
	LocationBase        map[domain.Location]int `yaml:"location_base"`
	TypeAdjustment      map[string]int          `yaml:"type_adjustment"` // keyed by component type, "default" fallback
	AccessPointKeywords []string                `yaml:"access_point_keywords"`
	AccessPointBonus    int                     `yaml:"access_point_bonus"`
}

// FeasibilityThresholds map overall scores to qualitative levels
type FeasibilityThresholds struct {
	VeryHigh float64 `yaml:"very_high"`
	High     float64 `yaml:"high"`
	Medium   float64 `yaml:"medium"`
	Low      float64 `yaml:"low"`
}

// CapabilityBaseline is the four-factor attack-potential baseline for a profile
type CapabilityBaseline struct {
	TechnicalCapability int `yaml:"technical_capability"`
	KnowledgeRequired   int `yaml:"knowledge_required"`
	ResourcesNeeded     int `yaml:"resources_needed"`
	TimeRequired        int `yaml:"time_required"`
}

// ProfileEntry binds an attacker profile to its keyword set and baseline.
// List order in the table is the tie-break precedence, most capable first.
type ProfileEntry struct {
	Name       domain.AttackerProfile `yaml:"name"`
	Keywords   []string               `yaml:"keywords"`
	Capability CapabilityBaseline     `yaml:"capability"`
}

// FallbackRule infers a baseline when no profile keyword matches
type FallbackRule struct {
	Keywords   []string               `yaml:"keywords"`
	Profile    domain.AttackerProfile `yaml:"profile"`
	Capability CapabilityBaseline     `yaml:"capability"`
}

// ProfileTable holds the ordered attacker-profile rules
type ProfileTable struct {
	Profiles  []ProfileEntry     `yaml:"profiles"`
	Fallbacks []FallbackRule     `yaml:"fallbacks"`
	Default   CapabilityBaseline `yaml:"default"`
}

// CriteriaAdjustment is a partial update applied over base acceptance
// criteria. Nil fields leave the prior layer untouched.
type CriteriaAdjustment struct {
	MaxSeverity           *domain.RiskSeverity         `yaml:"max_severity,omitempty"`
	RequiredControls      *int                         `yaml:"required_controls,omitempty"`
	StakeholderApproval   []domain.StakeholderConcern  `yaml:"stakeholder_approval,omitempty"`
	ResidualRiskThreshold *float64                     `yaml:"residual_risk_threshold,omitempty"`
	ReassessmentMonths    *int                         `yaml:"reassessment_period_months,omitempty"`
	ConditionalFactors    []string                     `yaml:"conditional_factors,omitempty"`
}

// TypeNameAdjustment applies an adjustment when the component name or type
// contains the given substring (lower-cased match)
type TypeNameAdjustment struct {
	NameContains string             `yaml:"name_contains"`
	Adjust       CriteriaAdjustment `yaml:"adjust"`
}

// SeverityThresholds map the impact x likelihood product to a severity
type SeverityThresholds struct {
	Negligible int `yaml:"negligible"`
	Low        int `yaml:"low"`
	Medium     int `yaml:"medium"`
	High       int `yaml:"high"`
}

// AcceptanceTable parametrizes the risk acceptance engine
type AcceptanceTable struct {
	SeverityThresholds     SeverityThresholds                    `yaml:"severity_thresholds"`
	ReductionFactors       []float64                             `yaml:"reduction_factors"` // indexed by controls count, last repeats
	BaseCriteria           map[string]domain.AcceptanceCriteria  `yaml:"base_criteria"` // keyed by component type, "default" fallback
	SafetyAdjustments      map[string]CriteriaAdjustment         `yaml:"safety_adjustments"`
	TypeAdjustments        []TypeNameAdjustment                  `yaml:"type_adjustments"`
	JustificationTemplates map[string][]string                   `yaml:"justification_templates"` // keyed by decision
	BaseConditions         []string                              `yaml:"base_conditions"`
	DecisionConditions     map[string][]string                   `yaml:"decision_conditions"`
	TypeConditions         map[string][]string                   `yaml:"type_conditions"`
	MaxConditionalFactors  int                                   `yaml:"max_conditional_factors"`
}

// KeywordClauses attaches clauses when the threat category or name matches
// any keyword (substring, lower-cased)
type KeywordClauses struct {
	Keywords []string                       `yaml:"keywords"`
	Clauses  []domain.ComplianceRequirement `yaml:"clauses"`
}

// ComplianceTable holds the static standard-clause mappings
type ComplianceTable struct {
	SafetyClauses    map[string][]domain.ComplianceRequirement `yaml:"safety_clauses"`     // ISO 26262, keyed by safety level
	TrustZoneClauses map[string][]domain.ComplianceRequirement `yaml:"trust_zone_clauses"` // UN R155, keyed by trust zone
	ThreatClauses    []KeywordClauses                          `yaml:"threat_clauses"`     // ISO/SAE 21434, keyword matched
}

// Default returns the embedded tables
func Default() (*Tables, error) {
	return load("")
}

// Load returns the embedded tables with per-file overrides from dir.
// A table file missing in dir keeps its embedded default.
func Load(dir string) (*Tables, error) {
	return load(dir)
}

func load(dir string) (*Tables, error) {
	t := &Tables{}

	files := []struct {
		name     string
		embedded []byte
		target   interface{}
	}{
		{"scoring.yaml", defaultScoringYAML, &t.Scoring},
		{"profiles.yaml", defaultProfilesYAML, &t.Profiles},
		{"acceptance.yaml", defaultAcceptanceYAML, &t.Acceptance},
		{"compliance.yaml", defaultComplianceYAML, &t.Compliance},
	}

	for _, f := range files {
		data := f.embedded
		if dir != "" {
			path := filepath.Join(dir, f.name)
			if fileData, err := os.ReadFile(path); err == nil {
				data = fileData
			} else if !os.IsNotExist(err) {
				return nil, fmt.Errorf("failed to read table override %s: %w", path, err)
			}
		}
		if err := yaml.Unmarshal(data, f.target); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", f.name, err)
		}
	}

	return t, nil
}
