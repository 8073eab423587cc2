package domain

// StepType classifies an attack step, loosely following ATT&CK tactics
type StepType string

const (
	StepInitialAccess       StepType = "Initial Access"
	StepExecution           StepType = "Execution"
	StepPersistence         StepType = "Persistence"
	StepPrivilegeEscalation StepType = "Privilege Escalation"
	StepDefenseEvasion      StepType = "Defense Evasion"
	StepCredentialAccess    StepType = "Credential Access"
	StepDiscovery           StepType = "Discovery"
	StepLateralMovement     StepType = "Lateral Movement"
	StepCollection          StepType = "Collection"
	StepExfiltration        StepType = "Exfiltration"
	StepCommandAndControl   StepType = "Command and Control"
	StepImpact              StepType = "Impact"
)

// AttackStep is one hop of an attack path
type AttackStep struct {
	StepID           string   `json:"step_id"`
	ComponentID      string   `json:"component_id"`
	Type             StepType `json:"step_type"`
	Description      string   `json:"description"`
	ThreatRefs       []string `json:"threat_refs,omitempty"`
	VulnerabilityIDs []string `json:"vulnerability_ids,omitempty"`
	Order            int      `json:"order"`
}

// PathType classifies a whole attack path
type PathType string

const (
	PathDirect              PathType = "Direct"
	PathMultiStep           PathType = "Multi-Step"
	PathLateral             PathType = "Lateral"
	PathPrivilegeEscalation PathType = "Privilege-Escalation"
)

// Complexity is the qualitative effort rating of a path or chain
type Complexity string

const (
	ComplexityLow    Complexity = "Low"
	ComplexityMedium Complexity = "Medium"
	ComplexityHigh   Complexity = "High"
)

// complexityRank orders complexities for max-aggregation across chains
var complexityRank = map[Complexity]int{
	ComplexityLow:    0,
	ComplexityMedium: 1,
	ComplexityHigh:   2,
}

// MaxComplexity returns the higher of two complexity ratings
func MaxComplexity(a, b Complexity) Complexity {
	if complexityRank[a] >= complexityRank[b] {
		return a
	}
	return b
}

// CIAImpact holds per-dimension technical impact on a 0-5 scale
type CIAImpact struct {
	Confidentiality int `json:"confidentiality"`
	Integrity       int `json:"integrity"`
	Availability    int `json:"availability"`
}

// Max returns the worst dimension value
func (c CIAImpact) Max() int {
	m := c.Confidentiality
	if c.Integrity > m {
		m = c.Integrity
	}
	if c.Availability > m {
		m = c.Availability
	}
	return m
}

// Merge keeps the per-dimension maximum of two impact sets
func (c CIAImpact) Merge(o CIAImpact) CIAImpact {
	out := c
	if o.Confidentiality > out.Confidentiality {
		out.Confidentiality = o.Confidentiality
	}
	if o.Integrity > out.Integrity {
		out.Integrity = o.Integrity
	}
	if o.Availability > out.Availability {
		out.Availability = o.Availability
	}
	return out
}

// AttackPath is an ordered step sequence from an entry point to a target
type AttackPath struct {
	PathID            string       `json:"path_id"`
	Name              string       `json:"name"`
	Type              PathType     `json:"path_type"`
	Complexity        Complexity   `json:"complexity"`
	EntryPointID      string       `json:"entry_point_id"`
	TargetID          string       `json:"target_id"`
	SuccessLikelihood float64      `json:"success_likelihood"` // 0-1
	Impact            CIAImpact    `json:"impact"`
	RiskScore         float64      `json:"risk_score"` // 0-100
	HighRisk          bool         `json:"high_risk"`
	Steps             []AttackStep `json:"steps"`
	Recommendations   []string     `json:"recommendations,omitempty"`
}

// AttackChain is a sequence of linked attack paths forming a multi-stage compromise
type AttackChain struct {
	ChainID           string       `json:"chain_id"`
	Name              string       `json:"name"`
	Paths             []AttackPath `json:"paths"`
	TotalSteps        int          `json:"total_steps"`
	Complexity        Complexity   `json:"complexity"`
	SuccessLikelihood float64      `json:"success_likelihood"`
	Impact            CIAImpact    `json:"impact"`
	RiskScore         float64      `json:"risk_score"`
	HighRisk          bool         `json:"high_risk"`
}

// AttackPathRequest carries the inputs for one path enumeration run
type AttackPathRequest struct {
	PrimaryComponentID string           `json:"primary_component_id" yaml:"primary_component_id" validate:"required"`
	ComponentIDs       []string         `json:"component_ids" yaml:"component_ids" validate:"required,min=1"`
	EntryPointIDs      []string         `json:"entry_point_ids,omitempty" yaml:"entry_point_ids,omitempty"`
	TargetIDs          []string         `json:"target_ids" yaml:"target_ids" validate:"required,min=1"`
	MaxDepth           int              `json:"max_depth,omitempty" yaml:"max_depth,omitempty" validate:"omitempty,min=1,max=8"`
	IncludeChains      bool             `json:"include_chains,omitempty" yaml:"include_chains,omitempty"`
	Assumptions        []string         `json:"assumptions,omitempty" yaml:"assumptions,omitempty"`
	Constraints        []string         `json:"constraints,omitempty" yaml:"constraints,omitempty"`
	ThreatScenarios    []ThreatScenario `json:"threat_scenarios,omitempty" yaml:"threat_scenarios,omitempty"`
	VulnerabilityIDs   []string         `json:"vulnerability_ids,omitempty" yaml:"vulnerability_ids,omitempty"`
}

// AttackPathAnalysisResult is the outcome of one enumeration run
type AttackPathAnalysisResult struct {
	EntryPoints     []string      `json:"entry_points"`
	CriticalTargets []string      `json:"critical_targets"`
	TotalPaths      int           `json:"total_paths"`
	HighRiskPaths   int           `json:"high_risk_paths"`
	TotalChains     int           `json:"total_chains"`
	HighRiskChains  int           `json:"high_risk_chains"`
	Paths           []AttackPath  `json:"paths"`
	Chains          []AttackChain `json:"chains,omitempty"`
	Truncated       bool          `json:"truncated,omitempty"`
	StatusNote      string        `json:"status_note,omitempty"`
}
