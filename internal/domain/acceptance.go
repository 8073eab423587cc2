package domain

// RiskSeverity is the qualitative severity of a (component, threat) risk
type RiskSeverity string

const (
	SeverityNegligible RiskSeverity = "Negligible"
	SeverityLow        RiskSeverity = "Low"
	SeverityMedium     RiskSeverity = "Medium"
	SeverityHigh       RiskSeverity = "High"
	SeverityCritical   RiskSeverity = "Critical"
)

// severityRank orders severities from least to most severe
var severityRank = map[RiskSeverity]int{
	SeverityNegligible: 0,
	SeverityLow:        1,
	SeverityMedium:     2,
	SeverityHigh:       3,
	SeverityCritical:   4,
}

// SeverityRank returns the ordering rank of a severity (0 = negligible)
func SeverityRank(s RiskSeverity) int {
	if r, ok := severityRank[s]; ok {
		return r
	}
	return severityRank[SeverityMedium]
}

// AcceptanceDecision is the formal risk treatment decision
type AcceptanceDecision string

const (
	DecisionAccept             AcceptanceDecision = "Accept"
	DecisionAcceptWithControls AcceptanceDecision = "Accept with Controls"
	DecisionTransfer           AcceptanceDecision = "Transfer"
	DecisionAvoid              AcceptanceDecision = "Avoid"
	DecisionMitigate           AcceptanceDecision = "Mitigate"
)

// decisionRank orders decisions from least to most severe treatment
var decisionRank = map[AcceptanceDecision]int{
	DecisionAccept:             0,
	DecisionAcceptWithControls: 1,
	DecisionTransfer:           2,
	DecisionMitigate:           3,
	DecisionAvoid:              4,
}

// DecisionRank returns the ordering rank of a decision (0 = Accept)
func DecisionRank(d AcceptanceDecision) int {
	if r, ok := decisionRank[d]; ok {
		return r
	}
	return decisionRank[DecisionMitigate]
}

// StakeholderConcern identifies a role that must sign off on a decision
type StakeholderConcern string

const (
	StakeholderSecurityTeam    StakeholderConcern = "Security Team"
	StakeholderSafetyEngineer  StakeholderConcern = "Safety Engineer"
	StakeholderProductOwner    StakeholderConcern = "Product Owner"
	StakeholderChiefEngineer   StakeholderConcern = "Chief Engineer"
	StakeholderExecutiveBoard  StakeholderConcern = "Executive Board"
	StakeholderComplianceOffcr StakeholderConcern = "Compliance Officer"
)

// AcceptanceCriteria are the resolved acceptance thresholds for one
// (component type, safety level) combination
type AcceptanceCriteria struct {
	MaxSeverity           RiskSeverity         `json:"max_severity" yaml:"max_severity"`
	RequiredControls      int                  `json:"required_controls" yaml:"required_controls"`
	StakeholderApproval   []StakeholderConcern `json:"stakeholder_approval" yaml:"stakeholder_approval"`
	ResidualRiskThreshold float64              `json:"residual_risk_threshold" yaml:"residual_risk_threshold"`
	ReassessmentMonths    int                  `json:"reassessment_period_months" yaml:"reassessment_period_months"`
	ConditionalFactors    []string             `json:"conditional_factors" yaml:"conditional_factors"`
}

// AssessmentRequest carries the inputs for one risk-acceptance assessment
type AssessmentRequest struct {
	ComponentType         ComponentType `json:"component_type" yaml:"component_type"`
	ComponentName         string        `json:"component_name,omitempty" yaml:"component_name,omitempty"`
	SafetyLevel           SafetyLevel   `json:"safety_level" yaml:"safety_level"`
	ThreatName            string        `json:"threat_name" yaml:"threat_name"`
	ThreatDescription     string        `json:"threat_description,omitempty" yaml:"threat_description,omitempty"`
	Impact                ImpactScores  `json:"impact" yaml:"impact"`
	Likelihood            int           `json:"likelihood" yaml:"likelihood"` // 1-5
	ImplementedControls   int           `json:"implemented_controls,omitempty" yaml:"implemented_controls,omitempty"`
}

// RiskAcceptanceAssessment is the full outcome of one acceptance evaluation.
// The engine creates it and hands it off; persistence is the caller's concern.
type RiskAcceptanceAssessment struct {
	AssessmentID  string                  `json:"assessment_id"`
	ComponentType ComponentType           `json:"component_type"`
	SafetyLevel   SafetyLevel             `json:"safety_level"`
	ThreatName    string                  `json:"threat_name"`
	Severity      RiskSeverity            `json:"risk_severity"`
	Decision      AcceptanceDecision      `json:"decision"`
	Criteria      AcceptanceCriteria      `json:"criteria"`
	Justification string                  `json:"justification"`
	Conditions    []string                `json:"conditions"`
	ResidualRisk  float64                 `json:"residual_risk"` // 0-1
	Approvers     []StakeholderConcern    `json:"approvers"`
	Compliance    []ComplianceRequirement `json:"compliance_requirements,omitempty"`
}
