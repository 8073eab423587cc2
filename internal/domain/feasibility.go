package domain

// FeasibilityLevel is the qualitative attack feasibility rating
type FeasibilityLevel string

const (
	FeasibilityVeryHigh FeasibilityLevel = "Very High"
	FeasibilityHigh     FeasibilityLevel = "High"
	FeasibilityMedium   FeasibilityLevel = "Medium"
	FeasibilityLow      FeasibilityLevel = "Low"
	FeasibilityVeryLow  FeasibilityLevel = "Very Low"
)

// AttackerProfile identifies an attacker archetype used for capability baselines
type AttackerProfile string

const (
	ProfileHobbyist   AttackerProfile = "Hobbyist"
	ProfileCriminal   AttackerProfile = "Criminal"
	ProfileHacktivist AttackerProfile = "Hacktivist"
	ProfileInsider    AttackerProfile = "Insider"
	ProfileAPT        AttackerProfile = "APT"
)

// FeasibilityScore is the attack-potential assessment for one (threat, component) pair.
// Sub-scores use a 1-5 scale where higher TechnicalCapability means a more capable
// attack surface, while higher KnowledgeRequired/ResourcesNeeded/TimeRequired mean
// the attack is harder. OverallScore folds the inversion in.
type FeasibilityScore struct {
	ThreatID            string           `json:"threat_id"`
	ComponentID         string           `json:"component_id"`
	TechnicalCapability int              `json:"technical_capability"`
	KnowledgeRequired   int              `json:"knowledge_required"`
	ResourcesNeeded     int              `json:"resources_needed"`
	TimeRequired        int              `json:"time_required"`
	OverallScore        float64          `json:"overall_score"`
	Level               FeasibilityLevel `json:"feasibility_level"`
	Profile             AttackerProfile  `json:"attacker_profile"`
}
