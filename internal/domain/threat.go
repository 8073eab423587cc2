package domain

// StrideCategory classifies a threat scenario per STRIDE
type StrideCategory string

const (
	StrideSpoofing              StrideCategory = "Spoofing"
	StrideTampering             StrideCategory = "Tampering"
	StrideRepudiation           StrideCategory = "Repudiation"
	StrideInformationDisclosure StrideCategory = "Information Disclosure"
	StrideDenialOfService       StrideCategory = "Denial of Service"
	StrideElevationOfPrivilege  StrideCategory = "Elevation of Privilege"
)

// ImpactScores holds the four TARA impact dimensions on a 0-5 ordinal scale
type ImpactScores struct {
	Safety      int `json:"safety" yaml:"safety"`
	Financial   int `json:"financial" yaml:"financial"`
	Operational int `json:"operational" yaml:"operational"`
	Privacy     int `json:"privacy" yaml:"privacy"`
}

// Max returns the worst-case impact dimension value
func (s ImpactScores) Max() int {
	m := s.Safety
	for _, v := range []int{s.Financial, s.Operational, s.Privacy} {
		if v > m {
			m = v
		}
	}
	return m
}

// Merge keeps the per-dimension maximum of two impact score sets
func (s ImpactScores) Merge(o ImpactScores) ImpactScores {
	out := s
	if o.Safety > out.Safety {
		out.Safety = o.Safety
	}
	if o.Financial > out.Financial {
		out.Financial = o.Financial
	}
	if o.Operational > out.Operational {
		out.Operational = o.Operational
	}
	if o.Privacy > out.Privacy {
		out.Privacy = o.Privacy
	}
	return out
}

// DimensionNames returns the names of dimensions with a non-zero score
func (s ImpactScores) DimensionNames() []string {
	names := make([]string, 0, 4)
	if s.Safety > 0 {
		names = append(names, "safety")
	}
	if s.Financial > 0 {
		names = append(names, "financial")
	}
	if s.Operational > 0 {
		names = append(names, "operational")
	}
	if s.Privacy > 0 {
		names = append(names, "privacy")
	}
	return names
}

// ThreatScenario represents a threat against one or more target components
type ThreatScenario struct {
	ID            string         `json:"id" yaml:"id"`
	Name          string         `json:"name" yaml:"name"`
	Description   string         `json:"description" yaml:"description"`
	Stride        StrideCategory `json:"stride_category" yaml:"stride_category"`
	Prerequisites []string       `json:"prerequisites,omitempty" yaml:"prerequisites,omitempty"`
	TargetIDs     []string       `json:"target_ids" yaml:"target_ids"`
	Likelihood    int            `json:"likelihood" yaml:"likelihood"` // 1-5
	Impact        ImpactScores   `json:"impact" yaml:"impact"`
}

// Targets reports whether the scenario names componentID as a target
func (t ThreatScenario) Targets(componentID string) bool {
	for _, id := range t.TargetIDs {
		if id == componentID {
			return true
		}
	}
	return false
}
