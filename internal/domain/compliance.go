package domain

// ComplianceRequirement is a standard clause reference attached to engine
// output for traceability
type ComplianceRequirement struct {
	Standard    string `json:"standard" yaml:"standard"` // "ISO 26262", "UN R155", "ISO/SAE 21434"
	Clause      string `json:"clause" yaml:"clause"`
	Title       string `json:"title" yaml:"title"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
}
