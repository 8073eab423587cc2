// Package acceptance derives formal risk-acceptance decisions from impact,
// likelihood, and implemented controls, against layered criteria tables.
package acceptance

import (
	"fmt"
	"hash/fnv"
	"strings"

	"github.com/google/uuid"

	"taramap/internal/config"
	"taramap/internal/domain"
)

// Engine evaluates risk acceptance. Stateless apart from the read-only
// tables; safe for concurrent use.
type Engine struct {
	table config.AcceptanceTable
}

// NewEngine builds an acceptance engine over the given tables
func NewEngine(tables *config.Tables) *Engine {
	return &Engine{table: tables.Acceptance}
}

// Assess runs the full acceptance evaluation for one (component, threat)
// pair. Pure function of the request and the tables.
func (e *Engine) Assess(req domain.AssessmentRequest) domain.RiskAcceptanceAssessment {
	severity := e.Severity(req.Impact, req.Likelihood)
	criteria := e.ResolveCriteria(req.ComponentType, req.ComponentName, req.SafetyLevel)
	residual := e.ResidualRisk(req.Impact, req.Likelihood, req.ImplementedControls)
	decision := e.Decide(severity, residual, criteria, req.ImplementedControls)

	return domain.RiskAcceptanceAssessment{
		AssessmentID:  uuid.NewString(),
		ComponentType: req.ComponentType,
		SafetyLevel:   req.SafetyLevel,
		ThreatName:    req.ThreatName,
		Severity:      severity,
		Decision:      decision,
		Criteria:      criteria,
		Justification: e.justification(req, severity, decision, residual, criteria),
		Conditions:    e.conditions(req, decision, criteria),
		ResidualRisk:  residual,
		Approvers:     criteria.StakeholderApproval,
	}
}

// Severity maps the worst impact dimension times likelihood onto the
// qualitative scale
func (e *Engine) Severity(impact domain.ImpactScores, likelihood int) domain.RiskSeverity {
	score := impact.Max() * clampLikelihood(likelihood)
	t := e.table.SeverityThresholds
	switch {
	case score < t.Negligible:
		return domain.SeverityNegligible
	case score < t.Low:
		return domain.SeverityLow
	case score < t.Medium:
		return domain.SeverityMedium
	case score < t.High:
		return domain.SeverityHigh
	default:
		return domain.SeverityCritical
	}
}

// ResolveCriteria layers base criteria, safety-level adjustments, and
// name-substring adjustments. Each layer overrides only the fields it sets.
func (e *Engine) ResolveCriteria(componentType domain.ComponentType, componentName string, safetyLevel domain.SafetyLevel) domain.AcceptanceCriteria {
	criteria, ok := e.table.BaseCriteria[string(componentType)]
	if !ok {
		criteria = e.table.BaseCriteria["default"]
	}

	if adj, ok := e.table.SafetyAdjustments[string(safetyLevel)]; ok {
		criteria = applyAdjustment(criteria, adj)
	}

	needle := strings.ToLower(componentName + " " + string(componentType))
	for _, ta := range e.table.TypeAdjustments {
		if strings.Contains(needle, strings.ToLower(ta.NameContains)) {
			criteria = applyAdjustment(criteria, ta.Adjust)
		}
	}

	return criteria
}

func applyAdjustment(c domain.AcceptanceCriteria, adj config.CriteriaAdjustment) domain.AcceptanceCriteria {
	if adj.MaxSeverity != nil {
		c.MaxSeverity = *adj.MaxSeverity
	}
	if adj.RequiredControls != nil {
		c.RequiredControls = *adj.RequiredControls
	}
	if adj.StakeholderApproval != nil {
		c.StakeholderApproval = adj.StakeholderApproval
	}
	if adj.ResidualRiskThreshold != nil {
		c.ResidualRiskThreshold = *adj.ResidualRiskThreshold
	}
	if adj.ReassessmentMonths != nil {
		c.ReassessmentMonths = *adj.ReassessmentMonths
	}
	if adj.ConditionalFactors != nil {
		c.ConditionalFactors = adj.ConditionalFactors
	}
	return c
}

// ResidualRisk computes the 0-1 risk remaining after implemented controls.
// Monotonically non-increasing in the controls count.
func (e *Engine) ResidualRisk(impact domain.ImpactScores, likelihood, controls int) float64 {
	baseRisk := float64(impact.Max()) / 5.0 * float64(clampLikelihood(likelihood)) / 5.0
	residual := baseRisk * (1 - e.reductionFactor(controls))
	if residual < 0 {
		return 0
	}
	if residual > 1 {
		return 1
	}
	return residual
}

func (e *Engine) reductionFactor(controls int) float64 {
	factors := e.table.ReductionFactors
	if len(factors) == 0 || controls <= 0 {
		return 0
	}
	if controls >= len(factors) {
		return factors[len(factors)-1]
	}
	return factors[controls]
}

// Decide applies the decision table. Deterministic: the same severity,
// residual risk, criteria, and controls count always yield the same decision.
func (e *Engine) Decide(severity domain.RiskSeverity, residual float64, criteria domain.AcceptanceCriteria, controls int) domain.AcceptanceDecision {
	if residual <= criteria.ResidualRiskThreshold {
		if severity == domain.SeverityNegligible {
			return domain.DecisionAccept
		}
		if controls >= 1 {
			return domain.DecisionAcceptWithControls
		}
	}
	if severity == domain.SeverityCritical {
		return domain.DecisionAvoid
	}
	return domain.DecisionMitigate
}

// justification selects a template deterministically from the inputs and
// interpolates the assessment values
func (e *Engine) justification(req domain.AssessmentRequest, severity domain.RiskSeverity, decision domain.AcceptanceDecision, residual float64, criteria domain.AcceptanceCriteria) string {
	templates := e.table.JustificationTemplates[string(decision)]
	if len(templates) == 0 {
		return fmt.Sprintf("%s risk for '%s': residual %.2f against threshold %.2f, decision %s.",
			severity, req.ThreatName, residual, criteria.ResidualRiskThreshold, decision)
	}

	h := fnv.New32a()
	fmt.Fprintf(h, "%s|%s|%s|%s|%s", req.ComponentType, req.SafetyLevel, req.ThreatName, severity, decision)
	tmpl := templates[int(h.Sum32())%len(templates)]

	dims := strings.Join(req.Impact.DimensionNames(), ", ")
	if dims == "" {
		dims = "none"
	}

	return strings.NewReplacer(
		"{severity}", string(severity),
		"{residual}", fmt.Sprintf("%.2f", residual),
		"{threshold}", fmt.Sprintf("%.2f", criteria.ResidualRiskThreshold),
		"{controls}", fmt.Sprintf("%d", req.ImplementedControls),
		"{dimensions}", dims,
		"{threat}", req.ThreatName,
	).Replace(tmpl)
}

// conditions assembles the condition list: base items, decision-specific
// items, component-type items, and capped reassessment triggers
func (e *Engine) conditions(req domain.AssessmentRequest, decision domain.AcceptanceDecision, criteria domain.AcceptanceCriteria) []string {
	conditions := make([]string, 0, 8)
	conditions = append(conditions, e.table.BaseConditions...)

	controlsRepl := strings.NewReplacer("{controls}", fmt.Sprintf("%d", req.ImplementedControls))
	for _, c := range e.table.DecisionConditions[string(decision)] {
		conditions = append(conditions, controlsRepl.Replace(c))
	}

	conditions = append(conditions, e.table.TypeConditions[string(req.ComponentType)]...)

	maxFactors := e.table.MaxConditionalFactors
	if maxFactors <= 0 {
		maxFactors = 3
	}
	for i, factor := range criteria.ConditionalFactors {
		if i >= maxFactors {
			break
		}
		conditions = append(conditions, fmt.Sprintf("Reassess if %s occurs", factor))
	}

	return conditions
}

func clampLikelihood(v int) int {
	if v < 1 {
		return 1
	}
	if v > 5 {
		return 5
	}
	return v
}
