// Package analysis orchestrates one TARA engine invocation: feasibility
// scoring, path enumeration, risk acceptance, and compliance mapping over a
// caller-supplied model.
package analysis

import (
	"context"
	"time"

	"taramap/internal/acceptance"
	"taramap/internal/attackpath"
	"taramap/internal/compliance"
	"taramap/internal/config"
	"taramap/internal/domain"
	"taramap/internal/feasibility"
	"taramap/internal/graph"
	"taramap/internal/logging"
)

// Request carries everything one analysis run consumes. The engine holds no
// state across runs.
type Request struct {
	Components []domain.Component        `yaml:"components"`
	Threats    []domain.ThreatScenario   `yaml:"threat_scenarios"`
	AttackPath domain.AttackPathRequest  `yaml:"attack_path_request"`
	// DeclaredControls maps threat id to the count of already implemented
	// controls, feeding residual-risk calculation.
	DeclaredControls map[string]int `yaml:"declared_controls"`
}

// Result is the full output of one analysis run
type Result struct {
	Feasibility []domain.FeasibilityScore         `json:"feasibility_scores"`
	AttackPaths *domain.AttackPathAnalysisResult  `json:"attack_path_analysis,omitempty"`
	Assessments []domain.RiskAcceptanceAssessment `json:"risk_acceptance_assessments"`
	Metrics     logging.RunMetrics                `json:"metrics"`
}

// Analyzer wires the engine components together. Safe for concurrent use;
// each Run gets its own metrics and intermediate state.
type Analyzer struct {
	scorer     *feasibility.Scorer
	enumerator *attackpath.Enumerator
	acceptance *acceptance.Engine
	compliance *compliance.Mapper
}

// New builds an analyzer over one immutable table set
func New(tables *config.Tables) *Analyzer {
	scorer := feasibility.NewScorer(tables)
	return &Analyzer{
		scorer:     scorer,
		enumerator: attackpath.NewEnumerator(tables, scorer),
		acceptance: acceptance.NewEngine(tables),
		compliance: compliance.NewMapper(tables),
	}
}

// Run executes one full analysis. Path enumeration is skipped when the
// request carries no attack-path section; everything else always runs.
func (a *Analyzer) Run(ctx context.Context, req Request) (*Result, error) {
	metrics := logging.NewRunMetrics()
	model := graph.NewModel(req.Components)

	logging.LogOperationStart("analysis", map[string]interface{}{
		"components": len(req.Components),
		"threats":    len(req.Threats),
	})

	result := &Result{
		Feasibility: a.scoreThreats(model, req.Threats, metrics),
	}

	if wantsPathAnalysis(req.AttackPath) {
		started := time.Now()
		pathReq := req.AttackPath
		if len(pathReq.ThreatScenarios) == 0 {
			pathReq.ThreatScenarios = req.Threats
		}
		pathResult, err := a.enumerator.Generate(ctx, model, pathReq, metrics)
		metrics.RecordOperation("attack_path_enumeration", time.Since(started), err == nil,
			len(pathReq.ComponentIDs), pathCount(pathResult), err)
		if err != nil {
			return nil, err
		}
		result.AttackPaths = pathResult
	} else {
		logging.LogDebug("Request has no attack-path section, skipping enumeration")
	}

	result.Assessments = a.assessThreats(model, req, metrics)

	metrics.Finalize()
	result.Metrics = metrics.Snapshot()
	logging.LogOperationEnd("analysis", result.Metrics.EndTime.Sub(result.Metrics.StartTime), true,
		len(req.Threats), len(result.Assessments), nil)

	return result, nil
}

// scoreThreats computes feasibility for every (threat, target component)
// pair in scope
func (a *Analyzer) scoreThreats(model *graph.Model, threats []domain.ThreatScenario, metrics *logging.RunMetrics) []domain.FeasibilityScore {
	scores := make([]domain.FeasibilityScore, 0, len(threats))
	for _, threat := range threats {
		for _, targetID := range threat.TargetIDs {
			c, ok := model.Component(targetID)
			if !ok {
				logging.LogWarn("Threat targets unknown component, skipping", map[string]interface{}{
					"threat":    threat.ID,
					"component": targetID,
				})
				continue
			}
			scores = append(scores, a.scorer.Score(threat, c))
			metrics.RecordScore()
		}
	}
	return scores
}

// assessThreats runs risk acceptance per (component, threat) pair and
// attaches the compliance clause references
func (a *Analyzer) assessThreats(model *graph.Model, req Request, metrics *logging.RunMetrics) []domain.RiskAcceptanceAssessment {
	assessments := make([]domain.RiskAcceptanceAssessment, 0, len(req.Threats))
	for _, threat := range req.Threats {
		for _, targetID := range threat.TargetIDs {
			c, ok := model.Component(targetID)
			if !ok {
				continue
			}
			assessment := a.acceptance.Assess(domain.AssessmentRequest{
				ComponentType:       c.Type,
				ComponentName:       c.Name,
				SafetyLevel:         c.SafetyLevel,
				ThreatName:          threat.Name,
				ThreatDescription:   threat.Description,
				Impact:              threat.Impact,
				Likelihood:          threat.Likelihood,
				ImplementedControls: req.DeclaredControls[threat.ID],
			})
			assessment.Compliance = a.compliance.Map(
				string(threat.Stride)+" "+threat.Name, c.SafetyLevel, c.TrustZone)
			assessments = append(assessments, assessment)
			metrics.RecordAssessment()
		}
	}
	return assessments
}

func wantsPathAnalysis(req domain.AttackPathRequest) bool {
	return req.PrimaryComponentID != "" || len(req.ComponentIDs) > 0 || len(req.TargetIDs) > 0
}

func pathCount(r *domain.AttackPathAnalysisResult) int {
	if r == nil {
		return 0
	}
	return len(r.Paths)
}
