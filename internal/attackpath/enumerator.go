// Package attackpath enumerates plausible attack paths and chains through
// the system model, bounded by depth and traversal constraints.
package attackpath

import (
	"context"
	"fmt"
	"math"
	"sort"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"taramap/internal/config"
	"taramap/internal/domain"
	"taramap/internal/feasibility"
	"taramap/internal/graph"
	"taramap/internal/logging"
)

// DefaultMaxDepth bounds traversal when the request does not set one
const DefaultMaxDepth = 5

// DefaultNodeBudget caps total node visits per enumeration so dense graphs
// cannot run away even within the depth bound
const DefaultNodeBudget = 100000

// Enumerator performs constrained graph search. Stateless apart from the
// read-only tables and scorer; safe for concurrent use.
type Enumerator struct {
	scoring    config.ScoringTable
	scorer     *feasibility.Scorer
	validate   *validator.Validate
	nodeBudget int
}

// Option configures an Enumerator
type Option func(*Enumerator)

// WithNodeBudget overrides the per-run node visit budget
func WithNodeBudget(n int) Option {
	return func(e *Enumerator) { e.nodeBudget = n }
}

// NewEnumerator builds an enumerator over the given tables and scorer
func NewEnumerator(tables *config.Tables, scorer *feasibility.Scorer, opts ...Option) *Enumerator {
	e := &Enumerator{
		scoring:    tables.Scoring,
		scorer:     scorer,
		validate:   validator.New(),
		nodeBudget: DefaultNodeBudget,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// requestFieldNames maps struct fields to the wire names surfaced in
// validation errors
var requestFieldNames = map[string]string{
	"PrimaryComponentID": "primary_component_id",
	"ComponentIDs":       "component_ids",
	"TargetIDs":          "target_ids",
	"MaxDepth":           "max_depth",
}

// Generate runs one enumeration. An unreachable target yields an empty path
// list with a status note, not an error. When the context fires mid-run the
// partial result is returned with Truncated set. metrics may be nil.
func (e *Enumerator) Generate(ctx context.Context, model *graph.Model, req domain.AttackPathRequest, metrics *logging.RunMetrics) (*domain.AttackPathAnalysisResult, error) {
	if err := e.validateRequest(req); err != nil {
		return nil, err
	}

	maxDepth := req.MaxDepth
	if maxDepth <= 0 {
		maxDepth = DefaultMaxDepth
	}

	universe := e.resolveUniverse(model, req.ComponentIDs)
	entryPoints := e.resolveEntryPoints(model, universe, req.EntryPointIDs)
	targets := e.resolveTargets(universe, req.TargetIDs)
	filter := buildEdgeFilter(append(req.Assumptions, req.Constraints...))
	overallByComponent := e.scoreComponents(model, universe, req.ThreatScenarios, metrics)

	result := &domain.AttackPathAnalysisResult{
		EntryPoints:     entryPoints,
		CriticalTargets: targets,
		Paths:           make([]domain.AttackPath, 0),
	}

	if len(entryPoints) == 0 {
		result.StatusNote = "no entry points resolved from the component universe"
		return result, nil
	}
	if len(targets) == 0 {
		result.StatusNote = "no requested target is part of the component universe"
		return result, nil
	}

	targetSet := make(map[string]bool, len(targets))
	for _, t := range targets {
		targetSet[t] = true
	}

	budget := e.nodeBudget
	for _, entry := range entryPoints {
		// Cancellation is honored between entry-point iterations so a
		// fired deadline still returns everything collected so far.
		if ctx.Err() != nil {
			result.Truncated = true
			result.StatusNote = fmt.Sprintf("enumeration cancelled: %v", ctx.Err())
			if metrics != nil {
				metrics.RecordDeadlineHit()
			}
			break
		}

		walk := &walker{
			model:    model,
			universe: universe,
			filter:   filter,
			targets:  targetSet,
			maxDepth: maxDepth,
			budget:   &budget,
		}
		nodePaths := walk.enumerate(entry)

		for _, nodes := range nodePaths {
			result.Paths = append(result.Paths, e.buildPath(model, nodes, req, overallByComponent))
		}
		logging.LogEnumeration(entry, len(nodePaths), walk.nodesVisited, budget <= 0)
		if metrics != nil {
			metrics.RecordTraversal(walk.nodesVisited, walk.edgesTraversed, len(nodePaths))
		}
		if budget <= 0 {
			result.Truncated = true
			result.StatusNote = "node budget exhausted; results are partial"
			break
		}
	}

	sortPaths(result.Paths)
	result.TotalPaths = len(result.Paths)
	for _, p := range result.Paths {
		if p.HighRisk {
			result.HighRiskPaths++
		}
	}

	if result.TotalPaths == 0 && result.StatusNote == "" {
		result.StatusNote = fmt.Sprintf("no target reachable from any entry point within depth %d", maxDepth)
	}

	if req.IncludeChains {
		result.Chains = e.buildChains(result.Paths, maxDepth)
		result.TotalChains = len(result.Chains)
		for _, c := range result.Chains {
			if c.HighRisk {
				result.HighRiskChains++
			}
		}
		if metrics != nil {
			metrics.RecordChains(len(result.Chains))
		}
	}

	return result, nil
}

func (e *Enumerator) validateRequest(req domain.AttackPathRequest) error {
	err := e.validate.Struct(req)
	if err == nil {
		return nil
	}
	if verrs, ok := err.(validator.ValidationErrors); ok && len(verrs) > 0 {
		field := verrs[0].StructField()
		if wire, ok := requestFieldNames[field]; ok {
			field = wire
		}
		return domain.NewValidationError(field, fmt.Sprintf("failed %q constraint", verrs[0].Tag()))
	}
	return fmt.Errorf("request validation failed: %w", err)
}

// resolveUniverse keeps the requested component ids that exist in the model.
// Unknown ids are skipped, not fatal.
func (e *Enumerator) resolveUniverse(model *graph.Model, componentIDs []string) map[string]bool {
	universe := make(map[string]bool, len(componentIDs))
	for _, id := range componentIDs {
		if model.Contains(id) {
			universe[id] = true
		} else {
			logging.LogWarn("Skipping unknown component id in request", map[string]interface{}{"component": id})
		}
	}
	return universe
}

// resolveEntryPoints uses the requested ids, or defaults to untrusted-zone
// or externally located components in the universe
func (e *Enumerator) resolveEntryPoints(model *graph.Model, universe map[string]bool, requested []string) []string {
	entries := make([]string, 0)
	if len(requested) > 0 {
		for _, id := range requested {
			if universe[id] {
				entries = append(entries, id)
			}
		}
		sort.Strings(entries)
		return entries
	}
	for id := range universe {
		c, _ := model.Component(id)
		if c.TrustZone == domain.ZoneUntrusted || c.Location == domain.LocationExternal {
			entries = append(entries, id)
		}
	}
	sort.Strings(entries)
	return entries
}

func (e *Enumerator) resolveTargets(universe map[string]bool, requested []string) []string {
	targets := make([]string, 0, len(requested))
	for _, id := range requested {
		if universe[id] {
			targets = append(targets, id)
		}
	}
	sort.Strings(targets)
	return targets
}

// scoreComponents precomputes the best feasibility overall score per
// component across the supplied threat scenarios
func (e *Enumerator) scoreComponents(model *graph.Model, universe map[string]bool, threats []domain.ThreatScenario, metrics *logging.RunMetrics) map[string]float64 {
	overall := make(map[string]float64, len(universe))
	if len(threats) == 0 {
		return overall
	}
	for id := range universe {
		c, _ := model.Component(id)
		best := 0.0
		for _, threat := range threats {
			score := e.scorer.Score(threat, c)
			if metrics != nil {
				metrics.RecordScore()
			}
			if score.OverallScore > best {
				best = score.OverallScore
			}
		}
		overall[id] = best
	}
	return overall
}

// walker performs one depth-bounded DFS from a single entry point
type walker struct {
	model          *graph.Model
	universe       map[string]bool
	filter         EdgeFilter
	targets        map[string]bool
	maxDepth       int
	budget         *int
	nodesVisited   int
	edgesTraversed int
}

// enumerate returns every acyclic node sequence from entry to a target with
// at most maxDepth nodes
func (w *walker) enumerate(entry string) [][]string {
	paths := make([][]string, 0)
	onPath := map[string]bool{entry: true}
	w.dfs(entry, []string{entry}, onPath, &paths)
	return paths
}

func (w *walker) dfs(current string, trail []string, onPath map[string]bool, out *[][]string) {
	if *w.budget <= 0 {
		return
	}
	*w.budget--
	w.nodesVisited++

	if w.targets[current] {
		// A target mid-path still terminates that path; deeper paths
		// through a target are enumerated separately from their own
		// branches.
		cp := make([]string, len(trail))
		copy(cp, trail)
		*out = append(*out, cp)
	}

	if len(trail) >= w.maxDepth {
		return
	}

	from, _ := w.model.Component(current)
	for _, next := range w.model.Neighbors(current) {
		if !w.universe[next] || onPath[next] {
			continue
		}
		to, _ := w.model.Component(next)
		if w.filter != nil && !w.filter(from, to) {
			continue
		}
		w.edgesTraversed++
		onPath[next] = true
		w.dfs(next, append(trail, next), onPath, out)
		delete(onPath, next)
	}
}

// buildPath turns a node sequence into a fully scored AttackPath
func (e *Enumerator) buildPath(model *graph.Model, nodes []string, req domain.AttackPathRequest, overall map[string]float64) domain.AttackPath {
	steps := e.buildSteps(model, nodes, req)
	likelihood := e.successLikelihood(nodes, overall)
	impact := e.pathImpact(model, nodes, req.ThreatScenarios)
	risk := e.riskScore(impact, likelihood)
	pathType := classifyPath(model, nodes)

	entryName := componentName(model, nodes[0])
	targetName := componentName(model, nodes[len(nodes)-1])

	p := domain.AttackPath{
		PathID:            uuid.NewString(),
		Name:              fmt.Sprintf("%s to %s", entryName, targetName),
		Type:              pathType,
		Complexity:        classifyComplexity(steps),
		EntryPointID:      nodes[0],
		TargetID:          nodes[len(nodes)-1],
		SuccessLikelihood: likelihood,
		Impact:            impact,
		RiskScore:         risk,
		HighRisk:          risk >= e.scoring.HighRiskThreshold,
		Steps:             steps,
	}
	p.Recommendations = recommendations(p)
	return p
}

// successLikelihood is the product of per-step probabilities derived from
// each component's feasibility score
func (e *Enumerator) successLikelihood(nodes []string, overall map[string]float64) float64 {
	likelihood := 1.0
	for _, id := range nodes {
		score, ok := overall[id]
		if !ok || score == 0 {
			score = 3 // no threat scenario scored this component
		}
		likelihood *= e.scorer.StepProbability(score)
	}
	if likelihood < 0 {
		return 0
	}
	if likelihood > 1 {
		return 1
	}
	return likelihood
}

// pathImpact is the worst case over matched threats for components on the
// path, floored by a baseline derived from the target's safety level
func (e *Enumerator) pathImpact(model *graph.Model, nodes []string, threats []domain.ThreatScenario) domain.CIAImpact {
	target, _ := model.Component(nodes[len(nodes)-1])
	impact := baselineImpact(target.SafetyLevel)

	for _, threat := range threats {
		for _, id := range nodes {
			if threat.Targets(id) {
				impact = impact.Merge(threatImpactToCIA(threat.Impact))
				break
			}
		}
	}
	return impact
}

// baselineImpact assumes compromising a component hurts in proportion to
// its safety integrity level
func baselineImpact(level domain.SafetyLevel) domain.CIAImpact {
	v := map[domain.SafetyLevel]int{
		domain.SafetyQM:    1,
		domain.SafetyASILA: 2,
		domain.SafetyASILB: 3,
		domain.SafetyASILC: 4,
		domain.SafetyASILD: 5,
	}[level]
	if v == 0 {
		v = 1
	}
	return domain.CIAImpact{Confidentiality: v, Integrity: v, Availability: v}
}

// threatImpactToCIA maps the TARA impact dimensions onto the 0-5 technical
// scale: privacy drives confidentiality, safety and financial drive
// integrity, operational drives availability
func threatImpactToCIA(impact domain.ImpactScores) domain.CIAImpact {
	scale := func(v int) int {
		if v < 0 {
			return 0
		}
		if v > 5 {
			return 5
		}
		return v
	}
	integrity := impact.Safety
	if impact.Financial > integrity {
		integrity = impact.Financial
	}
	return domain.CIAImpact{
		Confidentiality: scale(impact.Privacy),
		Integrity:       scale(integrity),
		Availability:    scale(impact.Operational),
	}
}

// riskScore normalizes impact x likelihood to 0-100
func (e *Enumerator) riskScore(impact domain.CIAImpact, likelihood float64) float64 {
	risk := float64(impact.Max()) / 5.0 * likelihood * 100
	if risk < 0 {
		risk = 0
	}
	if risk > 100 {
		risk = 100
	}
	return math.Round(risk*10) / 10
}

func componentName(model *graph.Model, id string) string {
	if c, ok := model.Component(id); ok && c.Name != "" {
		return c.Name
	}
	return id
}

// sortPaths orders by risk descending with deterministic tie-breaks
func sortPaths(paths []domain.AttackPath) {
	sort.Slice(paths, func(i, j int) bool {
		if paths[i].RiskScore != paths[j].RiskScore {
			return paths[i].RiskScore > paths[j].RiskScore
		}
		if paths[i].EntryPointID != paths[j].EntryPointID {
			return paths[i].EntryPointID < paths[j].EntryPointID
		}
		if paths[i].TargetID != paths[j].TargetID {
			return paths[i].TargetID < paths[j].TargetID
		}
		return len(paths[i].Steps) < len(paths[j].Steps)
	})
}
