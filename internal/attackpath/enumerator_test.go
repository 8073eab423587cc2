package attackpath

import (
	"context"
	"errors"
	"testing"

	"taramap/internal/config"
	"taramap/internal/domain"
	"taramap/internal/feasibility"
	"taramap/internal/graph"
)

func newTestEnumerator(t *testing.T, opts ...Option) *Enumerator {
	t.Helper()
	tables, err := config.Default()
	if err != nil {
		t.Fatalf("failed to load default tables: %v", err)
	}
	return NewEnumerator(tables, feasibility.NewScorer(tables), opts...)
}

// threeZoneModel is the canonical entry->gateway->target fixture:
// A (Untrusted, External) -> B (Boundary) -> C (Critical, Internal, ASIL D)
func threeZoneModel() *graph.Model {
	return graph.NewModel([]domain.Component{
		{ID: "A", Name: "Telematics Unit", Type: domain.ComponentGateway, TrustZone: domain.ZoneUntrusted, Location: domain.LocationExternal, Interfaces: []string{"4G"}, Connections: []string{"B"}},
		{ID: "B", Name: "Central Gateway", Type: domain.ComponentGateway, TrustZone: domain.ZoneBoundary, Location: domain.LocationInternal, Interfaces: []string{"Ethernet", "CAN"}, Connections: []string{"C"}},
		{ID: "C", Name: "Brake ECU", Type: domain.ComponentECU, SafetyLevel: domain.SafetyASILD, TrustZone: domain.ZoneCritical, Location: domain.LocationInternal, Interfaces: []string{"CAN"}},
	})
}

func baseRequest() domain.AttackPathRequest {
	return domain.AttackPathRequest{
		PrimaryComponentID: "C",
		ComponentIDs:       []string{"A", "B", "C"},
		EntryPointIDs:      []string{"A"},
		TargetIDs:          []string{"C"},
		MaxDepth:           3,
	}
}

// =============================================================================
// Generate TESTS
// =============================================================================

func TestGenerateThreeZonePath(t *testing.T) {
	e := newTestEnumerator(t)

	result, err := e.Generate(context.Background(), threeZoneModel(), baseRequest(), nil)
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}

	if result.TotalPaths != 1 {
		t.Fatalf("TotalPaths = %d, want 1", result.TotalPaths)
	}
	p := result.Paths[0]

	if p.Type != domain.PathMultiStep {
		t.Errorf("path type = %s, want Multi-Step", p.Type)
	}
	if p.EntryPointID != "A" || p.TargetID != "C" {
		t.Errorf("path endpoints = %s -> %s", p.EntryPointID, p.TargetID)
	}
	if p.RiskScore <= 0 {
		t.Errorf("risk score = %f, want > 0", p.RiskScore)
	}
	if len(p.Steps) != 3 {
		t.Fatalf("steps = %d, want 3", len(p.Steps))
	}
	if p.Steps[0].Type != domain.StepInitialAccess {
		t.Errorf("first step type = %s, want Initial Access", p.Steps[0].Type)
	}
	if p.Steps[1].Type != domain.StepPrivilegeEscalation {
		t.Errorf("middle step type = %s, want Privilege Escalation", p.Steps[1].Type)
	}
	if p.Steps[2].Type != domain.StepImpact {
		t.Errorf("last step type = %s, want Impact", p.Steps[2].Type)
	}
}

func TestGeneratePathInvariants(t *testing.T) {
	e := newTestEnumerator(t)

	// diamond with a spur: two routes from the entry to the target
	model := graph.NewModel([]domain.Component{
		{ID: "ext", TrustZone: domain.ZoneUntrusted, Location: domain.LocationExternal, Connections: []string{"gw1", "gw2"}},
		{ID: "gw1", TrustZone: domain.ZoneBoundary, Connections: []string{"ecu"}},
		{ID: "gw2", TrustZone: domain.ZoneBoundary, Connections: []string{"ecu", "spur"}},
		{ID: "spur", TrustZone: domain.ZoneStandard},
		{ID: "ecu", TrustZone: domain.ZoneCritical, SafetyLevel: domain.SafetyASILC},
	})
	req := domain.AttackPathRequest{
		PrimaryComponentID: "ecu",
		ComponentIDs:       []string{"ext", "gw1", "gw2", "spur", "ecu"},
		EntryPointIDs:      []string{"ext"},
		TargetIDs:          []string{"ecu"},
		MaxDepth:           4,
	}

	result, err := e.Generate(context.Background(), model, req, nil)
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if result.TotalPaths < 2 {
		t.Fatalf("TotalPaths = %d, want >= 2", result.TotalPaths)
	}

	for _, p := range result.Paths {
		if len(p.Steps) > req.MaxDepth {
			t.Errorf("path %s has %d steps, exceeds max depth %d", p.Name, len(p.Steps), req.MaxDepth)
		}
		if p.SuccessLikelihood < 0 || p.SuccessLikelihood > 1 {
			t.Errorf("path %s likelihood %f out of [0,1]", p.Name, p.SuccessLikelihood)
		}
		if p.RiskScore < 0 || p.RiskScore > 100 {
			t.Errorf("path %s risk %f out of [0,100]", p.Name, p.RiskScore)
		}
		if p.Steps[0].ComponentID != p.EntryPointID {
			t.Errorf("path %s first step %s != entry %s", p.Name, p.Steps[0].ComponentID, p.EntryPointID)
		}
		if p.Steps[len(p.Steps)-1].ComponentID != p.TargetID {
			t.Errorf("path %s last step %s != target %s", p.Name, p.Steps[len(p.Steps)-1].ComponentID, p.TargetID)
		}
		seen := make(map[string]bool)
		for i, step := range p.Steps {
			if step.Order != i {
				t.Errorf("path %s step %d has order %d", p.Name, i, step.Order)
			}
			if seen[step.ComponentID] {
				t.Errorf("path %s revisits component %s", p.Name, step.ComponentID)
			}
			seen[step.ComponentID] = true
			if i > 0 && !model.Connected(p.Steps[i-1].ComponentID, step.ComponentID) {
				t.Errorf("path %s teleports from %s to %s", p.Name, p.Steps[i-1].ComponentID, step.ComponentID)
			}
		}
	}
}

func TestGenerateValidation(t *testing.T) {
	e := newTestEnumerator(t)
	model := threeZoneModel()

	tests := []struct {
		name      string
		mutate    func(*domain.AttackPathRequest)
		wantField string
	}{
		{
			name:      "missing primary component",
			mutate:    func(r *domain.AttackPathRequest) { r.PrimaryComponentID = "" },
			wantField: "primary_component_id",
		},
		{
			name:      "missing component universe",
			mutate:    func(r *domain.AttackPathRequest) { r.ComponentIDs = nil },
			wantField: "component_ids",
		},
		{
			name:      "missing targets",
			mutate:    func(r *domain.AttackPathRequest) { r.TargetIDs = nil },
			wantField: "target_ids",
		},
		{
			name:      "depth beyond cap",
			mutate:    func(r *domain.AttackPathRequest) { r.MaxDepth = 20 },
			wantField: "max_depth",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := baseRequest()
			tt.mutate(&req)
			_, err := e.Generate(context.Background(), model, req, nil)
			var verr *domain.ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("error = %v, want *domain.ValidationError", err)
			}
			if verr.Field != tt.wantField {
				t.Errorf("offending field = %s, want %s", verr.Field, tt.wantField)
			}
		})
	}
}

func TestGenerateUnreachableTargetIsNotAnError(t *testing.T) {
	e := newTestEnumerator(t)
	req := baseRequest()
	req.MaxDepth = 2 // A->B->C needs 3 nodes

	result, err := e.Generate(context.Background(), threeZoneModel(), req, nil)
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if result.TotalPaths != 0 {
		t.Errorf("TotalPaths = %d, want 0", result.TotalPaths)
	}
	if result.StatusNote == "" {
		t.Error("expected a diagnostic status note")
	}
	if result.Truncated {
		t.Error("unreachable target must not mark the result truncated")
	}
}

func TestGenerateDefaultEntryPoints(t *testing.T) {
	e := newTestEnumerator(t)
	req := baseRequest()
	req.EntryPointIDs = nil

	result, err := e.Generate(context.Background(), threeZoneModel(), req, nil)
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if len(result.EntryPoints) != 1 || result.EntryPoints[0] != "A" {
		t.Errorf("EntryPoints = %v, want [A]", result.EntryPoints)
	}
	if result.TotalPaths != 1 {
		t.Errorf("TotalPaths = %d, want 1", result.TotalPaths)
	}
}

func TestGenerateSkipsUnknownIDs(t *testing.T) {
	e := newTestEnumerator(t)
	req := baseRequest()
	req.ComponentIDs = append(req.ComponentIDs, "ghost")
	req.TargetIDs = []string{"ghost", "C"}

	result, err := e.Generate(context.Background(), threeZoneModel(), req, nil)
	if err != nil {
		t.Fatalf("unknown ids must be skipped, got error %v", err)
	}
	if result.TotalPaths != 1 {
		t.Errorf("TotalPaths = %d, want 1", result.TotalPaths)
	}
}

func TestGenerateLateralPath(t *testing.T) {
	e := newTestEnumerator(t)
	model := graph.NewModel([]domain.Component{
		{ID: "ivi", TrustZone: domain.ZoneStandard, Connections: []string{"amp"}},
		{ID: "amp", TrustZone: domain.ZoneStandard},
	})
	req := domain.AttackPathRequest{
		PrimaryComponentID: "amp",
		ComponentIDs:       []string{"ivi", "amp"},
		EntryPointIDs:      []string{"ivi"},
		TargetIDs:          []string{"amp"},
	}

	result, err := e.Generate(context.Background(), model, req, nil)
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if result.TotalPaths != 1 {
		t.Fatalf("TotalPaths = %d, want 1", result.TotalPaths)
	}
	if result.Paths[0].Type != domain.PathLateral {
		t.Errorf("path type = %s, want Lateral", result.Paths[0].Type)
	}
}

func TestGenerateDirectPathWhenEntryIsTarget(t *testing.T) {
	e := newTestEnumerator(t)
	req := baseRequest()
	req.EntryPointIDs = []string{"C"}

	result, err := e.Generate(context.Background(), threeZoneModel(), req, nil)
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if result.TotalPaths != 1 {
		t.Fatalf("TotalPaths = %d, want 1", result.TotalPaths)
	}
	if result.Paths[0].Type != domain.PathDirect {
		t.Errorf("path type = %s, want Direct", result.Paths[0].Type)
	}
	if len(result.Paths[0].Steps) != 1 {
		t.Errorf("steps = %d, want 1", len(result.Paths[0].Steps))
	}
}

func TestGenerateExcludePhysicalAccessConstraint(t *testing.T) {
	e := newTestEnumerator(t)
	// the only route to the target runs through a physical-only debug header
	model := graph.NewModel([]domain.Component{
		{ID: "ext", TrustZone: domain.ZoneUntrusted, Location: domain.LocationExternal, Connections: []string{"dbg"}},
		{ID: "dbg", TrustZone: domain.ZoneStandard, AccessPoints: []string{"jtag"}, Connections: []string{"ecu"}},
		{ID: "ecu", TrustZone: domain.ZoneCritical},
	})
	req := domain.AttackPathRequest{
		PrimaryComponentID: "ecu",
		ComponentIDs:       []string{"ext", "dbg", "ecu"},
		EntryPointIDs:      []string{"ext"},
		TargetIDs:          []string{"ecu"},
	}

	unconstrained, err := e.Generate(context.Background(), model, req, nil)
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if unconstrained.TotalPaths != 1 {
		t.Fatalf("unconstrained TotalPaths = %d, want 1", unconstrained.TotalPaths)
	}

	req.Constraints = []string{"exclude_physical_access"}
	constrained, err := e.Generate(context.Background(), model, req, nil)
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if constrained.TotalPaths != 0 {
		t.Errorf("constrained TotalPaths = %d, want 0", constrained.TotalPaths)
	}
}

func TestGenerateCancelledContextReturnsPartial(t *testing.T) {
	e := newTestEnumerator(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result, err := e.Generate(ctx, threeZoneModel(), baseRequest(), nil)
	if err != nil {
		t.Fatalf("cancellation must not be an error, got %v", err)
	}
	if !result.Truncated {
		t.Error("expected Truncated to be set")
	}
	if result.TotalPaths != 0 {
		t.Errorf("TotalPaths = %d, want 0", result.TotalPaths)
	}
}

func TestGenerateNodeBudgetTruncates(t *testing.T) {
	e := newTestEnumerator(t, WithNodeBudget(1))

	result, err := e.Generate(context.Background(), threeZoneModel(), baseRequest(), nil)
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if !result.Truncated {
		t.Error("expected Truncated when the node budget is exhausted")
	}
}

func TestGenerateAttachesThreatReferences(t *testing.T) {
	e := newTestEnumerator(t)
	req := baseRequest()
	req.ThreatScenarios = []domain.ThreatScenario{
		{ID: "T1", Name: "Brake tampering", TargetIDs: []string{"C"}, Likelihood: 3, Impact: domain.ImpactScores{Safety: 4}},
	}
	req.VulnerabilityIDs = []string{"CVE-2024-0001"}

	result, err := e.Generate(context.Background(), threeZoneModel(), req, nil)
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if result.TotalPaths != 1 {
		t.Fatalf("TotalPaths = %d, want 1", result.TotalPaths)
	}

	last := result.Paths[0].Steps[2]
	if len(last.ThreatRefs) != 1 || last.ThreatRefs[0] != "T1" {
		t.Errorf("target step threat refs = %v, want [T1]", last.ThreatRefs)
	}
	if len(last.VulnerabilityIDs) != 1 {
		t.Errorf("target step vulnerability ids = %v", last.VulnerabilityIDs)
	}
	first := result.Paths[0].Steps[0]
	if len(first.ThreatRefs) != 0 {
		t.Errorf("entry step should carry no threat refs, got %v", first.ThreatRefs)
	}
}

// =============================================================================
// Chain TESTS
// =============================================================================

func TestGenerateChains(t *testing.T) {
	e := newTestEnumerator(t)
	req := baseRequest()
	req.EntryPointIDs = []string{"A", "B"}
	req.TargetIDs = []string{"B", "C"}
	req.IncludeChains = true

	result, err := e.Generate(context.Background(), threeZoneModel(), req, nil)
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if result.TotalChains == 0 {
		t.Fatal("expected at least one chain")
	}

	for _, chain := range result.Chains {
		if len(chain.Paths) != 2 {
			t.Errorf("chain %s has %d paths, want 2", chain.Name, len(chain.Paths))
		}
		first, second := chain.Paths[0], chain.Paths[1]
		if first.TargetID != second.EntryPointID {
			t.Errorf("chain %s junction mismatch: %s vs %s", chain.Name, first.TargetID, second.EntryPointID)
		}
		wantSteps := len(first.Steps) + len(second.Steps) - 1
		if chain.TotalSteps != wantSteps {
			t.Errorf("chain %s total steps = %d, want %d", chain.Name, chain.TotalSteps, wantSteps)
		}
		if chain.TotalSteps > req.MaxDepth*2 {
			t.Errorf("chain %s exceeds step cap", chain.Name)
		}
		wantLikelihood := first.SuccessLikelihood * second.SuccessLikelihood
		if diff := chain.SuccessLikelihood - wantLikelihood; diff > 1e-9 || diff < -1e-9 {
			t.Errorf("chain %s likelihood = %f, want %f", chain.Name, chain.SuccessLikelihood, wantLikelihood)
		}
	}
}

func TestGenerateNoChainsWithoutFlag(t *testing.T) {
	e := newTestEnumerator(t)
	req := baseRequest()
	req.EntryPointIDs = []string{"A", "B"}
	req.TargetIDs = []string{"B", "C"}

	result, err := e.Generate(context.Background(), threeZoneModel(), req, nil)
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if result.TotalChains != 0 || len(result.Chains) != 0 {
		t.Errorf("chains built without include_chains: %d", result.TotalChains)
	}
}

// =============================================================================
// Classification TESTS
// =============================================================================

func TestClassifyComplexity(t *testing.T) {
	mkSteps := func(types ...domain.StepType) []domain.AttackStep {
		steps := make([]domain.AttackStep, len(types))
		for i, st := range types {
			steps[i] = domain.AttackStep{Type: st, Order: i}
		}
		return steps
	}

	tests := []struct {
		name  string
		steps []domain.AttackStep
		want  domain.Complexity
	}{
		{"two steps", mkSteps(domain.StepInitialAccess, domain.StepImpact), domain.ComplexityLow},
		{"three steps", mkSteps(domain.StepInitialAccess, domain.StepLateralMovement, domain.StepImpact), domain.ComplexityMedium},
		{"five steps", mkSteps(domain.StepInitialAccess, domain.StepExecution, domain.StepExecution, domain.StepExecution, domain.StepImpact), domain.ComplexityHigh},
		{"diverse types", mkSteps(domain.StepInitialAccess, domain.StepPrivilegeEscalation, domain.StepLateralMovement, domain.StepImpact), domain.ComplexityHigh},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := classifyComplexity(tt.steps); got != tt.want {
				t.Errorf("classifyComplexity() = %s, want %s", got, tt.want)
			}
		})
	}
}
