package attackpath

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	"taramap/internal/domain"
	"taramap/internal/graph"
	"taramap/internal/logging"
)

// intermediateCycle is used for intermediate steps that neither escalate
// privilege nor stay in the same zone
var intermediateCycle = []domain.StepType{
	domain.StepExecution,
	domain.StepLateralMovement,
	domain.StepDiscovery,
}

// buildSteps turns the node sequence into typed attack steps. The first
// step is Initial Access, the last is Impact, intermediates derive from the
// trust-zone transition out of the previous component.
func (e *Enumerator) buildSteps(model *graph.Model, nodes []string, req domain.AttackPathRequest) []domain.AttackStep {
	steps := make([]domain.AttackStep, 0, len(nodes))
	for i, id := range nodes {
		c, _ := model.Component(id)

		var stepType domain.StepType
		switch {
		case i == 0:
			stepType = domain.StepInitialAccess
		case i == len(nodes)-1:
			stepType = domain.StepImpact
		default:
			prev, _ := model.Component(nodes[i-1])
			stepType = intermediateStepType(prev, c, i)
		}

		step := domain.AttackStep{
			StepID:      uuid.NewString(),
			ComponentID: id,
			Type:        stepType,
			Description: stepDescription(stepType, c),
			Order:       i,
		}

		for _, threat := range req.ThreatScenarios {
			if threat.Targets(id) {
				step.ThreatRefs = append(step.ThreatRefs, threat.ID)
			}
		}
		if len(step.ThreatRefs) > 0 {
			step.VulnerabilityIDs = req.VulnerabilityIDs
		}

		steps = append(steps, step)
	}
	return steps
}

func intermediateStepType(prev, cur domain.Component, index int) domain.StepType {
	if domain.MoreTrusted(cur.TrustZone, prev.TrustZone) {
		return domain.StepPrivilegeEscalation
	}
	if cur.TrustZone == prev.TrustZone {
		return domain.StepLateralMovement
	}
	return intermediateCycle[(index-1)%len(intermediateCycle)]
}

func stepDescription(stepType domain.StepType, c domain.Component) string {
	name := c.Name
	if name == "" {
		name = c.ID
	}
	switch stepType {
	case domain.StepInitialAccess:
		if len(c.Interfaces) > 0 {
			return fmt.Sprintf("Gain initial access to %s via %s", name, strings.Join(c.Interfaces, "/"))
		}
		return fmt.Sprintf("Gain initial access to %s", name)
	case domain.StepImpact:
		return fmt.Sprintf("Achieve attack objective on %s", name)
	case domain.StepPrivilegeEscalation:
		return fmt.Sprintf("Escalate into the %s zone via %s", c.TrustZone, name)
	case domain.StepLateralMovement:
		return fmt.Sprintf("Move laterally to %s within the %s zone", name, c.TrustZone)
	default:
		return fmt.Sprintf("Pivot through %s", name)
	}
}

// classifyPath derives the path type from length and trust-zone structure.
// Zone-transition count takes precedence over escalation so a path crossing
// several boundaries reads as Multi-Step even when it also escalates.
func classifyPath(model *graph.Model, nodes []string) domain.PathType {
	if len(nodes) == 1 {
		return domain.PathDirect
	}

	transitions := 0
	escalates := false
	for i := 1; i < len(nodes); i++ {
		prev, _ := model.Component(nodes[i-1])
		cur, _ := model.Component(nodes[i])
		if cur.TrustZone != prev.TrustZone {
			transitions++
		}
		if domain.MoreTrusted(cur.TrustZone, prev.TrustZone) {
			escalates = true
		}
	}

	entry, _ := model.Component(nodes[0])
	target, _ := model.Component(nodes[len(nodes)-1])

	switch {
	case transitions >= 2:
		return domain.PathMultiStep
	case escalates:
		return domain.PathPrivilegeEscalation
	case entry.TrustZone == target.TrustZone:
		return domain.PathLateral
	default:
		return domain.PathMultiStep
	}
}

// classifyComplexity rates effort from step count and step-type diversity
func classifyComplexity(steps []domain.AttackStep) domain.Complexity {
	if len(steps) <= 2 {
		return domain.ComplexityLow
	}
	types := make(map[domain.StepType]bool, len(steps))
	for _, s := range steps {
		types[s.Type] = true
	}
	if len(steps) >= 5 || len(types) >= 4 {
		return domain.ComplexityHigh
	}
	return domain.ComplexityMedium
}

// recommendations derives mitigation pointers from the path structure
func recommendations(p domain.AttackPath) []string {
	recs := make([]string, 0, 2)
	switch p.Type {
	case domain.PathDirect:
		recs = append(recs, fmt.Sprintf("Harden the directly exposed interfaces of %s", p.TargetID))
	case domain.PathPrivilegeEscalation:
		recs = append(recs, "Enforce authentication and least privilege at every trust-zone boundary on this path")
	case domain.PathLateral:
		recs = append(recs, "Segment the shared trust zone to limit lateral movement")
	default:
		recs = append(recs, "Add detection and filtering at each trust-zone crossing on this path")
	}
	if p.HighRisk {
		recs = append(recs, "Prioritize this path for treatment in the next risk review")
	}
	return recs
}

// EdgeFilter decides whether an edge may be traversed. Constraint tags
// compose into a single predicate so new constraint kinds do not touch the
// traversal core.
type EdgeFilter func(from, to domain.Component) bool

// buildEdgeFilter converts the request's assumption/constraint tags into a
// composed edge predicate. Unknown tags are ignored with a debug log.
func buildEdgeFilter(tags []string) EdgeFilter {
	filters := make([]EdgeFilter, 0, len(tags))
	for _, tag := range tags {
		switch strings.ToLower(strings.TrimSpace(tag)) {
		case "exclude_physical_access":
			filters = append(filters, excludePhysicalAccess)
		case "exclude_wireless":
			filters = append(filters, excludeWireless)
		case "":
			// empty tag, nothing to do
		default:
			logging.LogDebug("Ignoring unknown traversal constraint", map[string]interface{}{"constraint": tag})
		}
	}
	if len(filters) == 0 {
		return nil
	}
	return func(from, to domain.Component) bool {
		for _, f := range filters {
			if !f(from, to) {
				return false
			}
		}
		return true
	}
}

// excludePhysicalAccess drops edges into components reachable only through
// physical access points (access points present, no network interfaces)
func excludePhysicalAccess(_, to domain.Component) bool {
	return !(len(to.AccessPoints) > 0 && len(to.Interfaces) == 0)
}

var wirelessTags = []string{"wifi", "bluetooth", "4g", "5g", "cellular"}

// excludeWireless drops edges into components whose interfaces are all
// wireless
func excludeWireless(_, to domain.Component) bool {
	if len(to.Interfaces) == 0 {
		return true
	}
	for _, iface := range to.Interfaces {
		lower := strings.ToLower(iface)
		wireless := false
		for _, tag := range wirelessTags {
			if strings.Contains(lower, tag) {
				wireless = true
				break
			}
		}
		if !wireless {
			return true
		}
	}
	return false
}
