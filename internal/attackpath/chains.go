package attackpath

import (
	"fmt"
	"math"
	"sort"

	"github.com/google/uuid"

	"taramap/internal/domain"
)

// buildChains links pairs of paths where the first path's target is the
// second path's entry point. A chain never revisits a component outside the
// junction and never exceeds twice the depth bound in total steps.
func (e *Enumerator) buildChains(paths []domain.AttackPath, maxDepth int) []domain.AttackChain {
	chains := make([]domain.AttackChain, 0)
	maxSteps := maxDepth * 2

	for i := range paths {
		for j := range paths {
			if i == j {
				continue
			}
			first, second := paths[i], paths[j]
			if first.TargetID != second.EntryPointID {
				continue
			}
			// The junction component is shared; counting it once keeps the
			// step total honest.
			totalSteps := len(first.Steps) + len(second.Steps) - 1
			if totalSteps > maxSteps {
				continue
			}
			if sharesComponents(first, second) {
				continue
			}
			chains = append(chains, e.linkChain(first, second, totalSteps))
		}
	}

	sortChains(chains)
	return chains
}

// sharesComponents reports whether two paths overlap anywhere except the
// junction (first's target, second's entry)
func sharesComponents(first, second domain.AttackPath) bool {
	onFirst := make(map[string]bool, len(first.Steps))
	for _, s := range first.Steps {
		onFirst[s.ComponentID] = true
	}
	for _, s := range second.Steps {
		if s.ComponentID == second.EntryPointID {
			continue
		}
		if onFirst[s.ComponentID] {
			return true
		}
	}
	return false
}

func (e *Enumerator) linkChain(first, second domain.AttackPath, totalSteps int) domain.AttackChain {
	likelihood := first.SuccessLikelihood * second.SuccessLikelihood
	impact := first.Impact.Merge(second.Impact)
	risk := float64(impact.Max()) / 5.0 * likelihood * 100
	if risk > 100 {
		risk = 100
	}
	risk = math.Round(risk*10) / 10

	return domain.AttackChain{
		ChainID:           uuid.NewString(),
		Name:              fmt.Sprintf("%s, then %s", first.Name, second.Name),
		Paths:             []domain.AttackPath{first, second},
		TotalSteps:        totalSteps,
		Complexity:        domain.MaxComplexity(first.Complexity, second.Complexity),
		SuccessLikelihood: likelihood,
		Impact:            impact,
		RiskScore:         risk,
		HighRisk:          risk >= e.scoring.HighRiskThreshold,
	}
}

func sortChains(chains []domain.AttackChain) {
	sort.Slice(chains, func(i, j int) bool {
		if chains[i].RiskScore != chains[j].RiskScore {
			return chains[i].RiskScore > chains[j].RiskScore
		}
		if chains[i].TotalSteps != chains[j].TotalSteps {
			return chains[i].TotalSteps < chains[j].TotalSteps
		}
		return chains[i].Name < chains[j].Name
	})
}
