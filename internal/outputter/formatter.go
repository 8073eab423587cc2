package outputter

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"taramap/internal/analysis"
	"taramap/internal/domain"
	"taramap/internal/logging"
)

// FormatPathFlow creates a compact path representation
func FormatPathFlow(path domain.AttackPath) string {
	var sb strings.Builder

	sb.WriteString("Attacker → ")
	for i, step := range path.Steps {
		sb.WriteString(fmt.Sprintf("%s %s", GetStepIcon(step.Type), step.ComponentID))
		if i < len(path.Steps)-1 {
			sb.WriteString(" → ")
		}
	}
	sb.WriteString(fmt.Sprintf("  [%s, risk %.1f]", path.Type, path.RiskScore))

	return sb.String()
}

// GetStepIcon returns a display icon for a step type
func GetStepIcon(stepType domain.StepType) string {
	switch stepType {
	case domain.StepInitialAccess:
		return "🌐"
	case domain.StepPrivilegeEscalation:
		return "🔓"
	case domain.StepLateralMovement:
		return "↔️"
	case domain.StepImpact:
		return "💥"
	default:
		return "🔸"
	}
}

// GetSeverityIcon returns a display icon for a risk severity
func GetSeverityIcon(severity domain.RiskSeverity) string {
	switch severity {
	case domain.SeverityCritical:
		return "🔴"
	case domain.SeverityHigh:
		return "🟠"
	case domain.SeverityMedium:
		return "🟡"
	case domain.SeverityLow:
		return "🟢"
	default:
		return "⚪"
	}
}

// GetDecisionIcon returns a display icon for an acceptance decision
func GetDecisionIcon(decision domain.AcceptanceDecision) string {
	switch decision {
	case domain.DecisionAccept:
		return "✅"
	case domain.DecisionAcceptWithControls:
		return "🛡️"
	case domain.DecisionTransfer:
		return "📤"
	case domain.DecisionAvoid:
		return "⛔"
	case domain.DecisionMitigate:
		return "🔧"
	default:
		return "❓"
	}
}

// FormatSummary renders the whole analysis result for the console
func FormatSummary(result *analysis.Result) string {
	var sb strings.Builder

	sb.WriteString("\n")
	sb.WriteString(strings.Repeat("═", 79))
	sb.WriteString("\nTARA ANALYSIS SUMMARY\n")
	sb.WriteString(strings.Repeat("═", 79))
	sb.WriteString("\n\n")

	sb.WriteString(fmt.Sprintf("Feasibility scores computed: %d\n", len(result.Feasibility)))

	if ap := result.AttackPaths; ap != nil {
		sb.WriteString(fmt.Sprintf("Entry points: %s\n", strings.Join(ap.EntryPoints, ", ")))
		sb.WriteString(fmt.Sprintf("Targets: %s\n", strings.Join(ap.CriticalTargets, ", ")))
		sb.WriteString(fmt.Sprintf("Attack paths: %d (%d high risk)\n", ap.TotalPaths, ap.HighRiskPaths))
		if ap.TotalChains > 0 {
			sb.WriteString(fmt.Sprintf("Attack chains: %d (%d high risk)\n", ap.TotalChains, ap.HighRiskChains))
		}
		if ap.Truncated {
			sb.WriteString(fmt.Sprintf("⚠️  Partial results: %s\n", ap.StatusNote))
		} else if ap.StatusNote != "" {
			sb.WriteString(fmt.Sprintf("Note: %s\n", ap.StatusNote))
		}
		sb.WriteString("\n")
		for _, path := range ap.Paths {
			sb.WriteString("  ")
			sb.WriteString(FormatPathFlow(path))
			sb.WriteString("\n")
		}
	}

	if len(result.Assessments) > 0 {
		sb.WriteString("\nRisk acceptance decisions:\n")
		for _, a := range result.Assessments {
			sb.WriteString(fmt.Sprintf("  %s %-22s %s %-10s  %s (residual %.2f)\n",
				GetDecisionIcon(a.Decision), a.Decision,
				GetSeverityIcon(a.Severity), a.Severity,
				a.ThreatName, a.ResidualRisk))
		}
	}

	sb.WriteString(fmt.Sprintf("\nNodes visited: %d  |  Paths emitted: %d  |  Duration: %s\n",
		result.Metrics.NodesVisited, result.Metrics.PathsEmitted, result.Metrics.Duration))

	return sb.String()
}

// SaveResultsToFile saves an analysis result to a JSON file.
// Files are saved under results/ unless filename is an absolute path.
func SaveResultsToFile(result *analysis.Result, filename string) error {
	var filePath string

	if filename == "" {
		filename = fmt.Sprintf("tara_analysis_%s.json", time.Now().Format("20060102_150405"))
	}

	if filepath.IsAbs(filename) {
		filePath = filename
	} else {
		outputDir := "results"
		if err := os.MkdirAll(outputDir, 0755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
		filePath = filepath.Join(outputDir, filename)
	}

	file, err := os.Create(filePath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer file.Close()

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(result); err != nil {
		return fmt.Errorf("failed to encode results: %w", err)
	}

	logging.LogDebug("Analysis results saved", map[string]interface{}{"file": filePath})
	return nil
}
