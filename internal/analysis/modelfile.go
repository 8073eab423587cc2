package analysis

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"taramap/internal/graph"
)

// LoadModelFile reads a YAML model file into an analysis request and runs
// the graph-integrity check the engine assumes has already happened.
func LoadModelFile(path string) (*Request, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read model file: %w", err)
	}

	var req Request
	if err := yaml.Unmarshal(data, &req); err != nil {
		return nil, fmt.Errorf("failed to parse model file %s: %w", path, err)
	}

	if err := graph.CheckIntegrity(req.Components); err != nil {
		return nil, fmt.Errorf("model file %s failed integrity check: %w", path, err)
	}

	applyDefaults(&req)
	return &req, nil
}

// applyDefaults fills optional request fields: a universe of all components
// and a primary component matching the first target.
func applyDefaults(req *Request) {
	if len(req.AttackPath.TargetIDs) == 0 {
		return
	}
	if len(req.AttackPath.ComponentIDs) == 0 {
		for _, c := range req.Components {
			req.AttackPath.ComponentIDs = append(req.AttackPath.ComponentIDs, c.ID)
		}
	}
	if req.AttackPath.PrimaryComponentID == "" {
		req.AttackPath.PrimaryComponentID = req.AttackPath.TargetIDs[0]
	}
}
