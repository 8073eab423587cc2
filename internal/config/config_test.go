package config

import (
	"os"
	"path/filepath"
	"testing"
)

// =============================================================================
// Default TESTS
// =============================================================================

func TestDefaultLoadsAllTables(t *testing.T) {
	tables, err := Default()
	if err != nil {
		t.Fatalf("Default() error = %v", err)
	}

	if len(tables.Scoring.InterfaceWeights) == 0 {
		t.Error("scoring table has no interface weights")
	}
	if tables.Scoring.TechnicalWeight+tables.Scoring.InvertedWeight != 1.0 {
		t.Errorf("scoring weights %f + %f do not sum to 1",
			tables.Scoring.TechnicalWeight, tables.Scoring.InvertedWeight)
	}
	if len(tables.Scoring.StepProbabilities) != 5 {
		t.Errorf("step probabilities = %d entries, want 5", len(tables.Scoring.StepProbabilities))
	}
	if tables.Scoring.HighRiskThreshold <= 0 {
		t.Error("high risk threshold not set")
	}

	if len(tables.Profiles.Profiles) == 0 {
		t.Error("profile table has no profiles")
	}
	if tables.Profiles.Default.TechnicalCapability == 0 {
		t.Error("profile table has no default baseline")
	}

	if tables.Acceptance.SeverityThresholds.High == 0 {
		t.Error("acceptance severity thresholds not set")
	}
	if len(tables.Acceptance.ReductionFactors) == 0 {
		t.Error("acceptance table has no reduction factors")
	}
	if _, ok := tables.Acceptance.BaseCriteria["default"]; !ok {
		t.Error("acceptance base criteria missing the default entry")
	}
	if len(tables.Acceptance.JustificationTemplates) == 0 {
		t.Error("acceptance table has no justification templates")
	}

	if len(tables.Compliance.SafetyClauses) == 0 {
		t.Error("compliance table has no safety clauses")
	}
	if len(tables.Compliance.TrustZoneClauses) == 0 {
		t.Error("compliance table has no trust zone clauses")
	}
	if len(tables.Compliance.ThreatClauses) == 0 {
		t.Error("compliance table has no threat clause rules")
	}
}

func TestSeverityThresholdsAreOrdered(t *testing.T) {
	tables, err := Default()
	if err != nil {
		t.Fatalf("Default() error = %v", err)
	}
	th := tables.Acceptance.SeverityThresholds
	if !(th.Negligible < th.Low && th.Low < th.Medium && th.Medium < th.High) {
		t.Errorf("severity thresholds not strictly increasing: %+v", th)
	}
}

func TestReductionFactorsAreMonotone(t *testing.T) {
	tables, err := Default()
	if err != nil {
		t.Fatalf("Default() error = %v", err)
	}
	factors := tables.Acceptance.ReductionFactors
	for i := 1; i < len(factors); i++ {
		if factors[i] < factors[i-1] {
			t.Errorf("reduction factor %d (%f) below factor %d (%f)", i, factors[i], i-1, factors[i-1])
		}
	}
	for i, f := range factors {
		if f < 0 || f > 1 {
			t.Errorf("reduction factor %d out of [0,1]: %f", i, f)
		}
	}
}

// =============================================================================
// Load TESTS
// =============================================================================

func TestLoadOverridesSingleTable(t *testing.T) {
	dir := t.TempDir()
	override := []byte("high_risk_threshold: 99\ntechnical_weight: 0.5\ninverted_weight: 0.5\n")
	if err := os.WriteFile(filepath.Join(dir, "scoring.yaml"), override, 0o644); err != nil {
		t.Fatalf("writing override: %v", err)
	}

	tables, err := Load(dir)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if tables.Scoring.HighRiskThreshold != 99 {
		t.Errorf("override not applied: high risk threshold = %f", tables.Scoring.HighRiskThreshold)
	}
	// Tables without an override file keep their embedded defaults.
	if len(tables.Profiles.Profiles) == 0 {
		t.Error("profiles table lost its embedded default")
	}
	if len(tables.Compliance.SafetyClauses) == 0 {
		t.Error("compliance table lost its embedded default")
	}
}

func TestLoadMissingDirKeepsDefaults(t *testing.T) {
	tables, err := Load(filepath.Join(t.TempDir(), "nope"))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(tables.Scoring.InterfaceWeights) == 0 {
		t.Error("expected embedded defaults when the override dir does not exist")
	}
}

func TestLoadRejectsMalformedOverride(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "profiles.yaml"), []byte("profiles: ["), 0o644); err != nil {
		t.Fatalf("writing override: %v", err)
	}

	if _, err := Load(dir); err == nil {
		t.Fatal("expected an error for malformed override YAML")
	}
}
