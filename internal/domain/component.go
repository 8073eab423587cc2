package domain

// ComponentType classifies a system component
type ComponentType string

const (
	ComponentECU      ComponentType = "ECU"
	ComponentSensor   ComponentType = "Sensor"
	ComponentGateway  ComponentType = "Gateway"
	ComponentActuator ComponentType = "Actuator"
	ComponentNetwork  ComponentType = "Network"
)

// SafetyLevel is the ISO 26262 automotive safety integrity level
type SafetyLevel string

const (
	SafetyQM    SafetyLevel = "QM"
	SafetyASILA SafetyLevel = "ASIL A"
	SafetyASILB SafetyLevel = "ASIL B"
	SafetyASILC SafetyLevel = "ASIL C"
	SafetyASILD SafetyLevel = "ASIL D"
)

// TrustZone is the security domain a component belongs to
type TrustZone string

const (
	ZoneCritical  TrustZone = "Critical"
	ZoneBoundary  TrustZone = "Boundary"
	ZoneStandard  TrustZone = "Standard"
	ZoneUntrusted TrustZone = "Untrusted"
)

// trustRank orders zones from least to most trusted
var trustRank = map[TrustZone]int{
	ZoneUntrusted: 0,
	ZoneStandard:  1,
	ZoneBoundary:  2,
	ZoneCritical:  3,
}

// TrustRank returns the ordering rank of a trust zone (0 = least trusted).
// Unknown zones rank as Standard.
func TrustRank(z TrustZone) int {
	if r, ok := trustRank[z]; ok {
		return r
	}
	return trustRank[ZoneStandard]
}

// MoreTrusted reports whether zone a is strictly more trusted than zone b
func MoreTrusted(a, b TrustZone) bool {
	return TrustRank(a) > TrustRank(b)
}

// Location indicates physical placement of a component
type Location string

const (
	LocationInternal Location = "Internal"
	LocationExternal Location = "External"
)

// Component represents a node in the system model under analysis
type Component struct {
	ID           string        `json:"id" yaml:"id"`
	Name         string        `json:"name" yaml:"name"`
	Type         ComponentType `json:"type" yaml:"type"`
	SafetyLevel  SafetyLevel   `json:"safety_level" yaml:"safety_level"`
	TrustZone    TrustZone     `json:"trust_zone" yaml:"trust_zone"`
	Location     Location      `json:"location" yaml:"location"`
	Interfaces   []string      `json:"interfaces,omitempty" yaml:"interfaces,omitempty"`
	AccessPoints []string      `json:"access_points,omitempty" yaml:"access_points,omitempty"`
	Connections  []string      `json:"connections,omitempty" yaml:"connections,omitempty"`
}
