package product

import (
	"encoding/json"
	"fmt"
)

// RiskLevel classifies how likely a product's reviews are manipulated.
type RiskLevel int

const (
	RiskLow    RiskLevel = iota
	RiskMedium
	RiskHigh
)

var riskLevelNames = map[RiskLevel]string{
	RiskLow:    "LOW",
	RiskMedium: "MEDIUM",
	RiskHigh:   "HIGH",
}

func (r RiskLevel) String() string {
	if s, ok := riskLevelNames[r]; ok {
		return s
	}
	return "UNKNOWN"
}

// MarshalJSON serialises RiskLevel as a JSON string.
func (r RiskLevel) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.String())
}

// UnmarshalJSON deserialises a JSON string into RiskLevel.
func (r *RiskLevel) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	for k, v := range riskLevelNames {
		if v == s {
			*r = k
			return nil
		}
	}
	return fmt.Errorf("unknown risk level %q", s)
}

//Personal.AI order the ending
