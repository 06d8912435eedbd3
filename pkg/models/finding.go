package models

// Severity classifies what a finding means for the target.
type Severity string

const (
	SeverityVulnerability Severity = "vulnerability"
	SeverityAdditional    Severity = "additional"
	SeverityAnomaly       Severity = "anomaly"
)

// Finding is a confirmed result for one parameter of one request. It
// is created only after verification succeeded and is immutable.
type Finding struct {
	RequestID string   `json:"request_id"`
	Module    string   `json:"module"`
	Parameter string   `json:"parameter,omitempty"`
	Evidence  string   `json:"evidence"`
	Severity  Severity `json:"severity"`
	URL       string   `json:"url,omitempty"`
}
