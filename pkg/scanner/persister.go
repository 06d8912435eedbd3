package scanner

import (
	"sync"

	"github.com/kvasir-sec/reflectix/pkg/models"
)

// MemoryPersister accumulates findings in memory. One instance is
// shared by all attack tasks of a scan.
type MemoryPersister struct {
	mu       sync.Mutex
	findings []models.Finding
}

func NewMemoryPersister() *MemoryPersister {
	return &MemoryPersister{}
}

func (p *MemoryPersister) record(f models.Finding) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.findings = append(p.findings, f)
}

func (p *MemoryPersister) RecordVulnerability(requestID, parameter, evidence string) {
	p.record(models.Finding{
		RequestID: requestID,
		Parameter: parameter,
		Evidence:  evidence,
		Severity:  models.SeverityVulnerability,
	})
}

func (p *MemoryPersister) RecordAdditionalInfo(requestID, parameter, evidence string) {
	p.record(models.Finding{
		RequestID: requestID,
		Parameter: parameter,
		Evidence:  evidence,
		Severity:  models.SeverityAdditional,
	})
}

func (p *MemoryPersister) RecordAnomaly(requestID, parameter, evidence string) {
	p.record(models.Finding{
		RequestID: requestID,
		Parameter: parameter,
		Evidence:  evidence,
		Severity:  models.SeverityAnomaly,
	})
}

// Findings returns a copy of everything recorded so far.
func (p *MemoryPersister) Findings() []models.Finding {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]models.Finding, len(p.findings))
	copy(out, p.findings)
	return out
}

// BySeverity filters recorded findings.
func (p *MemoryPersister) BySeverity(sev models.Severity) []models.Finding {
	var out []models.Finding
	for _, f := range p.Findings() {
		if f.Severity == sev {
			out = append(out, f)
		}
	}
	return out
}
