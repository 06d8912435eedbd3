package output

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/fatih/color"

	"github.com/kvasir-sec/reflectix/pkg/models"
)

var (
	cHeading = color.New(color.FgHiMagenta, color.Bold)
	cLabel   = color.New(color.FgMagenta)
	cValue   = color.New(color.FgHiCyan)
	cHigh    = color.New(color.FgHiRed, color.Bold)
	cMedium  = color.New(color.FgHiYellow)
	cLow     = color.New(color.FgHiBlue)
)

// Format returns the formatted finding string based on the selected format
func Format(f models.Finding, format string) string {
	switch format {
	case "url":
		// URL-only format for piping into other tools
		return f.URL

	case "json":
		out, err := json.Marshal(f)
		if err != nil {
			return fmt.Sprintf("{\"error\":\"failed to marshal finding: %v\"}", err)
		}
		return string(out)

	default:
		return formatHuman(f)
	}
}

func formatHuman(f models.Finding) string {
	var sb strings.Builder

	switch f.Severity {
	case models.SeverityVulnerability:
		sb.WriteString(cHeading.Sprintf("\n[+] XSS Vulnerability Found\n"))
	case models.SeverityAdditional:
		sb.WriteString(cHeading.Sprintf("\n[*] Fingerprint\n"))
	default:
		sb.WriteString(cHeading.Sprintf("\n[!] Anomaly\n"))
	}

	if f.URL != "" {
		writeField(&sb, "URL", f.URL)
	}
	if f.Module != "" {
		writeField(&sb, "Module", f.Module)
	}
	writeField(&sb, "Request", f.RequestID)
	if f.Parameter != "" {
		writeField(&sb, "Parameter", f.Parameter)
	}
	sb.WriteString(fmt.Sprintf("    %s %s\n", cLabel.Sprint("Severity:"), severityColor(f.Severity).Sprint(f.Severity)))
	if f.Evidence != "" {
		writeField(&sb, "Evidence", f.Evidence)
	}
	return sb.String()
}

func writeField(sb *strings.Builder, label, value string) {
	sb.WriteString(fmt.Sprintf("    %s %s\n", cLabel.Sprint(label+":"), cValue.Sprint(value)))
}

func severityColor(sev models.Severity) *color.Color {
	switch sev {
	case models.SeverityVulnerability:
		return cHigh
	case models.SeverityAnomaly:
		return cMedium
	default:
		return cLow
	}
}
