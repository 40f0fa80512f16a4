package casefile

import (
	"regexp"
	"strings"

	"github.com/JustJay7/case-consult/internal/models"
)

var (
	plaintiffPattern = regexp.MustCompile(`(?i)demandante\s*:\s*([^|]*)`)
	defendantPattern = regexp.MustCompile(`(?i)demandado\s*:\s*([^|]*)`)
)

// ExtractParties pulls the plaintiff and defendant out of the authority's
// pipe-delimited parties text, e.g. "Demandante: X | Demandado: Y".
// Missing labels resolve to models.NotAvailable.
func ExtractParties(blob string) models.Parties {
	return models.Parties{
		Plaintiff: labelValue(plaintiffPattern, blob),
		Defendant: labelValue(defendantPattern, blob),
	}
}

func labelValue(pattern *regexp.Regexp, blob string) string {
	m := pattern.FindStringSubmatch(blob)
	if len(m) < 2 {
		return models.NotAvailable
	}
	if v := strings.TrimSpace(m[1]); v != "" {
		return v
	}
	return models.NotAvailable
}
