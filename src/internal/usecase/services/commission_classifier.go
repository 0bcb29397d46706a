package services

import (
	"regexp"
	"strings"

	"github.com/api-sage/accounts-ledger/src/internal/domain"
)

var defaultCommissionKeywords = []string{"FEE", "COMMISSION", "COMISION"}

// CommissionClassifier decides which movements are commission charges and
// under which label they are aggregated.
type CommissionClassifier struct {
	pattern *regexp.Regexp
}

// NewCommissionClassifier matches references containing any of keywords,
// ignoring case. An empty list falls back to FEE, COMMISSION and COMISION.
func NewCommissionClassifier(keywords []string) *CommissionClassifier {
	quoted := make([]string, 0, len(keywords))
	for _, k := range keywords {
		k = strings.ToUpper(strings.TrimSpace(k))
		if k != "" {
			quoted = append(quoted, regexp.QuoteMeta(k))
		}
	}
	if len(quoted) == 0 {
		return NewCommissionClassifier(defaultCommissionKeywords)
	}
	return &CommissionClassifier{pattern: regexp.MustCompile("(" + strings.Join(quoted, "|") + ")")}
}

func (c *CommissionClassifier) IsCommission(m domain.AccountMovement) bool {
	if m.Kind == domain.MovementCommission {
		return true
	}
	return c.pattern.MatchString(strings.ToUpper(m.Reference))
}

// Classify returns the aggregation label of a commission movement.
func (c *CommissionClassifier) Classify(m domain.AccountMovement) string {
	if ref := strings.TrimSpace(m.Reference); ref != "" {
		return ref
	}
	return domain.DefaultCommissionClass
}
