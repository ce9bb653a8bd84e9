package services

import (
	"strings"

	"github.com/smallbooks/bookkeeping_app/internal/core/domain"
	portssvc "github.com/smallbooks/bookkeeping_app/internal/core/ports/services"
)

// keywordClassifier buckets cash movements by scanning the entry description
// for activity keywords. This is a known approximation: free text is lossy and
// ambiguous for entries with multiple intents, which is why the classifier
// sits behind the ActivityClassifier interface.
type keywordClassifier struct {
	investing []string
	financing []string
}

// NewKeywordClassifier creates the default description-based classifier.
// Unrecognized descriptions fall into Operating.
func NewKeywordClassifier() portssvc.ActivityClassifier {
	return &keywordClassifier{
		investing: []string{
			"equipment", "vehicle", "property", "machinery",
			"asset purchase", "asset sale", "investment", "securities",
		},
		financing: []string{
			"loan", "borrow", "repayment", "dividend",
			"capital", "share", "owner draw", "owner contribution",
		},
	}
}

var _ portssvc.ActivityClassifier = (*keywordClassifier)(nil)

// Classify returns the bucket for a cash movement description.
func (c *keywordClassifier) Classify(description string) domain.CashFlowActivity {
	desc := strings.ToLower(description)
	for _, kw := range c.investing {
		if strings.Contains(desc, kw) {
			return domain.Investing
		}
	}
	for _, kw := range c.financing {
		if strings.Contains(desc, kw) {
			return domain.Financing
		}
	}
	return domain.Operating
}
