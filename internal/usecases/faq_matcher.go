package usecases

import (
	"strings"

	"intern_assistant/internal/entities"
	"intern_assistant/internal/interfaces"
)

// FAQMatcher finds the curated answer for a free-text question.
//
// A FAQ matches when it belongs to the destination and one of its keywords is
// contained in the lowercased question. The first match in directory order
// wins; there is no scoring, so short keywords can produce false positives.
type FAQMatcher struct {
	directory interfaces.Directory
}

func NewFAQMatcher(directory interfaces.Directory) *FAQMatcher {
	return &FAQMatcher{directory: directory}
}

// Match returns the first FAQ of destinationID whose keywords hit query.
func (m *FAQMatcher) Match(destinationID, query string) (entities.FAQ, bool) {
	queryLower := strings.ToLower(query)
	for _, faq := range m.directory.FindFAQs(destinationID) {
		if faq.DestinationID != destinationID {
			continue
		}
		if matchesKeyword(queryLower, faq.Keywords) {
			return faq, true
		}
	}
	return entities.FAQ{}, false
}

func matchesKeyword(queryLower string, keywords []string) bool {
	for _, keyword := range keywords {
		if strings.TrimSpace(keyword) == "" {
			continue
		}
		k := strings.ToLower(keyword)
		if strings.Contains(queryLower, k) {
			return true
		}
	}
	return false
}
