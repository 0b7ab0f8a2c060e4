package decompose

import (
	"strings"

	"github.com/tlycode/multi-agent-system/pkg/models"
)

// Keywords is the single source of truth for task-type classification.
type Keywords struct {
	// Web keywords indicate searching or reading public web content.
	Web []string

	// CRM keywords indicate customer-relationship lookups.
	CRM []string

	// Retrieval verbs map an otherwise unclassified task to CRM research.
	Retrieval []string

	// Lookup verbs map an otherwise unclassified task to web research.
	Lookup []string
}

// DefaultKeywords returns the authoritative keyword mappings.
var DefaultKeywords = Keywords{
	Web: []string{
		"search",
		"find",
		"google",
		"web",
		"internet",
		"look up",
		"news",
		"article",
		"website",
		"online",
	},

	CRM: []string{
		"crm",
		"customer",
		"client",
		"contact",
		"hubspot",
		"salesforce",
		"history",
		"record",
		"account",
	},

	Retrieval: []string{"pull", "get", "retrieve"},

	Lookup: []string{"search", "find"},
}

var (
	highPriorityWords = []string{"urgent", "asap", "immediately"}
	lowPriorityWords  = []string{"when possible", "if you can"}
)

func (k Keywords) empty() bool {
	return len(k.Web) == 0 && len(k.CRM) == 0 && len(k.Retrieval) == 0 && len(k.Lookup) == 0
}

// Classify returns the task types for a piece of text. Web is checked before
// CRM, so a piece matching both is tagged in that order. The result is never
// empty; unmatched text falls back to general.
func (k Keywords) Classify(text string) []models.TaskType {
	lower := strings.ToLower(text)

	var types []models.TaskType
	if containsAny(lower, k.Web) {
		types = append(types, models.TaskTypeWebResearch)
	}
	if containsAny(lower, k.CRM) {
		types = append(types, models.TaskTypeCRMResearch)
	}
	if len(types) > 0 {
		return types
	}

	switch {
	case containsAny(lower, k.Retrieval):
		return []models.TaskType{models.TaskTypeCRMResearch}
	case containsAny(lower, k.Lookup):
		return []models.TaskType{models.TaskTypeWebResearch}
	default:
		return []models.TaskType{models.TaskTypeGeneral}
	}
}

// Classify classifies text with DefaultKeywords.
func Classify(text string) []models.TaskType {
	return DefaultKeywords.Classify(text)
}

// ClassifyPriority infers urgency from the text. High wins over low.
func ClassifyPriority(text string) models.Priority {
	lower := strings.ToLower(text)

	if containsAny(lower, highPriorityWords) {
		return models.PriorityHigh
	}
	if containsAny(lower, lowPriorityWords) {
		return models.PriorityLow
	}
	return models.PriorityMedium
}

// containsAny reports whether lower contains any keyword, case-insensitively.
// lower must already be lower-cased.
func containsAny(lower string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(lower, strings.ToLower(kw)) {
			return true
		}
	}
	return false
}
