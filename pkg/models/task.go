package models

// TaskType is a routing tag attached to a subtask.
type TaskType string

const (
	// TaskTypeWebResearch routes to agents that search the web.
	TaskTypeWebResearch TaskType = "web_research"
	// TaskTypeCRMResearch routes to agents that query customer records.
	TaskTypeCRMResearch TaskType = "crm_research"
	// TaskTypeGeneral is the fallback tag; it is broadcast to every agent.
	TaskTypeGeneral TaskType = "general"

	// Finer-grained worker task types that agents may also advertise.
	TaskTypeSearchQuery    TaskType = "search_query"
	TaskTypeURLFetch       TaskType = "url_fetch"
	TaskTypeCustomerSearch TaskType = "customer_search"
	TaskTypeContactLookup  TaskType = "contact_lookup"
)

// String returns the tag value.
func (t TaskType) String() string {
	return string(t)
}

// TaskTypeStrings converts a tag list to plain strings, preserving order.
func TaskTypeStrings(types []TaskType) []string {
	out := make([]string, len(types))
	for i, t := range types {
		out[i] = string(t)
	}
	return out
}

// ParseTaskTypes converts plain strings to tags, preserving order.
func ParseTaskTypes(values []string) []TaskType {
	out := make([]TaskType, len(values))
	for i, v := range values {
		out[i] = TaskType(v)
	}
	return out
}

// Subtask is one independently routable unit of work extracted from a request.
type Subtask struct {
	// Index is the position of the subtask within the request, starting at 0.
	Index int `json:"index" yaml:"index"`
	// OriginalText is the cleaned text of the subtask.
	OriginalText string `json:"task" yaml:"task"`
	// TaskTypes lists the routing tags in classification order. Never empty.
	TaskTypes []TaskType `json:"taskType" yaml:"taskType"`
	// Priority is the urgency inferred from the text.
	Priority Priority `json:"priority" yaml:"priority"`
}

// HasType reports whether the subtask carries the given tag.
func (s Subtask) HasType(t TaskType) bool {
	for _, tt := range s.TaskTypes {
		if tt == t {
			return true
		}
	}
	return false
}

// TaskSummary counts subtasks per task type and per priority.
type TaskSummary struct {
	TotalTasks int              `json:"totalTasks" yaml:"totalTasks"`
	TaskTypes  map[TaskType]int `json:"taskTypes" yaml:"taskTypes"`
	Priorities map[Priority]int `json:"priorities" yaml:"priorities"`
}
