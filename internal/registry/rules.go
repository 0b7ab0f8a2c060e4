package registry

import "github.com/tlycode/multi-agent-system/pkg/models"

// matchRule selects agents for one task type: an agent matches when its
// name contains NameHint or it advertises the task type.
type matchRule struct {
	taskType models.TaskType
	nameHint string
}

func (m matchRule) matches(a models.AgentCard) bool {
	return a.NameContains(m.nameHint) || a.Supports(m.taskType)
}

// rules are checked in order; the first rule for a task type applies.
var rules = []matchRule{
	{taskType: models.TaskTypeWebResearch, nameHint: "web"},
	{taskType: models.TaskTypeCRMResearch, nameHint: "crm"},
}

// ruleFor returns the rule for taskType, or nil when none applies.
func ruleFor(taskType models.TaskType) *matchRule {
	for i := range rules {
		if rules[i].taskType == taskType {
			return &rules[i]
		}
	}
	return nil
}
