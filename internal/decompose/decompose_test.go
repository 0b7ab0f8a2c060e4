package decompose

import (
	"reflect"
	"testing"

	"github.com/tlycode/multi-agent-system/pkg/models"
)

func TestSplit(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{
			name:  "single task gets a period",
			input: "search for golang news",
			want:  []string{"search for golang news."},
		},
		{
			name:  "and separator",
			input: "search for javascript tutorials and pull customer contact for jane smith",
			want:  []string{"search for javascript tutorials.", "pull customer contact for jane smith."},
		},
		{
			name:  "sentence separator keeps existing punctuation rules",
			input: "Find the latest news. Look up client records!",
			want:  []string{"Find the latest news.", "Look up client records."},
		},
		{
			name:  "separators applied in rank order",
			input: "find a; get b then c",
			want:  []string{"find a.", "get b.", "c."},
		},
		{
			name:  "comma and splits after and already ran",
			input: "find a, and get b",
			want:  []string{"find a.", "get b."},
		},
		{
			name:  "leading conjunction stripped",
			input: "Also search the web",
			want:  []string{"search the web."},
		},
		{
			name:  "surrounding punctuation stripped",
			input: "  \"check the account\"  ",
			want:  []string{"check the account."},
		},
		{
			name:  "trailing question mark normalized",
			input: "who is jane?",
			want:  []string{"who is jane."},
		},
		{
			name:  "empty pieces dropped",
			input: "find a and  and get b",
			want:  []string{"find a.", "get b."},
		},
		{
			name:  "punctuation-only piece dropped",
			input: "find a; !!!",
			want:  []string{"find a."},
		},
		{
			name:  "literal split on abbreviation",
			input: "call Mr. Smith",
			want:  []string{"call Mr.", "Smith."},
		},
	}

	d := New()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := d.Split(tt.input)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Split(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestDecompose_EmptyInput(t *testing.T) {
	d := New()
	for _, input := range []string{"", "   ", "\n\t"} {
		if got := d.Decompose(input); len(got) != 0 {
			t.Errorf("Decompose(%q) = %v, want empty", input, got)
		}
	}
}

func TestDecompose_NonEmptyInputAlwaysTagged(t *testing.T) {
	inputs := []string{
		"hello",
		"x",
		"do something and do another thing",
		"pull the report; email it; then relax",
		"...what?",
		"urgent!",
	}

	d := New()
	for _, input := range inputs {
		subtasks := d.Decompose(input)
		if len(subtasks) == 0 {
			t.Errorf("Decompose(%q) returned no subtasks", input)
			continue
		}
		for i, s := range subtasks {
			if len(s.TaskTypes) == 0 {
				t.Errorf("Decompose(%q)[%d] has empty TaskTypes", input, i)
			}
			if s.Index != i {
				t.Errorf("Decompose(%q)[%d].Index = %d", input, i, s.Index)
			}
			if !s.Priority.Valid() {
				t.Errorf("Decompose(%q)[%d].Priority = %q", input, i, s.Priority)
			}
		}
	}
}

func TestDecompose_Idempotent(t *testing.T) {
	d := New()
	input := "search for javascript tutorials and pull customer contact for jane smith asap"

	first := d.Decompose(input)
	second := d.Decompose(input)
	if !reflect.DeepEqual(first, second) {
		t.Errorf("Decompose not idempotent:\n first=%+v\nsecond=%+v", first, second)
	}
}

func TestDecompose_TwoTaskScenario(t *testing.T) {
	d := New()
	subtasks := d.Decompose("search for javascript tutorials and pull customer contact for jane smith")

	if len(subtasks) != 2 {
		t.Fatalf("expected 2 subtasks, got %d: %+v", len(subtasks), subtasks)
	}

	if !reflect.DeepEqual(subtasks[0].TaskTypes, []models.TaskType{models.TaskTypeWebResearch}) {
		t.Errorf("subtask 0 types = %v, want [web_research]", subtasks[0].TaskTypes)
	}
	if !reflect.DeepEqual(subtasks[1].TaskTypes, []models.TaskType{models.TaskTypeCRMResearch}) {
		t.Errorf("subtask 1 types = %v, want [crm_research]", subtasks[1].TaskTypes)
	}
	for i, s := range subtasks {
		if s.Priority != models.PriorityMedium {
			t.Errorf("subtask %d priority = %q, want medium", i, s.Priority)
		}
	}
}

func TestNewWithRules(t *testing.T) {
	d := NewWithRules([]string{" | "}, Keywords{Web: []string{"browse"}})

	subtasks := d.Decompose("browse docs | call bob and sue")
	if len(subtasks) != 2 {
		t.Fatalf("expected 2 subtasks, got %d", len(subtasks))
	}
	if subtasks[0].OriginalText != "browse docs." {
		t.Errorf("subtask 0 = %q", subtasks[0].OriginalText)
	}
	if subtasks[1].OriginalText != "call bob and sue." {
		t.Errorf("custom separators should replace the defaults, got %q", subtasks[1].OriginalText)
	}
	if !reflect.DeepEqual(subtasks[0].TaskTypes, []models.TaskType{models.TaskTypeWebResearch}) {
		t.Errorf("subtask 0 types = %v", subtasks[0].TaskTypes)
	}

	fallback := NewWithRules(nil, Keywords{})
	if !reflect.DeepEqual(fallback.separators, DefaultSeparators) {
		t.Error("nil separators should fall back to defaults")
	}
}

func TestSummarize(t *testing.T) {
	subtasks := []models.Subtask{
		{TaskTypes: []models.TaskType{models.TaskTypeWebResearch}, Priority: models.PriorityHigh},
		{TaskTypes: []models.TaskType{models.TaskTypeWebResearch, models.TaskTypeCRMResearch}, Priority: models.PriorityMedium},
		{TaskTypes: []models.TaskType{models.TaskTypeGeneral}, Priority: models.PriorityMedium},
	}

	summary := Summarize(subtasks)

	if summary.TotalTasks != 3 {
		t.Errorf("TotalTasks = %d, want 3", summary.TotalTasks)
	}
	wantTypes := map[models.TaskType]int{
		models.TaskTypeWebResearch: 2,
		models.TaskTypeCRMResearch: 1,
		models.TaskTypeGeneral:     1,
	}
	if !reflect.DeepEqual(summary.TaskTypes, wantTypes) {
		t.Errorf("TaskTypes = %v, want %v", summary.TaskTypes, wantTypes)
	}
	wantPriorities := map[models.Priority]int{models.PriorityHigh: 1, models.PriorityMedium: 2}
	if !reflect.DeepEqual(summary.Priorities, wantPriorities) {
		t.Errorf("Priorities = %v, want %v", summary.Priorities, wantPriorities)
	}
}
