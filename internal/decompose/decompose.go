// Package decompose splits free-text user requests into routable subtasks.
package decompose

import (
	"regexp"
	"strings"

	"github.com/tlycode/multi-agent-system/pkg/models"
)

// DefaultSeparators are the phrases a request is split on, applied in order.
// Matching is literal, so a separator inside a longer token still splits.
var DefaultSeparators = []string{
	" and ",
	" then ",
	" also ",
	" plus ",
	" additionally ",
	" furthermore ",
	" moreover ",
	". ",
	", and ",
	"; ",
}

var (
	leadingConjunction = regexp.MustCompile(`(?i)^(and|then|also|plus|additionally|furthermore|moreover)\s+`)
	leadingNonWord     = regexp.MustCompile(`^\W+`)
	trailingNonWord    = regexp.MustCompile(`\W+$`)
	terminalPunct      = regexp.MustCompile(`[.!?]$`)
)

// Decomposer breaks a request into subtasks and classifies each one.
// It holds no mutable state; Decompose is safe for concurrent use.
type Decomposer struct {
	separators []string
	keywords   Keywords
}

// New creates a Decomposer with the default separators and keywords.
func New() *Decomposer {
	return &Decomposer{
		separators: DefaultSeparators,
		keywords:   DefaultKeywords,
	}
}

// NewWithRules creates a Decomposer with custom separators and keywords.
// Empty arguments fall back to the defaults.
func NewWithRules(separators []string, keywords Keywords) *Decomposer {
	d := New()
	if len(separators) > 0 {
		d.separators = separators
	}
	if !keywords.empty() {
		d.keywords = keywords
	}
	return d
}

// Decompose splits text into ordered subtasks. It never fails: empty or
// whitespace-only input returns nil, any other input yields at least one
// subtask with a non-empty TaskTypes list.
func (d *Decomposer) Decompose(text string) []models.Subtask {
	pieces := d.Split(text)
	if len(pieces) == 0 {
		return nil
	}

	subtasks := make([]models.Subtask, 0, len(pieces))
	for i, piece := range pieces {
		subtasks = append(subtasks, models.Subtask{
			Index:        i,
			OriginalText: piece,
			TaskTypes:    d.keywords.Classify(piece),
			Priority:     ClassifyPriority(piece),
		})
	}
	return subtasks
}

// Split returns the cleaned pieces of text without classifying them.
func (d *Decomposer) Split(text string) []string {
	if strings.TrimSpace(text) == "" {
		return nil
	}

	units := []string{text}
	for _, sep := range d.separators {
		next := make([]string, 0, len(units))
		for _, unit := range units {
			parts := strings.Split(unit, sep)
			if len(parts) == 1 {
				next = append(next, unit)
				continue
			}
			for _, p := range parts {
				if strings.TrimSpace(p) != "" {
					next = append(next, p)
				}
			}
		}
		units = next
	}

	cleaned := make([]string, 0, len(units))
	for _, unit := range units {
		unit = strings.TrimSpace(unit)
		if unit == "" {
			continue
		}
		if c := cleanPiece(unit); c != "" {
			cleaned = append(cleaned, c)
		}
	}
	return cleaned
}

// cleanPiece strips a leading conjunction and surrounding punctuation and
// terminates the piece with a period. Pieces made only of punctuation clean
// to the empty string.
func cleanPiece(s string) string {
	s = leadingConjunction.ReplaceAllString(s, "")
	s = leadingNonWord.ReplaceAllString(s, "")
	s = trailingNonWord.ReplaceAllString(s, "")
	if s == "" {
		return ""
	}
	if !terminalPunct.MatchString(s) {
		s += "."
	}
	return s
}

// Summarize counts subtasks per task type and per priority.
func Summarize(subtasks []models.Subtask) models.TaskSummary {
	summary := models.TaskSummary{
		TotalTasks: len(subtasks),
		TaskTypes:  make(map[models.TaskType]int),
		Priorities: make(map[models.Priority]int),
	}
	for _, s := range subtasks {
		for _, t := range s.TaskTypes {
			summary.TaskTypes[t]++
		}
		summary.Priorities[s.Priority]++
	}
	return summary
}
