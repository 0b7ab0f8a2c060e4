// Package render formats orchestration results for the terminal.
package render

import (
	"encoding/json"
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/fatih/color"
	"github.com/tidwall/gjson"
	"gopkg.in/yaml.v3"

	"github.com/tlycode/multi-agent-system/pkg/models"
)

// Format selects the output encoding.
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// ParseFormat converts a format name to a Format.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatText, FormatJSON, FormatYAML:
		return f, nil
	case "":
		return FormatText, nil
	default:
		return "", fmt.Errorf("unknown output format %q (want text, json or yaml)", s)
	}
}

var (
	headerColor  = color.New(color.FgCyan, color.Bold)
	successColor = color.New(color.FgGreen)
	failureColor = color.New(color.FgRed)
	dimColor     = color.New(color.FgHiBlack)
)

// Write renders result to w in the given format.
func Write(w io.Writer, result *models.OrchestrationResult, format Format) error {
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(result); err != nil {
			return fmt.Errorf("encode json: %w", err)
		}
		return nil
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(result); err != nil {
			return fmt.Errorf("encode yaml: %w", err)
		}
		return enc.Close()
	default:
		Text(w, result)
		return nil
	}
}

// Text writes the human-readable report. Requests with several tasks list
// each task; single-task requests print the agents' payloads in full.
func Text(w io.Writer, result *models.OrchestrationResult) {
	fmt.Fprintln(w)
	fmt.Fprintln(w, headerColor.Sprint("=== QUERY RESULT ==="))
	fmt.Fprintf(w, "Input: %s\n", result.UserInput)
	fmt.Fprintf(w, "Success: %t\n", result.Success)

	if !result.Success {
		fmt.Fprintf(w, "Error: %s\n", failureColor.Sprint(result.Message))
		return
	}

	if result.TotalTasks > 1 {
		multiTask(w, result)
	} else {
		singleTask(w, result)
	}
}

func multiTask(w io.Writer, result *models.OrchestrationResult) {
	fmt.Fprintf(w, "\nMultiple Tasks Detected: %d\n", result.TotalTasks)
	fmt.Fprintln(w, "Task Summary:")
	for _, t := range sortedTypes(result.TaskSummary.TaskTypes) {
		fmt.Fprintf(w, "  - %s: %d task(s)\n", t, result.TaskSummary.TaskTypes[t])
	}
	fmt.Fprintf(w, "Agents Used: %s\n", joinOr(result.AgentsUsed, "None"))

	fmt.Fprintln(w)
	fmt.Fprintln(w, headerColor.Sprint("=== OVERALL RESPONSE ==="))
	fmt.Fprintln(w, result.Summary)

	fmt.Fprintln(w)
	fmt.Fprintln(w, headerColor.Sprint("=== TASK RESULTS ==="))
	for i, tr := range result.TaskResults {
		fmt.Fprintf(w, "\n%d. %s\n", i+1, tr.Subtask.OriginalText)
		fmt.Fprintf(w, "   Type: %s\n", joinOr(models.TaskTypeStrings(tr.Subtask.TaskTypes), "N/A"))
		fmt.Fprintf(w, "   Priority: %s\n", tr.Subtask.Priority)
		fmt.Fprintf(w, "   Status: %s\n", status(tr.Success))

		if tr.Success {
			for _, o := range tr.Successes() {
				fmt.Fprintf(w, "   %s: %s\n", o.Agent, PayloadSummary(o.Payload))
			}
		} else {
			fmt.Fprintf(w, "   Error: %s\n", tr.Message)
		}
	}

	if len(result.Errors) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, failureColor.Sprint("=== ERRORS ==="))
		for _, e := range result.Errors {
			fmt.Fprintf(w, "- Task: %s\n", orDefault(e.Task, "Unknown"))
			fmt.Fprintf(w, "  Agent: %s\n", orDefault(e.Agent, "N/A"))
			fmt.Fprintf(w, "  Error: %s\n", e.Error)
		}
	}
}

func singleTask(w io.Writer, result *models.OrchestrationResult) {
	var types []string
	if len(result.TaskResults) > 0 {
		types = models.TaskTypeStrings(result.TaskResults[0].Subtask.TaskTypes)
	}
	fmt.Fprintf(w, "Task Type: %s\n", joinOr(types, "N/A"))
	fmt.Fprintf(w, "Agents Used: %s\n", joinOr(result.AgentsUsed, "None"))

	fmt.Fprintln(w)
	fmt.Fprintln(w, headerColor.Sprint("=== RESPONSE ==="))
	fmt.Fprintln(w, result.Summary)

	if len(result.Results) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, headerColor.Sprint("=== DETAILED RESULTS ==="))
		for i, r := range result.Results {
			fmt.Fprintf(w, "\n%d. %s:\n", i+1, r.Agent)
			fmt.Fprintf(w, "   %s\n", indentJSON(r.Result))
		}
	}

	if len(result.Errors) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, failureColor.Sprint("=== ERRORS ==="))
		for _, e := range result.Errors {
			fmt.Fprintf(w, "- %s: %s\n", orDefault(e.Agent, "Unknown"), e.Error)
		}
	}
}

// Brief writes the compact report used by interactive mode.
func Brief(w io.Writer, result *models.OrchestrationResult) {
	headline := result.Summary
	if headline == "" {
		headline = result.Message
	}
	fmt.Fprintf(w, "[%s] %s\n", status(result.Success), headline)

	if !result.Success {
		return
	}
	if result.TotalTasks > 1 {
		fmt.Fprintf(w, "  Completed %d tasks\n", result.TotalTasks)
		for i, tr := range result.TaskResults {
			fmt.Fprintf(w, "  %d. %s - %s\n", i+1, tr.Subtask.OriginalText, status(tr.Success))
		}
		return
	}
	for _, r := range result.Results {
		fmt.Fprintf(w, "  %s: %s\n", r.Agent, PayloadSummary(r.Result))
	}
}

// Agents writes one line per agent card.
func Agents(w io.Writer, agents []models.AgentCard) {
	if len(agents) == 0 {
		fmt.Fprintln(w, failureColor.Sprint("No agents discovered"))
		return
	}
	for _, a := range agents {
		fmt.Fprintf(w, "%s %s\n", successColor.Sprint(a.Name), dimColor.Sprint(a.Endpoint))
		if a.Description != "" {
			fmt.Fprintf(w, "  %s\n", a.Description)
		}
		fmt.Fprintf(w, "  tasks: %s\n", joinOr(a.SupportedTasks, "none"))
		fmt.Fprintf(w, "  capabilities: %s\n", joinOr(a.Capabilities, "none"))
	}
}

// PayloadSummary returns the payload's "summary" field, or "Processed".
func PayloadSummary(payload json.RawMessage) string {
	if s := gjson.GetBytes(payload, "summary"); s.Exists() && s.String() != "" {
		return s.String()
	}
	return "Processed"
}

func status(ok bool) string {
	if ok {
		return successColor.Sprint("SUCCESS")
	}
	return failureColor.Sprint("FAILED")
}

func indentJSON(raw json.RawMessage) string {
	var v interface{}
	if err := json.Unmarshal(raw, &v); err != nil {
		return string(raw)
	}
	out, err := json.MarshalIndent(v, "   ", "  ")
	if err != nil {
		return string(raw)
	}
	return string(out)
}

func sortedTypes(m map[models.TaskType]int) []models.TaskType {
	types := make([]models.TaskType, 0, len(m))
	for t := range m {
		types = append(types, t)
	}
	slices.Sort(types)
	return types
}

func joinOr(items []string, def string) string {
	if len(items) == 0 {
		return def
	}
	return strings.Join(items, ", ")
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
