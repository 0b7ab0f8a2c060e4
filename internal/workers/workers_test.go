package workers

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/tlycode/multi-agent-system/internal/a2a"
	"github.com/tlycode/multi-agent-system/pkg/models"
)

func TestWebResearchAgent_Card(t *testing.T) {
	card := NewWebResearchAgent("http://localhost:3001", nil).Card()

	if card.Name != WebResearchAgentName {
		t.Errorf("Name = %q", card.Name)
	}
	if !card.Supports(models.TaskTypeWebResearch) || card.Supports(models.TaskTypeCRMResearch) {
		t.Errorf("SupportedTasks = %v", card.SupportedTasks)
	}
	if card.Endpoint != "http://localhost:3001" {
		t.Errorf("Endpoint = %q", card.Endpoint)
	}
}

func TestWebResearchAgent_Process(t *testing.T) {
	agent := NewWebResearchAgent("", nil)
	ctx := context.Background()

	tests := []struct {
		name     string
		types    []models.TaskType
		wantType string
	}{
		{"web research searches", []models.TaskType{models.TaskTypeWebResearch}, "web_search"},
		{"search query searches", []models.TaskType{models.TaskTypeSearchQuery}, "web_search"},
		{"url fetch fetches", []models.TaskType{models.TaskTypeURLFetch}, "url_fetch"},
		{"first handled type wins", []models.TaskType{models.TaskTypeCRMResearch, models.TaskTypeURLFetch, models.TaskTypeWebResearch}, "url_fetch"},
		{"general fallback", []models.TaskType{models.TaskTypeGeneral}, "general"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := agent.Process(ctx, "golang tutorials", tt.types)
			if err != nil {
				t.Fatalf("Process: %v", err)
			}
			task := out.(TaskOutput)
			if task.Type != tt.wantType {
				t.Errorf("Type = %q, want %q", task.Type, tt.wantType)
			}
			if task.Summary == "" {
				t.Error("Summary should be set")
			}
		})
	}
}

func TestWebResearchAgent_SearchLimitsResults(t *testing.T) {
	agent := NewWebResearchAgent("", nil)

	out, err := agent.Process(context.Background(), "go", []models.TaskType{models.TaskTypeWebResearch})
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	search := out.(TaskOutput).Data.(SearchOutput)
	if search.TotalResults != 2 || len(search.Results) != 2 {
		t.Errorf("expected 2 mock results, got %d", len(search.Results))
	}
	if !strings.Contains(search.Results[0].URL, "q=go") {
		t.Errorf("URL = %q", search.Results[0].URL)
	}
}

func TestCRMResearchAgent_Process(t *testing.T) {
	agent := NewCRMResearchAgent("", nil)
	ctx := context.Background()

	out, err := agent.Process(ctx, "pull customer contact for jane smith.", []models.TaskType{models.TaskTypeCRMResearch})
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	task := out.(TaskOutput)
	if task.Type != "customer_search" {
		t.Errorf("Type = %q, want customer_search", task.Type)
	}
	lookup := task.Data.(LookupOutput)
	if lookup.TotalFound != 1 || lookup.Customers[0].Name != "Jane Smith" {
		t.Errorf("lookup = %+v", lookup)
	}
}

func TestCRMResearchAgent_ContactLookup(t *testing.T) {
	agent := NewCRMResearchAgent("", nil)
	ctx := context.Background()

	out, err := agent.Process(ctx, "john", []models.TaskType{models.TaskTypeContactLookup})
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	task := out.(TaskOutput)
	contact := task.Data.(ContactOutput)
	if contact.Customer == nil || contact.Customer.ID != "001" {
		t.Fatalf("expected John Doe, got %+v", contact.Customer)
	}
	if contact.Interactions.TotalInteractions != 1 {
		t.Errorf("TotalInteractions = %d", contact.Interactions.TotalInteractions)
	}

	out, err = agent.Process(ctx, "nobody", []models.TaskType{models.TaskTypeContactLookup})
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	task = out.(TaskOutput)
	if task.Data.(ContactOutput).Customer != nil {
		t.Error("expected no customer")
	}
	if !strings.Contains(task.Summary, "No contact found") {
		t.Errorf("Summary = %q", task.Summary)
	}
}

func TestCRMResearchAgent_GeneralReturnsAnalytics(t *testing.T) {
	agent := NewCRMResearchAgent("", nil)

	out, err := agent.Process(context.Background(), "hello", []models.TaskType{models.TaskTypeGeneral})
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	stats := out.(TaskOutput).Analytics.(Analytics)
	if stats.TotalCustomers != 3 || stats.ActiveCustomers != 1 || stats.ProspectiveCustomers != 1 || stats.InactiveCustomers != 1 {
		t.Errorf("analytics = %+v", stats)
	}
}

func TestCRMResearchAgent_CustomerDatabase(t *testing.T) {
	agent := NewCRMResearchAgent("", nil)

	out, err := agent.tools.AccessResource(context.Background(), "customer_database", map[string]interface{}{"limit": 2, "offset": 1})
	if err != nil {
		t.Fatalf("AccessResource: %v", err)
	}
	page := out.(map[string]interface{})
	customers := page["customers"].([]Customer)
	if len(customers) != 2 || customers[0].ID != "002" {
		t.Errorf("page = %+v", customers)
	}
}

func TestAgentsOverHTTP(t *testing.T) {
	agent := NewCRMResearchAgent("", nil)
	ts := httptest.NewServer(NewServer("", agent, nil).Handler())
	defer ts.Close()

	client := a2a.NewClient(nil)
	card, err := client.FetchCard(context.Background(), ts.URL)
	if err != nil {
		t.Fatalf("FetchCard: %v", err)
	}
	card.Endpoint = ts.URL

	payload, err := client.Process(context.Background(), card, "Business Solutions", []string{"crm_research"})
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	var decoded struct {
		Summary string `json:"summary"`
	}
	if err := json.Unmarshal(payload, &decoded); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if decoded.Summary != `Found 1 customers matching "Business Solutions"` {
		t.Errorf("summary = %q", decoded.Summary)
	}

	caps, err := client.Capabilities(context.Background(), card)
	if err != nil {
		t.Fatalf("Capabilities: %v", err)
	}
	if len(caps.Tools) != 3 || len(caps.Resources) != 1 {
		t.Errorf("caps = %+v", caps)
	}
}

func TestEndpoint(t *testing.T) {
	if got := Endpoint("", DefaultWebPort); got != "http://localhost:3001" {
		t.Errorf("Endpoint = %q", got)
	}
	if got := Endpoint("0.0.0.0", 9000); got != "http://0.0.0.0:9000" {
		t.Errorf("Endpoint = %q", got)
	}
}
