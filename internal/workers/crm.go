package workers

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/tlycode/multi-agent-system/internal/a2a"
	"github.com/tlycode/multi-agent-system/internal/logging"
	"github.com/tlycode/multi-agent-system/internal/mcp"
	"github.com/tlycode/multi-agent-system/pkg/models"
)

// CRMResearchAgentName is the card name of the CRM agent.
const CRMResearchAgentName = "CRMResearchAgent"

// Customer is a mock CRM record.
type Customer struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Email       string `json:"email"`
	Company     string `json:"company"`
	Status      string `json:"status"`
	LastContact string `json:"lastContact"`
}

// Interaction is a logged touchpoint with a customer.
type Interaction struct {
	CustomerID string `json:"customerId"`
	Type       string `json:"type"`
	Date       string `json:"date"`
	Subject    string `json:"subject"`
	Notes      string `json:"notes"`
}

// LookupOutput is the customer_lookup tool result.
type LookupOutput struct {
	Query      string     `json:"query"`
	Customers  []Customer `json:"customers"`
	TotalFound int        `json:"totalFound"`
	SearchTime int64      `json:"searchTime"`
}

// InteractionsOutput is the get_customer_interactions tool result.
type InteractionsOutput struct {
	CustomerID        string        `json:"customerId"`
	Interactions      []Interaction `json:"interactions"`
	TotalInteractions int           `json:"totalInteractions"`
	RetrievalTime     int64         `json:"retrievalTime"`
}

// Analytics is the crm_analytics tool result.
type Analytics struct {
	TotalCustomers       int   `json:"totalCustomers"`
	ActiveCustomers      int   `json:"activeCustomers"`
	ProspectiveCustomers int   `json:"prospectiveCustomers"`
	InactiveCustomers    int   `json:"inactiveCustomers"`
	TotalInteractions    int   `json:"totalInteractions"`
	LastUpdated          int64 `json:"lastUpdated"`
}

// ContactOutput is the contact_lookup task result data.
type ContactOutput struct {
	Customer     *Customer          `json:"customer"`
	Interactions InteractionsOutput `json:"interactions"`
}

var mockCustomers = []Customer{
	{ID: "001", Name: "John Doe", Email: "john.doe@example.com", Company: "Tech Corp", Status: "active", LastContact: "2024-01-15"},
	{ID: "002", Name: "Jane Smith", Email: "jane.smith@business.com", Company: "Business Solutions", Status: "prospective", LastContact: "2024-01-10"},
	{ID: "003", Name: "Bob Johnson", Email: "bob.johnson@startup.io", Company: "Startup Inc", Status: "inactive", LastContact: "2023-12-20"},
}

var mockInteractions = []Interaction{
	{CustomerID: "001", Type: "email", Date: "2024-01-15", Subject: "Product inquiry", Notes: "Customer interested in premium features"},
	{CustomerID: "002", Type: "call", Date: "2024-01-10", Subject: "Demo request", Notes: "Scheduled product demonstration"},
}

// CRMResearchAgent answers customer research tasks from mock CRM data.
type CRMResearchAgent struct {
	card         models.AgentCard
	tools        *mcp.Registry
	customers    []Customer
	interactions []Interaction
	logger       *logging.Logger
}

// NewCRMResearchAgent creates the CRM agent advertising endpoint.
func NewCRMResearchAgent(endpoint string, logger *logging.Logger) *CRMResearchAgent {
	a := &CRMResearchAgent{
		card: models.NewAgentCard(
			CRMResearchAgentName,
			"Specialized agent for CRM data analysis and customer research",
			endpoint,
			[]string{"customer_lookup", "contact_analysis", "crm_queries"},
			[]string{"crm_research", "customer_search", "contact_lookup"},
		),
		tools:        mcp.NewRegistry(),
		customers:    mockCustomers,
		interactions: mockInteractions,
		logger:       logger.With(CRMResearchAgentName),
	}
	a.registerTools()
	return a
}

// Card returns the agent card.
func (a *CRMResearchAgent) Card() models.AgentCard { return a.card }

// Capabilities lists the agent's tools and resources.
func (a *CRMResearchAgent) Capabilities() a2a.Capabilities { return a.tools.Capabilities() }

// lookup returns customers whose name, email or company contains query,
// or whose name appears in query. The reverse check lets a full sentence
// such as "pull customer contact for jane smith." find Jane Smith.
func (a *CRMResearchAgent) lookup(query string) []Customer {
	q := strings.ToLower(strings.TrimSpace(query))
	matches := []Customer{}
	for _, c := range a.customers {
		name := strings.ToLower(c.Name)
		if strings.Contains(name, q) ||
			strings.Contains(strings.ToLower(c.Email), q) ||
			strings.Contains(strings.ToLower(c.Company), q) ||
			strings.Contains(q, name) {
			matches = append(matches, c)
		}
	}
	return matches
}

func (a *CRMResearchAgent) registerTools() {
	a.tools.RegisterTool("customer_lookup", mcp.HandlerFunc(func(ctx context.Context, p mcp.Params) (interface{}, error) {
		query := p.String("query", "")
		a.logger.Debugf("customer_lookup: %s", query)
		matches := a.lookup(query)
		return LookupOutput{
			Query:      query,
			Customers:  matches,
			TotalFound: len(matches),
			SearchTime: time.Now().UnixMilli(),
		}, nil
	}), "Looks up customers in CRM system")

	a.tools.RegisterTool("get_customer_interactions", mcp.HandlerFunc(func(ctx context.Context, p mcp.Params) (interface{}, error) {
		id := p.String("customerId", "")
		out := []Interaction{}
		for _, i := range a.interactions {
			if i.CustomerID == id {
				out = append(out, i)
			}
		}
		return InteractionsOutput{
			CustomerID:        id,
			Interactions:      out,
			TotalInteractions: len(out),
			RetrievalTime:     time.Now().UnixMilli(),
		}, nil
	}), "Retrieves customer interaction history")

	a.tools.RegisterTool("crm_analytics", mcp.HandlerFunc(func(ctx context.Context, p mcp.Params) (interface{}, error) {
		stats := Analytics{
			TotalCustomers:    len(a.customers),
			TotalInteractions: len(a.interactions),
			LastUpdated:       time.Now().UnixMilli(),
		}
		for _, c := range a.customers {
			switch c.Status {
			case "active":
				stats.ActiveCustomers++
			case "prospective":
				stats.ProspectiveCustomers++
			case "inactive":
				stats.InactiveCustomers++
			}
		}
		return stats, nil
	}), "Provides CRM analytics and metrics")

	a.tools.RegisterResource("customer_database", mcp.HandlerFunc(func(ctx context.Context, p mcp.Params) (interface{}, error) {
		limit := p.Int("limit", 10)
		offset := p.Int("offset", 0)
		if offset < 0 {
			offset = 0
		}
		if offset > len(a.customers) {
			offset = len(a.customers)
		}
		end := offset + limit
		if end > len(a.customers) || limit < 0 {
			end = len(a.customers)
		}
		return map[string]interface{}{
			"customers": a.customers[offset:end],
			"total":     len(a.customers),
			"offset":    offset,
			"limit":     limit,
		}, nil
	}), "Access to customer database")
}

// Process routes the task by the first requested type the agent handles.
func (a *CRMResearchAgent) Process(ctx context.Context, message string, taskTypes []models.TaskType) (interface{}, error) {
	switch firstHandled(taskTypes, models.TaskTypeCRMResearch, models.TaskTypeCustomerSearch, models.TaskTypeContactLookup) {
	case models.TaskTypeCRMResearch, models.TaskTypeCustomerSearch:
		out, err := a.tools.InvokeTool(ctx, "customer_lookup", mcp.Params{"query": message})
		if err != nil {
			return nil, err
		}
		lookup := out.(LookupOutput)
		return TaskOutput{
			Type:    "customer_search",
			Query:   message,
			Summary: fmt.Sprintf("Found %d customers matching %q", len(lookup.Customers), message),
			Data:    lookup,
		}, nil

	case models.TaskTypeContactLookup:
		return a.contactLookup(ctx, message)

	default:
		out, err := a.tools.InvokeTool(ctx, "crm_analytics", nil)
		if err != nil {
			return nil, err
		}
		return TaskOutput{
			Type:      "general",
			Message:   "CRMResearchAgent processed: " + message,
			Summary:   "Processed general CRM research request",
			Analytics: out,
		}, nil
	}
}

func (a *CRMResearchAgent) contactLookup(ctx context.Context, message string) (interface{}, error) {
	out, err := a.tools.InvokeTool(ctx, "customer_lookup", mcp.Params{"query": message})
	if err != nil {
		return nil, err
	}
	lookup := out.(LookupOutput)

	if len(lookup.Customers) == 0 {
		return TaskOutput{
			Type:    "contact_lookup",
			Query:   message,
			Summary: fmt.Sprintf("No contact found for %q", message),
			Data:    ContactOutput{Interactions: InteractionsOutput{Interactions: []Interaction{}}},
		}, nil
	}

	customer := lookup.Customers[0]
	out, err = a.tools.InvokeTool(ctx, "get_customer_interactions", mcp.Params{"customerId": customer.ID})
	if err != nil {
		return nil, err
	}
	interactions := out.(InteractionsOutput)

	return TaskOutput{
		Type:    "contact_lookup",
		Summary: fmt.Sprintf("Found contact details and %d interactions for %s", interactions.TotalInteractions, customer.Name),
		Data:    ContactOutput{Customer: &customer, Interactions: interactions},
	}, nil
}
