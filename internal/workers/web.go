package workers

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/tlycode/multi-agent-system/internal/a2a"
	"github.com/tlycode/multi-agent-system/internal/logging"
	"github.com/tlycode/multi-agent-system/internal/mcp"
	"github.com/tlycode/multi-agent-system/pkg/models"
)

// WebResearchAgentName is the card name of the web agent.
const WebResearchAgentName = "WebResearchAgent"

// SearchResult is one mock search hit.
type SearchResult struct {
	Title   string `json:"title"`
	URL     string `json:"url"`
	Snippet string `json:"snippet"`
}

// SearchOutput is the web_search tool result.
type SearchOutput struct {
	Query        string         `json:"query"`
	Results      []SearchResult `json:"results"`
	TotalResults int            `json:"totalResults"`
	SearchTime   int64          `json:"searchTime"`
}

// FetchOutput is the url_fetch tool result.
type FetchOutput struct {
	URL      string        `json:"url"`
	Content  string        `json:"content"`
	Title    string        `json:"title"`
	Metadata FetchMetadata `json:"metadata"`
}

// FetchMetadata describes a mock fetch.
type FetchMetadata struct {
	FetchTime   int64  `json:"fetchTime"`
	ContentType string `json:"contentType"`
	Status      int    `json:"status"`
}

// TaskOutput is what an agent returns from /process.
type TaskOutput struct {
	Type      string      `json:"type"`
	Query     string      `json:"query,omitempty"`
	URL       string      `json:"url,omitempty"`
	Message   string      `json:"message,omitempty"`
	Summary   string      `json:"summary"`
	Data      interface{} `json:"data,omitempty"`
	Analytics interface{} `json:"analytics,omitempty"`
}

// WebResearchAgent answers web research tasks with mock search results.
type WebResearchAgent struct {
	card   models.AgentCard
	tools  *mcp.Registry
	logger *logging.Logger
}

// NewWebResearchAgent creates the web agent advertising endpoint.
func NewWebResearchAgent(endpoint string, logger *logging.Logger) *WebResearchAgent {
	a := &WebResearchAgent{
		card: models.NewAgentCard(
			WebResearchAgentName,
			"Specialized agent for web-based research and information gathering",
			endpoint,
			[]string{"web_search", "url_analysis", "content_extraction"},
			[]string{"web_research", "search_query", "url_fetch"},
		),
		tools:  mcp.NewRegistry(),
		logger: logger.With(WebResearchAgentName),
	}
	a.registerTools()
	return a
}

// Card returns the agent card.
func (a *WebResearchAgent) Card() models.AgentCard { return a.card }

// Capabilities lists the agent's tools and resources.
func (a *WebResearchAgent) Capabilities() a2a.Capabilities { return a.tools.Capabilities() }

func (a *WebResearchAgent) registerTools() {
	a.tools.RegisterTool("web_search", mcp.HandlerFunc(func(ctx context.Context, p mcp.Params) (interface{}, error) {
		query := p.String("query", "")
		maxResults := p.Int("maxResults", 5)
		a.logger.Debugf("searching for: %s (max results: %d)", query, maxResults)

		results := []SearchResult{
			{
				Title:   "Mock result 1 for: " + query,
				URL:     "https://example.com/result1?q=" + url.QueryEscape(query),
				Snippet: fmt.Sprintf("This is a mock search result for the query %q. In a real implementation, this would connect to a search API.", query),
			},
			{
				Title:   "Mock result 2 for: " + query,
				URL:     "https://example.com/result2?q=" + url.QueryEscape(query),
				Snippet: fmt.Sprintf("Another mock search result providing information about %q.", query),
			},
		}
		if maxResults < len(results) {
			results = results[:maxResults]
		}

		return SearchOutput{
			Query:        query,
			Results:      results,
			TotalResults: len(results),
			SearchTime:   time.Now().UnixMilli(),
		}, nil
	}), "Performs web search queries")

	a.tools.RegisterTool("url_fetch", mcp.HandlerFunc(func(ctx context.Context, p mcp.Params) (interface{}, error) {
		u := p.String("url", "")
		return FetchOutput{
			URL:     u,
			Content: fmt.Sprintf("Mock content from %s. In a real implementation, this would fetch and parse the actual webpage content.", u),
			Title:   "Mock Title - " + u,
			Metadata: FetchMetadata{
				FetchTime:   time.Now().UnixMilli(),
				ContentType: "text/html",
				Status:      200,
			},
		}, nil
	}), "Fetches content from URLs")

	a.tools.RegisterResource("search_history", mcp.HandlerFunc(func(ctx context.Context, p mcp.Params) (interface{}, error) {
		now := time.Now().UnixMilli()
		return map[string]interface{}{
			"queries": []map[string]interface{}{
				{"query": "sample query", "timestamp": now - 10000},
				{"query": "another query", "timestamp": now - 5000},
			},
		}, nil
	}), "Access to search history")
}

// Process routes the task by the first requested type the agent handles.
func (a *WebResearchAgent) Process(ctx context.Context, message string, taskTypes []models.TaskType) (interface{}, error) {
	switch firstHandled(taskTypes, models.TaskTypeWebResearch, models.TaskTypeSearchQuery, models.TaskTypeURLFetch) {
	case models.TaskTypeWebResearch, models.TaskTypeSearchQuery:
		out, err := a.tools.InvokeTool(ctx, "web_search", mcp.Params{"query": message, "maxResults": 3})
		if err != nil {
			return nil, err
		}
		search := out.(SearchOutput)
		return TaskOutput{
			Type:    "web_search",
			Query:   message,
			Summary: fmt.Sprintf("Found %d search results for %q", len(search.Results), message),
			Data:    search,
		}, nil

	case models.TaskTypeURLFetch:
		out, err := a.tools.InvokeTool(ctx, "url_fetch", mcp.Params{"url": message})
		if err != nil {
			return nil, err
		}
		return TaskOutput{
			Type:    "url_fetch",
			URL:     message,
			Summary: "Successfully fetched content from " + message,
			Data:    out,
		}, nil

	default:
		return TaskOutput{
			Type:    "general",
			Message: "WebResearchAgent processed: " + message,
			Summary: "Processed general web research request",
		}, nil
	}
}
