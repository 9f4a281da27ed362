// Package mcp implements the tdpsearch Model Context Protocol server (C17):
// one tool, "search", thin over the search facade (C11).
package mcp

import (
	"context"
	"log/slog"
	"strings"
	"sync"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/emielsteerneman/tdpsearch/internal/filter"
	"github.com/emielsteerneman/tdpsearch/internal/search"
	"github.com/emielsteerneman/tdpsearch/internal/store"
)

const serverName = "tdpsearch"

// Server wraps an MCP server exposing C11's search facade as one tool.
type Server struct {
	mu       sync.RWMutex
	mcp      *sdkmcp.Server
	facade   *search.Facade
	activity store.ActivityStore // optional; nil disables logging
}

// NewServer creates a Server. facade must not be nil. activity may be
// nil, which disables activity logging entirely.
func NewServer(facade *search.Facade, version string, activity store.ActivityStore) (*Server, error) {
	s := &Server{facade: facade, activity: activity}
	s.mcp = sdkmcp.NewServer(&sdkmcp.Implementation{Name: serverName, Version: version}, nil)
	s.registerTools()
	return s, nil
}

// MCPServer returns the underlying SDK server, for transport wiring.
func (s *Server) MCPServer() *sdkmcp.Server {
	return s.mcp
}

func (s *Server) registerTools() {
	sdkmcp.AddTool(s.mcp, &sdkmcp.Tool{
		Name:        "search",
		Description: "Search the indexed corpus of Team Description Papers (TDPs) by meaning and keyword, optionally filtered by league, year, team or paper id.",
	}, s.handleSearch)
}

func (s *Server) handleSearch(ctx context.Context, _ *sdkmcp.CallToolRequest, input SearchInput) (
	*sdkmcp.CallToolResult,
	SearchOutput,
	error,
) {
	if strings.TrimSpace(input.Query) == "" {
		return nil, SearchOutput{}, NewInvalidParamsError("query is required")
	}

	f, err := filter.FromArgs(filter.Args{
		LeagueFilter: input.LeagueFilter,
		YearFilter:   input.YearFilter,
		TeamFilter:   input.TeamFilter,
		LYTIFilter:   input.LYTIFilter,
	})
	if err != nil {
		return nil, SearchOutput{}, NewInvalidParamsError(err.Error())
	}

	s.mu.RLock()
	facade := s.facade
	s.mu.RUnlock()

	result, err := facade.Search(ctx, search.Request{
		Query:  input.Query,
		Limit:  input.Limit,
		Mode:   search.Mode(input.Mode),
		Filter: f,
	})
	if err != nil {
		return nil, SearchOutput{}, MapError(err)
	}

	s.logActivity(ctx, input.Query)
	return nil, toSearchOutput(result), nil
}

// logActivity best-effort logs a search event, per spec.md §7's rule that
// activity-logging failures are always swallowed at the warn level.
func (s *Server) logActivity(ctx context.Context, query string) {
	if s.activity == nil {
		return
	}
	event := store.ActivityEvent{Source: "mcp", Action: "search", Detail: map[string]string{"query": query}}
	if err := s.activity.Log(ctx, event); err != nil {
		slog.Warn("mcp: activity log failed", "error", err)
	}
}
