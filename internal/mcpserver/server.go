// Package mcpserver provides an MCP (Model Context Protocol) server
// that exposes LinkMan tools for LLM integration via stdio transport.
package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/MASHINC1/LinkMan/internal/model"
	"github.com/MASHINC1/LinkMan/internal/search"
	"github.com/MASHINC1/LinkMan/internal/session"
)

const snapshotURI = "linkman://snapshot"

// Server wraps the MCP server with LinkMan tools.
type Server struct {
	mcp  *server.MCPServer
	sess *session.Session
}

// New creates a new MCP server with all LinkMan tools registered.
func New(sess *session.Session, version string) *Server {
	s := &Server{sess: sess}

	s.mcp = server.NewMCPServer(
		"LinkMan",
		version,
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
	)

	s.mcp.AddTool(mcp.NewTool("list_groups",
		mcp.WithDescription("List link groups in display order with their sections and link counts."),
	), s.listGroups)

	s.mcp.AddTool(mcp.NewTool("list_links",
		mcp.WithDescription("List saved links, optionally only those of one group."),
		mcp.WithString("group", mcp.Description("Group name (empty for all links)")),
	), s.listLinks)

	s.mcp.AddTool(mcp.NewTool("add_link",
		mcp.WithDescription("Save a new link. The URL is normalized (https:// is assumed when no scheme is given). "+
			"Category is \"Group\" or \"Group / Section\"."),
		mcp.WithString("url", mcp.Required(), mcp.Description("URL to save")),
		mcp.WithString("name", mcp.Description("Display name (derived from the host when empty)")),
		mcp.WithString("category", mcp.Description("Category, e.g. \"Work / Docs\"")),
	), s.addLink)

	s.mcp.AddTool(mcp.NewTool("move_link",
		mcp.WithDescription("Move a link into another group, keeping its section."),
		mcp.WithString("id", mcp.Required(), mcp.Description("Link id")),
		mcp.WithString("group", mcp.Required(), mcp.Description("Target group")),
		mcp.WithString("before_id", mcp.Description("Place before this link (default: end of group)")),
	), s.moveLink)

	s.mcp.AddTool(mcp.NewTool("search_links",
		mcp.WithDescription("Fuzzy search links by name and category."),
		mcp.WithString("query", mcp.Required(), mcp.Description("Search query string")),
	), s.searchLinks)

	s.mcp.AddResource(
		mcp.NewResource(snapshotURI, "Link Snapshot",
			mcp.WithResourceDescription("The full snapshot: categories, links and group order."),
			mcp.WithMIMEType("application/json"),
		),
		s.readSnapshotResource,
	)

	return s
}

// ServeStdio starts the MCP server on stdin/stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcp)
}

// MCPServer returns the underlying server for testing.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcp
}

func optionalString(req mcp.CallToolRequest, key string) string {
	v, err := req.RequireString(key)
	if err != nil {
		return ""
	}
	return v
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(string(out)), nil
}

type groupSummary struct {
	Name     string   `json:"name"`
	Sections []string `json:"sections"`
	Links    int      `json:"links"`
}

func (s *Server) listGroups(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	snap := s.sess.Snapshot()
	groups := make([]groupSummary, 0, len(snap.GroupOrder))
	for _, g := range snap.GroupOrder {
		groups = append(groups, groupSummary{
			Name:     g,
			Sections: snap.GetSections(g),
			Links:    len(snap.GetLinksInGroup(g)),
		})
	}
	return jsonResult(groups)
}

func (s *Server) listLinks(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	snap := s.sess.Snapshot()
	links := snap.Links
	if group := optionalString(req, "group"); group != "" {
		links = snap.GetLinksInGroup(group)
	}
	if links == nil {
		links = []model.Link{}
	}
	return jsonResult(links)
}

func (s *Server) addLink(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	url, err := req.RequireString("url")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	link, err := s.sess.AddLink(model.NewLinkParams{
		URL:      url,
		Name:     optionalString(req, "name"),
		Category: optionalString(req, "category"),
	})
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(link)
}

func (s *Server) moveLink(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := req.RequireString("id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	group, err := req.RequireString("group")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	group = strings.TrimSpace(group)
	if group == "" {
		return mcp.NewToolResultError("group must not be empty"), nil
	}

	moved, err := s.sess.MoveLink(id, group, optionalString(req, "before_id"))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if !moved {
		return mcp.NewToolResultError(fmt.Sprintf("link not moved: %s", id)), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("moved: %s -> %s", id, group)), nil
}

func (s *Server) searchLinks(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query, err := req.RequireString("query")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	results := search.FuzzySearchLinks(s.sess.Snapshot().Links, query)
	if len(results) > 20 {
		results = results[:20]
	}
	links := make([]model.Link, len(results))
	for i, r := range results {
		links[i] = r.Link
	}
	return jsonResult(links)
}

func (s *Server) readSnapshotResource(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	data, err := json.MarshalIndent(s.sess.Snapshot(), "", "  ")
	if err != nil {
		return nil, err
	}
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      snapshotURI,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}
