package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/enginedesk/internal/core/domain"
)

// uriScheme is the custom URI scheme for enginedesk resources.
const uriScheme = "enginedesk://"

// registerResources registers all resource handlers with the MCP server.
func (s *Server) registerResources() {
	s.server.AddResource(&mcp.Resource{
		URI:         uriScheme + "engines",
		Name:        "engines",
		Description: "All registered analysis engines",
		MIMEType:    "application/json",
	}, s.handleEnginesResource)

	s.server.AddResource(&mcp.Resource{
		URI:         uriScheme + "settings",
		Name:        "settings",
		Description: "All application settings as a JSON object",
		MIMEType:    "application/json",
	}, s.handleSettingsResource)

	s.server.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: uriScheme + "engines/{engineId}",
		Name:        "engine-path",
		Description: "Binary path of a registered engine",
		MIMEType:    "text/plain",
	}, s.handleEngineResource)
}

func (s *Server) handleEnginesResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	engines, err := s.ports.Engines.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing engines: %w", err)
	}

	infos := make([]EngineOutput, len(engines))
	for i, e := range engines {
		infos[i] = EngineOutput{ID: e.ID, Path: e.BinaryLocation}
	}
	return jsonResource(req.Params.URI, infos)
}

func (s *Server) handleSettingsResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	all, err := s.ports.Settings.All(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing settings: %w", err)
	}
	return jsonResource(req.Params.URI, all)
}

func (s *Server) handleEngineResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	engineID := extractEngineID(req.Params.URI)
	if engineID == "" {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	path, err := s.ports.Engines.Path(ctx, engineID)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}
	if err != nil {
		return nil, fmt.Errorf("getting engine: %w", err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      req.Params.URI,
			MIMEType: "text/plain",
			Text:     path,
		}},
	}, nil
}

func jsonResource(uri string, v any) (*mcp.ReadResourceResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling %s: %w", uri, err)
	}
	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}

// extractEngineID extracts the engine ID from a URI like enginedesk://engines/{engineId}.
func extractEngineID(uri string) string {
	const prefix = uriScheme + "engines/"

	if !strings.HasPrefix(uri, prefix) {
		return ""
	}
	id := strings.TrimPrefix(uri, prefix)
	if strings.Contains(id, "/") {
		return ""
	}
	return id
}
