package mcp

import (
	"context"
	"errors"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/enginedesk/internal/core/domain"
)

// ListEnginesInput is the input schema for the list_engines tool.
type ListEnginesInput struct{}

// ListEnginesOutput is the output schema for the list_engines tool.
type ListEnginesOutput struct {
	Engines []EngineOutput `json:"engines"`
	Count   int            `json:"count"`
}

// EngineOutput is one registered engine.
type EngineOutput struct {
	ID   string `json:"id"`
	Path string `json:"path"`
}

// EnginePathInput is the input schema for the engine_path tool.
type EnginePathInput struct {
	ID string `json:"id" jsonschema:"the engine id, e.g. sf16"`
}

// EnginePathOutput is the output schema for the engine_path tool.
type EnginePathOutput struct {
	ID         string `json:"id"`
	Path       string `json:"path,omitempty"`
	Registered bool   `json:"registered"`
}

// GetSettingInput is the input schema for the get_setting tool.
type GetSettingInput struct {
	Key string `json:"key" jsonschema:"the setting key"`
}

// GetSettingOutput is the output schema for the get_setting tool.
type GetSettingOutput struct {
	Key   string `json:"key"`
	Value string `json:"value,omitempty"`
	Found bool   `json:"found"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "list_engines",
		Description: "List the registered analysis engines and their binary paths",
	}, s.handleListEngines)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "engine_path",
		Description: "Look up the binary path of one registered engine",
	}, s.handleEnginePath)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "get_setting",
		Description: "Read one application setting",
	}, s.handleGetSetting)
}

func (s *Server) handleListEngines(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	_ ListEnginesInput,
) (*mcp.CallToolResult, ListEnginesOutput, error) {
	engines, err := s.ports.Engines.List(ctx)
	if err != nil {
		return nil, ListEnginesOutput{}, err
	}

	output := ListEnginesOutput{
		Engines: make([]EngineOutput, len(engines)),
		Count:   len(engines),
	}
	for i, e := range engines {
		output.Engines[i] = EngineOutput{ID: e.ID, Path: e.BinaryLocation}
	}
	return nil, output, nil
}

func (s *Server) handleEnginePath(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input EnginePathInput,
) (*mcp.CallToolResult, EnginePathOutput, error) {
	path, err := s.ports.Engines.Path(ctx, input.ID)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, EnginePathOutput{ID: input.ID}, nil
	}
	if err != nil {
		return nil, EnginePathOutput{}, err
	}
	return nil, EnginePathOutput{ID: input.ID, Path: path, Registered: true}, nil
}

func (s *Server) handleGetSetting(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input GetSettingInput,
) (*mcp.CallToolResult, GetSettingOutput, error) {
	value, err := s.ports.Settings.Get(ctx, input.Key)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, GetSettingOutput{Key: input.Key}, nil
	}
	if err != nil {
		return nil, GetSettingOutput{}, err
	}
	return nil, GetSettingOutput{Key: input.Key, Value: value, Found: true}, nil
}
