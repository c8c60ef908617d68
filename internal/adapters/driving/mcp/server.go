package mcp

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/enginedesk/internal/logger"
)

// Version is the MCP server version.
const Version = "0.1.0"

// instructions is sent to clients during initialization.
const instructions = `enginedesk keeps the registry of installed analysis engines and the
application settings of this machine.

Call list_engines to see which engines are installed, or engine_path to
resolve one engine id to the binary that should be launched. Engine ids
are registered once; the first registration of an id is the one in use.
Call get_setting for a single setting. The same data is available as the
resources enginedesk://engines, enginedesk://engines/{engineId} and
enginedesk://settings. The server is read-only.`

// Server exposes the engine registry and settings to MCP clients.
// It reads through the same services as the CLI, so it can run next to
// foreground commands on the same database.
type Server struct {
	ports  *Ports
	server *mcp.Server
}

// NewServer creates a new MCP server with the given ports.
func NewServer(ports *Ports) (*Server, error) {
	if err := ports.Validate(); err != nil {
		return nil, fmt.Errorf("validating ports: %w", err)
	}

	s := &Server{ports: ports}
	s.server = mcp.NewServer(&mcp.Implementation{
		Name:    "enginedesk",
		Version: Version,
	}, &mcp.ServerOptions{
		Instructions: instructions,
	})

	s.registerTools()
	s.registerResources()

	return s, nil
}

// Run serves a single client over stdio until it disconnects or ctx is done.
func (s *Server) Run(ctx context.Context) error {
	logger.Debug("mcp: serving on stdio")
	return s.server.Run(ctx, &mcp.StdioTransport{})
}

// Listen binds addr for RunHTTP. Port 0 picks a free port.
func Listen(addr string) (net.Listener, error) {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("listening on %s: %w", addr, err)
	}
	return ln, nil
}

// RunHTTP serves streamable HTTP sessions on ln until ctx is done.
// Every session shares the one server and therefore the one store handle.
func (s *Server) RunHTTP(ctx context.Context, ln net.Listener) error {
	handler := mcp.NewStreamableHTTPHandler(func(r *http.Request) *mcp.Server {
		logger.Debug("mcp: session request from %s", r.RemoteAddr)
		return s.server
	}, nil)

	httpServer := &http.Server{
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Warn("mcp: shutting down http server: %v", err)
		}
	}()

	logger.Debug("mcp: serving http on %s", ln.Addr())
	err := httpServer.Serve(ln)
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}
