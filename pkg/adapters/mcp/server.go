package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/aretw0/triplet"
	"github.com/aretw0/triplet/pkg/domain"
	"github.com/aretw0/triplet/pkg/ports"
	"github.com/aretw0/triplet/pkg/runner"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

const viewURI = "triplet://view"

// Result is the structured output of every desk tool.
type Result struct {
	Moved *bool         `json:"moved,omitempty"`
	View  *triplet.View `json:"view"`
}

type FocusArgs struct {
	Row  int `json:"row"`
	Slot int `json:"slot"`
}

type AssignArgs struct {
	Turn  int `json:"turn"`
	Token int `json:"token"`
}

type MoveArgs struct {
	Dir string `json:"dir"`
}

type RecordArgs struct {
	ID string `json:"id"`
}

type noArgs struct{}

// Server exposes a desk as MCP tools, so an agent can annotate.
type Server struct {
	desk      runner.Desk
	store     ports.AnnotationStore
	logger    *slog.Logger
	mcpServer *server.MCPServer
	tools     map[string]server.ServerTool
}

// NewServer creates a new MCP Server instance.
func NewServer(desk runner.Desk, store ports.AnnotationStore, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	s := &Server{
		desk:   desk,
		store:  store,
		logger: logger,
		tools:  make(map[string]server.ServerTool),
		mcpServer: server.NewMCPServer("triplet-mcp", strings.TrimSpace(triplet.Version),
			server.WithToolCapabilities(false),
			server.WithResourceCapabilities(false, false),
		),
	}
	s.registerTools()
	s.registerResources()
	return s
}

// MCPServer returns the underlying server.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcpServer
}

// ServeStdio starts the server on Stdin/Stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

// ServeSSE serves MCP over SSE on addr until ctx is cancelled.
func (s *Server) ServeSSE(ctx context.Context, addr string) error {
	baseURL := "http://localhost" + addr
	if !strings.HasPrefix(addr, ":") {
		baseURL = "http://" + addr
	}
	sseServer := server.NewSSEServer(s.mcpServer, server.WithBaseURL(baseURL))

	mux := http.NewServeMux()
	mux.Handle("/sse", sseServer.SSEHandler())
	mux.Handle("/message", sseServer.MessageHandler())

	httpServer := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErrors := make(chan error, 1)
	go func() {
		s.logger.Info("MCP Server listening (SSE)", "address", addr)
		serverErrors <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("could not stop server gracefully: %w", err)
		}
		return nil
	}
}

func (s *Server) registerTools() {
	s.addTool(mcp.NewTool("get_view",
		mcp.WithDescription("Show the current item: numbered tokens per turn and the triple grid."),
	), mcp.NewStructuredToolHandler(s.handleView))

	s.addTool(mcp.NewTool("focus_slot",
		mcp.WithDescription("Focus a slot of the grid and clear it. Slots per row: 0 subject, 1 predicate, 2 object, 3 polarity, 4 certainty."),
		mcp.WithNumber("row", mcp.Required(), mcp.Description("Triple row, from 0")),
		mcp.WithNumber("slot", mcp.Required(), mcp.Description("Slot index 0-4")),
	), mcp.NewStructuredToolHandler(s.handleFocus))

	s.addTool(mcp.NewTool("assign_token",
		mcp.WithDescription("Append a token to the focused slot."),
		mcp.WithNumber("turn", mcp.Required(), mcp.Description("Turn index, from 0")),
		mcp.WithNumber("token", mcp.Required(), mcp.Description("Token index inside the turn, from 0")),
	), mcp.NewStructuredToolHandler(s.handleAssign))

	s.addTool(mcp.NewTool("move_focus",
		mcp.WithDescription("Move focus one slot left or right, wrapping across rows. The target slot is cleared."),
		mcp.WithString("dir", mcp.Required(), mcp.Enum(string(domain.DirectionLeft), string(domain.DirectionRight))),
	), mcp.NewStructuredToolHandler(s.handleMove))

	for _, nav := range []struct {
		name, op, desc string
	}{
		{"next_item", runner.OpNext, "Store the grid for the current item and go to the next one."},
		{"skip_item", runner.OpSkip, "Store the current item as skipped and go to the next one."},
		{"back_item", runner.OpBack, "Go back one item without storing anything."},
	} {
		op := nav.op
		s.addTool(mcp.NewTool(nav.name,
			mcp.WithDescription(nav.desc),
		), mcp.NewStructuredToolHandler(func(ctx context.Context, _ mcp.CallToolRequest, _ noArgs) (Result, error) {
			return s.apply(ctx, runner.Command{Op: op})
		}))
	}

	s.addTool(mcp.NewTool("get_record",
		mcp.WithDescription("Return the stored annotation record of an item."),
		mcp.WithString("id", mcp.Required(), mcp.Description("Item id")),
	), s.handleRecord)
}

func (s *Server) addTool(tool mcp.Tool, handler server.ToolHandlerFunc) {
	s.tools[tool.Name] = server.ServerTool{Tool: tool, Handler: handler}
	s.mcpServer.AddTool(tool, handler)
}

// Tool returns a registered tool by name.
func (s *Server) Tool(name string) (server.ServerTool, bool) {
	t, ok := s.tools[name]
	return t, ok
}

func (s *Server) handleView(_ context.Context, _ mcp.CallToolRequest, _ noArgs) (Result, error) {
	v := s.desk.View()
	return Result{View: &v}, nil
}

func (s *Server) handleFocus(ctx context.Context, _ mcp.CallToolRequest, args FocusArgs) (Result, error) {
	return s.apply(ctx, runner.Command{Op: runner.OpFocus, Row: args.Row, Slot: args.Slot})
}

func (s *Server) handleAssign(ctx context.Context, _ mcp.CallToolRequest, args AssignArgs) (Result, error) {
	return s.apply(ctx, runner.Command{Op: runner.OpAssign, Turn: args.Turn, Token: args.Token})
}

func (s *Server) handleMove(ctx context.Context, _ mcp.CallToolRequest, args MoveArgs) (Result, error) {
	return s.apply(ctx, runner.Command{Op: runner.OpMove, Dir: domain.Direction(args.Dir)})
}

func (s *Server) apply(ctx context.Context, cmd runner.Command) (Result, error) {
	resp, err := runner.Apply(ctx, s.desk, cmd)
	if err != nil {
		s.logger.Debug("MCP Command Failed", "op", cmd.Op, "err", err)
		return Result{}, err
	}
	return Result{Moved: resp.Moved, View: resp.View}, nil
}

func (s *Server) handleRecord(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := request.RequireString("id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	rec, err := s.store.Load(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return mcp.NewToolResultError(fmt.Sprintf("no record for %s", id)), nil
		}
		return nil, err
	}
	data, err := json.Marshal(rec)
	if err != nil {
		return nil, err
	}
	return mcp.NewToolResultText(string(data)), nil
}

func (s *Server) registerResources() {
	s.mcpServer.AddResource(mcp.NewResource(viewURI, "Current Desk View",
		mcp.WithMIMEType("application/json"),
	), func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		data, err := json.Marshal(s.desk.View())
		if err != nil {
			return nil, err
		}
		return []mcp.ResourceContents{
			mcp.TextResourceContents{
				URI:      viewURI,
				MIMEType: "application/json",
				Text:     string(data),
			},
		}, nil
	})
}
