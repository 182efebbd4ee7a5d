package mcp

//go:generate mockgen -source=$GOFILE -destination=server_mocks_test.go -package=mcp_test

import (
	"context"
	"net/http"

	"github.com/2beens/liftlog/internal/auth"
	"github.com/2beens/liftlog/internal/history"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

const serverName = "liftlog-history"

type historyService interface {
	ListSessions(ctx context.Context, userID string, page, size int) (*history.Page, error)
	ExerciseHistory(ctx context.Context, params history.SetParams) (*history.ExerciseHistory, error)
}

// NewServer builds an MCP server exposing the training history of the
// calling user. The user id is read from the context, see auth.WithUserID.
func NewServer(historySvc historyService, version string) *server.MCPServer {
	s := server.NewMCPServer(serverName, version,
		server.WithToolCapabilities(false),
		server.WithInstructions("liftlog training history. Query finished workouts and per-exercise daily stats of the authenticated user."),
	)

	h := &handlers{history: historySvc}
	s.AddTools(
		server.ServerTool{Tool: toolGetWorkoutHistory, Handler: h.getWorkoutHistory},
		server.ServerTool{Tool: toolGetExerciseStats, Handler: h.getExerciseStats},
	)
	return s
}

// NewHTTPHandler serves the MCP server over streamable HTTP. The request must
// have passed the auth middleware, which put the user id into its context.
func NewHTTPHandler(s *server.MCPServer) http.Handler {
	return server.NewStreamableHTTPServer(s,
		server.WithHTTPContextFunc(func(ctx context.Context, r *http.Request) context.Context {
			return auth.WithUserID(ctx, auth.UserIDFrom(r.Context()))
		}),
	)
}

// ServeStdio runs the server on stdin/stdout on behalf of a fixed user.
func ServeStdio(s *server.MCPServer, userID string) error {
	return server.ServeStdio(s,
		server.WithStdioContextFunc(func(ctx context.Context) context.Context {
			return auth.WithUserID(ctx, userID)
		}),
	)
}

type handlers struct {
	history historyService
}

func toolError(msg string) *mcp.CallToolResult {
	return mcp.NewToolResultError(msg)
}
