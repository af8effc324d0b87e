package calendar_tools

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"

	"github.com/voicekit/calagent/internal/agent"
	"github.com/voicekit/calagent/internal/google"
	"github.com/voicekit/calagent/internal/server"
)

func newTestContext(t *testing.T) *server.ServerContext {
	t.Helper()

	store, err := google.NewTokenStore(filepath.Join(t.TempDir(), "google.token"))
	require.NoError(t, err)
	session := google.NewSession(&oauth2.Config{ClientID: "id"}, store)

	sc, err := server.NewServerContext(context.Background(), session, server.Config{})
	require.NoError(t, err)
	t.Cleanup(func() { _ = sc.Shutdown() })
	return sc
}

func TestRegisterCalendarTools(t *testing.T) {
	sc := newTestContext(t)
	s := mcpserver.NewMCPServer("test", "0.0.1")

	err := RegisterCalendarTools(s, sc)
	require.NoError(t, err)
}

func TestDispatchValidationFailure(t *testing.T) {
	sc := newTestContext(t)

	request := mcp.CallToolRequest{
		Params: mcp.CallToolParams{
			Name:      agent.ToolCreateEvent,
			Arguments: map[string]interface{}{"summary": "Standup"},
		},
	}

	result, err := dispatch(context.Background(), agent.ToolCreateEvent, request, sc)
	require.NoError(t, err, "validation failures surface as error results, not Go errors")
	require.NotNil(t, result)
	assert.True(t, result.IsError)
}

func TestDispatchManageEventBadAction(t *testing.T) {
	sc := newTestContext(t)

	request := mcp.CallToolRequest{
		Params: mcp.CallToolParams{
			Name: agent.ToolManageEvent,
			Arguments: map[string]interface{}{
				"event_id": "evt1",
				"action":   "archive",
			},
		},
	}

	result, err := dispatch(context.Background(), agent.ToolManageEvent, request, sc)
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.True(t, result.IsError)
}

func TestDispatchRecordsHistory(t *testing.T) {
	sc := newTestContext(t)

	request := mcp.CallToolRequest{
		Params: mcp.CallToolParams{
			Name:      agent.ToolManageEvent,
			Arguments: map[string]interface{}{},
		},
	}

	_, err := dispatch(context.Background(), agent.ToolManageEvent, request, sc)
	require.NoError(t, err)

	history := sc.Dispatcher().History()
	require.Len(t, history, 1)
	assert.False(t, history[0].Success)
}
