package mcp

import (
	"context"
	"testing"

	"github.com/aretw0/triplet"
	"github.com/aretw0/triplet/pkg/adapters/memory"
	"github.com/aretw0/triplet/pkg/adapters/tokenizer"
	"github.com/aretw0/triplet/pkg/domain"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T) (*Server, *memory.Store) {
	t.Helper()
	store := memory.NewStore()
	items := []domain.Item{
		{ID: "m1", Text: "Dogs bark"},
		{ID: "m2", Text: "Cats purr"},
	}
	desk, err := triplet.New(context.Background(), items, store, tokenizer.New(), triplet.WithNumTriples(1))
	require.NoError(t, err)
	return NewServer(desk, store, nil), store
}

func call(t *testing.T, s *Server, name string, args map[string]any) *mcp.CallToolResult {
	t.Helper()
	tool, ok := s.Tool(name)
	require.True(t, ok, name)

	req := mcp.CallToolRequest{}
	req.Params.Name = name
	req.Params.Arguments = args
	res, err := tool.Handler(context.Background(), req)
	require.NoError(t, err)
	return res
}

func TestServer_ToolsAnnotate(t *testing.T) {
	ctx := context.Background()
	s, store := newTestServer(t)

	res := call(t, s, "assign_token", map[string]any{"turn": 0, "token": 0})
	assert.True(t, res.IsError, "no focus yet")

	res = call(t, s, "focus_slot", map[string]any{"row": 0, "slot": 0})
	require.False(t, res.IsError)

	res = call(t, s, "assign_token", map[string]any{"turn": 0.0, "token": 0.0})
	require.False(t, res.IsError)
	out, ok := res.StructuredContent.(Result)
	require.True(t, ok)
	assert.Equal(t, "dogs", out.View.Rows[0].Slots[0].Text)

	res = call(t, s, "move_focus", map[string]any{"dir": "left"})
	require.False(t, res.IsError)
	out = res.StructuredContent.(Result)
	require.NotNil(t, out.Moved)
	assert.False(t, *out.Moved)

	res = call(t, s, "next_item", nil)
	require.False(t, res.IsError)
	out = res.StructuredContent.(Result)
	assert.Equal(t, "m2", out.View.ItemID)

	rec, err := store.Load(ctx, "m1")
	require.NoError(t, err)
	assert.Equal(t, domain.Slot{{Turn: 0, Token: 0}}, rec.Triples[0][domain.SlotSubject])

	res = call(t, s, "get_record", map[string]any{"id": "m1"})
	require.False(t, res.IsError)
	require.Len(t, res.Content, 1)
	text, ok := res.Content[0].(mcp.TextContent)
	require.True(t, ok)
	assert.Contains(t, text.Text, `"annotations":[[[[0,0]],[],[],[],[]]]`)

	res = call(t, s, "get_record", map[string]any{"id": "m2"})
	assert.True(t, res.IsError)
}

func TestServer_RejectsBadDirection(t *testing.T) {
	s, _ := newTestServer(t)
	res := call(t, s, "move_focus", map[string]any{"dir": "up"})
	assert.True(t, res.IsError)
}

func TestServer_ViewResource(t *testing.T) {
	s, _ := newTestServer(t)
	res := call(t, s, "get_view", nil)
	require.False(t, res.IsError)
	assert.Equal(t, "Annotating m1 (1/2)", res.StructuredContent.(Result).View.Summary)
}
