package service

import (
	"context"
	"testing"

	"lens-agent/internal/domain/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeTool struct {
	name entity.ToolName
	desc string
}

func (f *fakeTool) Name() entity.ToolName { return f.name }
func (f *fakeTool) Description() string   { return f.desc }
func (f *fakeTool) Parameters() map[string]interface{} {
	return map[string]interface{}{"type": "object"}
}
func (f *fakeTool) Execute(ctx context.Context, args string) (string, error) {
	return "ok", nil
}

func TestToolRegistry_RegisterAndGet(t *testing.T) {
	r := NewToolRegistry()
	r.Register(&fakeTool{name: "b", desc: "second"})
	r.Register(&fakeTool{name: "a", desc: "first"})

	tool, ok := r.Get("a")
	require.True(t, ok)
	assert.Equal(t, "first", tool.Description())

	_, ok = r.Get("missing")
	assert.False(t, ok)
	assert.Equal(t, 2, r.Len())
}

func TestToolRegistry_ReplacesSameName(t *testing.T) {
	r := NewToolRegistry()
	r.Register(&fakeTool{name: "a", desc: "old"})
	r.Register(&fakeTool{name: "a", desc: "new"})

	tool, ok := r.Get("a")
	require.True(t, ok)
	assert.Equal(t, "new", tool.Description())
	assert.Equal(t, 1, r.Len())
}

func TestToolRegistry_DefinitionsAreSorted(t *testing.T) {
	r := NewToolRegistry()
	r.Register(&fakeTool{name: "zeta"})
	r.Register(&fakeTool{name: "alpha"})
	r.Register(&fakeTool{name: "mid"})

	defs := r.Definitions()
	require.Len(t, defs, 3)
	assert.Equal(t, entity.ToolName("alpha"), defs[0].Name)
	assert.Equal(t, entity.ToolName("mid"), defs[1].Name)
	assert.Equal(t, entity.ToolName("zeta"), defs[2].Name)
	assert.Equal(t, "object", defs[0].Parameters["type"])
}
