package tracing

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistry_NewSpanLookupClose(t *testing.T) {
	reg := NewRegistry()
	cs := NewCallsite(CallsiteConfig{Name: "outer", Kind: KindSpan, Fields: []string{"id"}})
	vs := cs.Values(7)

	id := reg.NewSpan(context.Background(), cs.Metadata(), &vs, ContextualParent())
	span, ok := reg.Lookup(id)
	require.True(t, ok)
	assert.Equal(t, "outer", span.Name())
	assert.Equal(t, uuid.Nil, span.ParentID)
	require.Len(t, span.Fields, 1)
	assert.Equal(t, 7, span.Fields[0].Value)
	assert.Equal(t, 1, reg.Len())

	reg.Close(id)
	_, ok = reg.Lookup(id)
	assert.False(t, ok)
	reg.Close(id)
}

func TestRegistry_ParentResolution(t *testing.T) {
	reg := NewRegistry()
	cs := NewCallsite(CallsiteConfig{Name: "span", Kind: KindSpan})

	outer := reg.NewSpan(context.Background(), cs.Metadata(), nil, RootParent())
	ctx := ContextWithSpan(context.Background(), outer)

	contextual := reg.NewSpan(ctx, cs.Metadata(), nil, ContextualParent())
	root := reg.NewSpan(ctx, cs.Metadata(), nil, RootParent())
	explicit := reg.NewSpan(context.Background(), cs.Metadata(), nil, ChildOf(contextual))

	get := func(id SpanID) *SpanData {
		s, ok := reg.Lookup(id)
		require.True(t, ok)
		return s
	}
	assert.Equal(t, outer, get(contextual).ParentID)
	assert.Equal(t, uuid.Nil, get(root).ParentID)
	assert.Equal(t, contextual, get(explicit).ParentID)
}

func TestSpanFromContext(t *testing.T) {
	_, ok := SpanFromContext(context.Background())
	assert.False(t, ok)

	id := uuid.New()
	got, ok := SpanFromContext(ContextWithSpan(context.Background(), id))
	require.True(t, ok)
	assert.Equal(t, id, got)

	_, ok = SpanFromContext(ContextWithSpan(context.Background(), uuid.Nil))
	assert.False(t, ok)
}

func TestFmtContext_ParentAndScope(t *testing.T) {
	reg := NewRegistry()
	outerSite := NewCallsite(CallsiteConfig{Name: "outer", Kind: KindSpan})
	innerSite := NewCallsite(CallsiteConfig{Name: "inner", Kind: KindSpan})
	eventSite := newTestCallsite("message")

	outer := reg.NewSpan(context.Background(), outerSite.Metadata(), nil, RootParent())
	inner := reg.NewSpan(context.Background(), innerSite.Metadata(), nil, ChildOf(outer))

	vs := eventSite.Values("hi")

	t.Run("explicit", func(t *testing.T) {
		ev := NewChildOf(inner, eventSite.Metadata(), &vs)
		fctx := NewFmtContext(context.Background(), reg)

		parent, ok := fctx.Parent(&ev)
		require.True(t, ok)
		assert.Equal(t, inner, parent.ID)

		scope := fctx.Scope(&ev)
		require.Len(t, scope, 2)
		assert.Equal(t, "outer", scope[0].Name())
		assert.Equal(t, "inner", scope[1].Name())
	})

	t.Run("contextual", func(t *testing.T) {
		ev := NewEvent(eventSite.Metadata(), &vs)
		fctx := NewFmtContext(ContextWithSpan(context.Background(), outer), reg)

		parent, ok := fctx.Parent(&ev)
		require.True(t, ok)
		assert.Equal(t, outer, parent.ID)
	})

	t.Run("root", func(t *testing.T) {
		ev := NewRootEvent(eventSite.Metadata(), &vs)
		fctx := NewFmtContext(ContextWithSpan(context.Background(), outer), reg)

		_, ok := fctx.Parent(&ev)
		assert.False(t, ok)
		assert.Empty(t, fctx.Scope(&ev))
	})

	t.Run("no registry", func(t *testing.T) {
		ev := NewChildOf(inner, eventSite.Metadata(), &vs)
		fctx := NewFmtContext(nil, nil)

		_, ok := fctx.Parent(&ev)
		assert.False(t, ok)
		assert.Empty(t, fctx.Scope(&ev))
		assert.NotNil(t, fctx.Context())
	})
}
