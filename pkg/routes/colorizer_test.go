package routes_test

import (
	"context"
	"testing"

	"github.com/aretw0/dynroutes/pkg/domain"
	"github.com/aretw0/dynroutes/pkg/palette"
	"github.com/aretw0/dynroutes/pkg/routes"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetColors_AppliesPaletteColor(t *testing.T) {
	f := newFixture(t)
	f.connectNext(t, f.a)
	f.connectNext(t, f.b)
	_, err := f.g.Connect(domain.Endpoint{Node: f.node}, domain.Endpoint{Node: f.preview})
	require.NoError(t, err)

	touching := 0
	for _, l := range f.g.Links() {
		if !l.Touches(f.node) {
			continue
		}
		touching++
		assert.Equal(t, "#64B5F6", l.Color, "link %d", l.ID)
	}
	assert.Equal(t, 3, touching)
}

func TestSetColors_PaletteMissKeepsColors(t *testing.T) {
	var misses []domain.TypeTag
	hooks := domain.LifecycleHooks{
		OnPaletteMiss: func(_ context.Context, e *domain.PaletteMissEvent) {
			misses = append(misses, e.Type)
		},
	}

	f := newFixture(t)
	f.connectNext(t, f.a)

	for _, l := range f.g.Links() {
		if l.Touches(f.node) {
			l.Color = "#123456"
		}
	}

	c := routes.NewColorizer(f.g, routes.WithPalette(palette.Map{"MASK": "#81C784"}), routes.WithLifecycleHooks(hooks))
	c.SetColors(f.junction(t))

	for _, l := range f.g.Links() {
		if l.Touches(f.node) {
			assert.Equal(t, "#123456", l.Color)
		}
	}
	assert.Equal(t, []domain.TypeTag{"IMAGE"}, misses)
}

func TestSetColors_OnlyTouchingLinks(t *testing.T) {
	f := newFixture(t)
	_, err := f.g.Connect(domain.Endpoint{Node: f.a}, domain.Endpoint{Node: f.preview})
	require.NoError(t, err)

	f.connectNext(t, f.b)

	for _, l := range f.g.Links() {
		if l.Target.Node == f.preview {
			assert.Empty(t, l.Color)
		}
	}
}
