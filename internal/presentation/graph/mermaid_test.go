package graph_test

import (
	"strings"
	"testing"

	"github.com/aretw0/dynroutes/internal/presentation/graph"
	"github.com/aretw0/dynroutes/pkg/domain"
	"github.com/aretw0/dynroutes/pkg/dsl"
	"github.com/aretw0/dynroutes/pkg/routes"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateMermaid(t *testing.T) {
	b := dsl.New()
	b.Add("loader").Kind("LoadImage").Out("IMAGE")
	b.Add("routes").Routes()
	b.Add("preview").Kind(`Preview "Image"`).In(1)
	b.Connect("loader", 0, "routes", 0)

	g, err := b.Build()
	require.NoError(t, err)

	tests := []struct {
		name     string
		prepare  func()
		overlay  *graph.GraphOverlay
		contains []string
		excludes []string
	}{
		{
			name: "Shapes And Labels",
			contains: []string{
				"graph LR",
				`n1["LoadImage #1"]`,
				`n2{{"DynamicRoutes #2"}}`,
				`n3["Preview 'Image' #3"]`,
				`n1 -- "IMAGE" --> n2`,
			},
			excludes: []string{"linkStyle", "classDef"},
		},
		{
			name: "Link Colors",
			prepare: func() {
				routes.NewSynchronizer(g).Reconcile(b.ID("routes"))
			},
			contains: []string{"linkStyle 0 stroke:#64B5F6"},
		},
		{
			name:    "Overlay",
			overlay: &graph.GraphOverlay{Shuffled: []domain.NodeID{2, 2}},
			contains: []string{
				"classDef shuffled",
				"class n2 shuffled;",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.prepare != nil {
				tt.prepare()
			}
			out := graph.GenerateMermaid(g, tt.overlay)
			for _, want := range tt.contains {
				assert.Contains(t, out, want)
			}
			for _, unwanted := range tt.excludes {
				assert.NotContains(t, out, unwanted)
			}
			if tt.overlay != nil {
				assert.Equal(t, 1, strings.Count(out, "class n2 shuffled;"))
			}
		})
	}
}
