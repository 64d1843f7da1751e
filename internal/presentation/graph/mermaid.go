package graph

import (
	"fmt"
	"strings"

	"github.com/aretw0/dynroutes/pkg/domain"
)

// Source is the read side of a workflow graph.
type Source interface {
	Nodes() []*domain.Node
	Links() []*domain.Link
}

// GraphOverlay contains dynamic state data to visualize on the graph.
type GraphOverlay struct {
	// Shuffled marks junctions whose routes changed in the last run.
	Shuffled []domain.NodeID
}

// GenerateMermaid produces a Mermaid flowchart of the workflow.
// Shapes:
// - Virtual junction: {{Hexagon}}
// - Default: [Rectangle]
// Links are labeled with their type and stroked with their color, when set.
func GenerateMermaid(g Source, overlay *GraphOverlay) string {
	var sb strings.Builder
	sb.WriteString("graph LR\n")

	for _, n := range g.Nodes() {
		opener, closer := "[", "]"
		if n.Virtual || n.Kind == domain.KindDynamicRoutes {
			opener, closer = "{{", "}}"
		}
		fmt.Fprintf(&sb, "    %s%s\"%s #%d\"%s\n", mermaidID(n.ID), opener, escape(n.Kind), n.ID, closer)
	}

	var styles []string
	index := 0
	for _, l := range g.Links() {
		if l == nil {
			continue
		}
		fmt.Fprintf(&sb, "    %s -- \"%s\" --> %s\n", mermaidID(l.Origin.Node), escape(l.Type.OrWildcard().String()), mermaidID(l.Target.Node))
		if l.Color != "" {
			styles = append(styles, fmt.Sprintf("    linkStyle %d stroke:%s,stroke-width:2px;\n", index, l.Color))
		}
		index++
	}
	for _, s := range styles {
		sb.WriteString(s)
	}

	if overlay != nil && len(overlay.Shuffled) > 0 {
		sb.WriteString("\n    %% Overlay Styles\n")
		sb.WriteString("    classDef shuffled fill:#ffeb3b,stroke:#fbc02d,stroke-width:4px,color:#000;\n")

		seen := make(map[domain.NodeID]bool)
		for _, id := range overlay.Shuffled {
			if seen[id] {
				continue
			}
			seen[id] = true
			fmt.Fprintf(&sb, "    class %s shuffled;\n", mermaidID(id))
		}
	}

	return sb.String()
}

func mermaidID(id domain.NodeID) string {
	return fmt.Sprintf("n%d", id)
}

func escape(s string) string {
	return strings.ReplaceAll(s, "\"", "'")
}
