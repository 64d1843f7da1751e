package workflow

import (
	"fmt"

	"github.com/aretw0/dynroutes/pkg/domain"
	"github.com/aretw0/dynroutes/pkg/graph"
)

// ToGraph builds an in-memory graph from the document.
// Port link references are copied verbatim so dangling ids stay visible to the caller.
func ToGraph(doc *Document) (*graph.Graph, error) {
	g := graph.New()

	for i := range doc.Nodes {
		nd := &doc.Nodes[i]
		n := &domain.Node{
			ID:   domain.NodeID(nd.ID),
			Kind: nd.Type,
		}
		for _, in := range nd.Inputs {
			port := domain.InputPort{
				Name:  in.Name,
				Label: in.Label,
				Type:  domain.TypeTag(in.Type),
			}
			if in.Link != nil {
				lid := domain.LinkID(*in.Link)
				port.Link = &lid
			}
			n.Inputs = append(n.Inputs, port)
		}
		for _, out := range nd.Outputs {
			port := domain.OutputPort{
				Name:  out.Name,
				Label: out.Label,
				Type:  domain.TypeTag(out.Type),
			}
			for _, lid := range out.Links {
				port.Links = append(port.Links, domain.LinkID(lid))
			}
			n.Outputs = append(n.Outputs, port)
		}
		if err := g.InsertNode(n); err != nil {
			return nil, fmt.Errorf("node %d: %w", nd.ID, err)
		}
	}

	for _, ld := range doc.Links {
		l := &domain.Link{
			ID:     domain.LinkID(ld.ID),
			Origin: domain.Endpoint{Node: domain.NodeID(ld.OriginID), Slot: ld.OriginSlot},
			Target: domain.Endpoint{Node: domain.NodeID(ld.TargetID), Slot: ld.TargetSlot},
			Type:   domain.TypeTag(ld.Type).OrWildcard(),
		}
		if err := g.InsertLink(l); err != nil {
			return nil, fmt.Errorf("link %d: %w", ld.ID, err)
		}
	}

	g.SetLastIDs(domain.NodeID(doc.LastNodeID), domain.LinkID(doc.LastLinkID))
	return g, nil
}

// Apply writes the graph's ports and links back into the document.
// Nodes missing from the graph are dropped; per-port fields the graph does not
// model (shape, widget) are kept by slot index.
func Apply(doc *Document, g *graph.Graph) {
	nodes := doc.Nodes[:0]
	for _, nd := range doc.Nodes {
		n, err := g.Node(domain.NodeID(nd.ID))
		if err != nil {
			continue
		}
		nd.Inputs = applyInputs(nd.Inputs, n.Inputs)
		nd.Outputs = applyOutputs(nd.Outputs, n.Outputs)
		nodes = append(nodes, nd)
	}
	doc.Nodes = nodes

	links := make([]LinkDoc, 0, len(doc.Links))
	for _, l := range g.Links() {
		if l == nil {
			continue
		}
		links = append(links, LinkDoc{
			ID:         int(l.ID),
			OriginID:   int(l.Origin.Node),
			OriginSlot: l.Origin.Slot,
			TargetID:   int(l.Target.Node),
			TargetSlot: l.Target.Slot,
			Type:       string(l.Type.OrWildcard()),
		})
	}
	doc.Links = links

	if last := int(g.LastNodeID()); last > doc.LastNodeID {
		doc.LastNodeID = last
	}
	if last := int(g.LastLinkID()); last > doc.LastLinkID {
		doc.LastLinkID = last
	}
}

func applyInputs(prev []InputDoc, ports []domain.InputPort) []InputDoc {
	if len(ports) == 0 {
		return nil
	}
	out := make([]InputDoc, len(ports))
	for i, p := range ports {
		if i < len(prev) {
			out[i].Shape = prev[i].Shape
			out[i].Widget = prev[i].Widget
		}
		out[i].Name = p.Name
		out[i].Label = p.Label
		out[i].Type = string(p.Type)
		if p.Link != nil {
			lid := int(*p.Link)
			out[i].Link = &lid
		}
	}
	return out
}

func applyOutputs(prev []OutputDoc, ports []domain.OutputPort) []OutputDoc {
	if len(ports) == 0 {
		return nil
	}
	out := make([]OutputDoc, len(ports))
	for i, p := range ports {
		if i < len(prev) {
			out[i].Shape = prev[i].Shape
		}
		slot := i
		out[i].Name = p.Name
		out[i].Label = p.Label
		out[i].Type = string(p.Type)
		out[i].SlotIndex = &slot
		for _, lid := range p.Links {
			out[i].Links = append(out[i].Links, int(lid))
		}
	}
	return out
}
