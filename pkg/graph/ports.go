package graph

import (
	"fmt"

	"github.com/aretw0/dynroutes/pkg/domain"
)

// AddInput appends an unconnected input port to the node.
func (g *Graph) AddInput(id domain.NodeID, port domain.InputPort) error {
	n, err := g.Node(id)
	if err != nil {
		return err
	}
	port.Link = nil
	n.Inputs = append(n.Inputs, port)
	return nil
}

// AddOutput appends an output port with no links to the node.
func (g *Graph) AddOutput(id domain.NodeID, port domain.OutputPort) error {
	n, err := g.Node(id)
	if err != nil {
		return err
	}
	port.Links = nil
	n.Outputs = append(n.Outputs, port)
	return nil
}

// RemoveInput disconnects and removes the input at slot.
// Links into later inputs are renumbered to keep pointing at the same port.
func (g *Graph) RemoveInput(id domain.NodeID, slot int) error {
	n, err := g.Node(id)
	if err != nil {
		return err
	}
	if slot < 0 || slot >= len(n.Inputs) {
		return fmt.Errorf("input %d of node %d: %w", slot, id, domain.ErrSlotOutOfRange)
	}

	if err := g.Disconnect(domain.Endpoint{Node: id, Slot: slot}); err != nil {
		return err
	}

	// The handler may have reshaped the node while we were disconnecting.
	if slot >= len(n.Inputs) {
		return nil
	}

	n.Inputs = append(n.Inputs[:slot], n.Inputs[slot+1:]...)
	for i := slot; i < len(n.Inputs); i++ {
		if n.Inputs[i].Link == nil {
			continue
		}
		if l, ok := g.links[*n.Inputs[i].Link]; ok && l != nil {
			l.Target.Slot = i
		}
	}
	return nil
}

// RemoveOutput disconnects every link of the output at slot and removes it.
// Links from later outputs are renumbered to keep pointing at the same port.
func (g *Graph) RemoveOutput(id domain.NodeID, slot int) error {
	n, err := g.Node(id)
	if err != nil {
		return err
	}
	if slot < 0 || slot >= len(n.Outputs) {
		return fmt.Errorf("output %d of node %d: %w", slot, id, domain.ErrSlotOutOfRange)
	}

	if err := g.disconnectOutput(n, slot); err != nil {
		return err
	}
	if slot >= len(n.Outputs) {
		return nil
	}

	n.Outputs = append(n.Outputs[:slot], n.Outputs[slot+1:]...)
	for i := slot; i < len(n.Outputs); i++ {
		for _, lid := range n.Outputs[i].Links {
			if l, ok := g.links[lid]; ok && l != nil {
				l.Origin.Slot = i
			}
		}
	}
	return nil
}

// Connect links an output slot to an input slot, replacing any link already on the input.
// The origin node is notified first, then the target, as LiteGraph does.
func (g *Graph) Connect(origin, target domain.Endpoint) (*domain.Link, error) {
	from, err := g.Node(origin.Node)
	if err != nil {
		return nil, err
	}
	to, err := g.Node(target.Node)
	if err != nil {
		return nil, err
	}
	if origin.Slot < 0 || origin.Slot >= len(from.Outputs) {
		return nil, fmt.Errorf("output %d of node %d: %w", origin.Slot, origin.Node, domain.ErrSlotOutOfRange)
	}
	if target.Slot < 0 || target.Slot >= len(to.Inputs) {
		return nil, fmt.Errorf("input %d of node %d: %w", target.Slot, target.Node, domain.ErrSlotOutOfRange)
	}

	if to.Inputs[target.Slot].Link != nil {
		if err := g.Disconnect(target); err != nil {
			return nil, err
		}
		// Handlers run during the disconnect and may have reshaped either node.
		if origin.Slot >= len(from.Outputs) || target.Slot >= len(to.Inputs) {
			return nil, fmt.Errorf("connect %v -> %v: %w", origin, target, domain.ErrSlotOutOfRange)
		}
	}

	g.lastLinkID++
	l := &domain.Link{
		ID:     g.lastLinkID,
		Origin: origin,
		Target: target,
		Type:   from.Outputs[origin.Slot].Type.OrWildcard(),
	}
	g.links[l.ID] = l

	from.Outputs[origin.Slot].Links = append(from.Outputs[origin.Slot].Links, l.ID)
	id := l.ID
	to.Inputs[target.Slot].Link = &id

	g.notify(origin.Node, domain.ChangeOutput, origin.Slot, true, l)
	g.notify(target.Node, domain.ChangeInput, target.Slot, true, l)
	return l, nil
}

// Disconnect removes the link attached to the target input, if any.
// A dangling link reference is cleared without error.
// The target node is notified first, then the origin.
func (g *Graph) Disconnect(target domain.Endpoint) error {
	to, err := g.Node(target.Node)
	if err != nil {
		return err
	}
	if target.Slot < 0 || target.Slot >= len(to.Inputs) {
		return fmt.Errorf("input %d of node %d: %w", target.Slot, target.Node, domain.ErrSlotOutOfRange)
	}

	input := &to.Inputs[target.Slot]
	if input.Link == nil {
		return nil
	}
	lid := *input.Link
	input.Link = nil

	l, ok := g.links[lid]
	delete(g.links, lid)
	if !ok || l == nil {
		g.notify(target.Node, domain.ChangeInput, target.Slot, false, nil)
		return nil
	}

	if from, ok := g.nodes[l.Origin.Node]; ok && l.Origin.Slot >= 0 && l.Origin.Slot < len(from.Outputs) {
		from.Outputs[l.Origin.Slot].Links = removeLinkID(from.Outputs[l.Origin.Slot].Links, lid)
	}

	g.notify(target.Node, domain.ChangeInput, target.Slot, false, l)
	g.notify(l.Origin.Node, domain.ChangeOutput, l.Origin.Slot, false, l)
	return nil
}

func (g *Graph) disconnectOutput(n *domain.Node, slot int) error {
	// Walk the live slice: a downstream handler may reconnect from this output while we disconnect.
	for slot < len(n.Outputs) && len(n.Outputs[slot].Links) > 0 {
		lid := n.Outputs[slot].Links[0]
		l, ok := g.links[lid]
		switch {
		case !ok || l == nil:
		case !g.inputHolds(l.Target, lid):
			// The target no longer points back at this link; drop the stray entry.
			delete(g.links, lid)
		default:
			if err := g.Disconnect(l.Target); err != nil {
				return err
			}
		}
		if slot < len(n.Outputs) {
			n.Outputs[slot].Links = removeLinkID(n.Outputs[slot].Links, lid)
		}
	}
	return nil
}

func (g *Graph) inputHolds(target domain.Endpoint, lid domain.LinkID) bool {
	n, ok := g.nodes[target.Node]
	if !ok || target.Slot < 0 || target.Slot >= len(n.Inputs) {
		return false
	}
	in := n.Inputs[target.Slot]
	return in.Link != nil && *in.Link == lid
}

func removeLinkID(ids []domain.LinkID, id domain.LinkID) []domain.LinkID {
	out := ids[:0]
	for _, v := range ids {
		if v != id {
			out = append(out, v)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
