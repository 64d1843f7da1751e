package validator

import (
	"fmt"
	"slices"

	"github.com/aretw0/dynroutes/pkg/domain"
	"github.com/aretw0/dynroutes/pkg/ports"
	"github.com/aretw0/dynroutes/pkg/routes"
	"go.uber.org/multierr"
)

// Graph is the read side of a host graph that can enumerate its nodes.
type Graph interface {
	ports.GraphAccessor
	Nodes() []*domain.Node
}

// ValidateGraph checks link registry consistency and the port invariants of
// every node of the given kind. All violations are returned combined; use
// multierr.Errors to split them.
func ValidateGraph(g Graph, kind string) error {
	var err error
	err = multierr.Append(err, validateLinks(g))
	for _, n := range g.NodesOfKind(kind) {
		err = multierr.Append(err, ValidateNode(g, n))
	}
	return err
}

func validateLinks(g Graph) error {
	var err error

	for _, l := range g.Links() {
		if l == nil {
			continue
		}
		origin, oerr := g.Node(l.Origin.Node)
		switch {
		case oerr != nil:
			err = multierr.Append(err, fmt.Errorf("link %d: origin: %w", l.ID, oerr))
		case l.Origin.Slot < 0 || l.Origin.Slot >= len(origin.Outputs):
			err = multierr.Append(err, fmt.Errorf("link %d: output %d of node %d: %w", l.ID, l.Origin.Slot, origin.ID, domain.ErrSlotOutOfRange))
		case !containsLink(origin.Outputs[l.Origin.Slot].Links, l.ID):
			err = multierr.Append(err, fmt.Errorf("link %d: not listed on output %d of node %d", l.ID, l.Origin.Slot, origin.ID))
		}

		target, terr := g.Node(l.Target.Node)
		switch {
		case terr != nil:
			err = multierr.Append(err, fmt.Errorf("link %d: target: %w", l.ID, terr))
		case l.Target.Slot < 0 || l.Target.Slot >= len(target.Inputs):
			err = multierr.Append(err, fmt.Errorf("link %d: input %d of node %d: %w", l.ID, l.Target.Slot, target.ID, domain.ErrSlotOutOfRange))
		case target.Inputs[l.Target.Slot].Link == nil || *target.Inputs[l.Target.Slot].Link != l.ID:
			err = multierr.Append(err, fmt.Errorf("link %d: input %d of node %d does not reference it", l.ID, l.Target.Slot, target.ID))
		}
	}

	for _, n := range g.Nodes() {
		for slot, in := range n.Inputs {
			if in.Link == nil {
				continue
			}
			if _, lerr := g.Link(*in.Link); lerr != nil {
				err = multierr.Append(err, fmt.Errorf("node %d input %d: %w", n.ID, slot, lerr))
			}
		}
	}
	return err
}

// ValidateNode checks the port invariants of one routing node.
func ValidateNode(g ports.GraphAccessor, n *domain.Node) error {
	var err error

	connected := len(routes.Routes(g, n))

	if len(n.Inputs) != connected+1 {
		err = multierr.Append(err, fmt.Errorf("node %d: %d inputs for %d connections, want %d", n.ID, len(n.Inputs), connected, connected+1))
	} else if n.Inputs[connected].Link != nil {
		err = multierr.Append(err, fmt.Errorf("node %d: trailing input is connected", n.ID))
	}

	if want := max(connected-1, 0); len(n.Outputs) != want {
		err = multierr.Append(err, fmt.Errorf("node %d: %d outputs for %d connections, want %d", n.ID, len(n.Outputs), connected, want))
	}

	typ := routes.InferType(g, n)
	for i, in := range n.Inputs {
		if in.Type.OrWildcard() != typ {
			err = multierr.Append(err, fmt.Errorf("node %d input %d: type %s, want %s", n.ID, i, in.Type.OrWildcard(), typ))
		}
	}
	for i, out := range n.Outputs {
		if out.Type.OrWildcard() != typ {
			err = multierr.Append(err, fmt.Errorf("node %d output %d: type %s, want %s", n.ID, i, out.Type.OrWildcard(), typ))
		}
	}
	return err
}

func containsLink(ids []domain.LinkID, id domain.LinkID) bool {
	return slices.Contains(ids, id)
}
