package routes

import (
	"github.com/aretw0/dynroutes/pkg/domain"
	"github.com/aretw0/dynroutes/pkg/ports"
)

// InferType returns the declared type of the output feeding the node's first
// resolvable connected input, or domain.Wildcard when there is none.
// Inputs whose link, origin node or origin slot cannot be resolved are skipped.
func InferType(g ports.GraphAccessor, n *domain.Node) domain.TypeTag {
	for i := range n.Inputs {
		if n.Inputs[i].Link == nil {
			continue
		}
		if t, ok := originType(g, *n.Inputs[i].Link); ok {
			return t
		}
	}
	return domain.Wildcard
}

func originType(g ports.GraphAccessor, id domain.LinkID) (domain.TypeTag, bool) {
	l, err := g.Link(id)
	if err != nil {
		return "", false
	}
	origin, err := g.Node(l.Origin.Node)
	if err != nil {
		return "", false
	}
	if l.Origin.Slot < 0 || l.Origin.Slot >= len(origin.Outputs) {
		return "", false
	}
	return origin.Outputs[l.Origin.Slot].Type.OrWildcard(), true
}

// Routes lists which upstream output feeds each connected input of the node, in port order.
func Routes(g ports.GraphAccessor, n *domain.Node) []domain.Route {
	var routes []domain.Route
	for slot := range n.Inputs {
		if n.Inputs[slot].Link == nil {
			continue
		}
		l, err := g.Link(*n.Inputs[slot].Link)
		if err != nil {
			continue
		}
		routes = append(routes, domain.Route{Origin: l.Origin, Slot: slot})
	}
	return routes
}
