package domain

import "sort"

// Route records which upstream output feeds which input slot of a routing node.
type Route struct {
	Origin Endpoint `json:"origin"`
	Slot   int      `json:"slot"`
}

// RouteMove is one origin that landed on a different input slot.
type RouteMove struct {
	Origin Endpoint `json:"origin"`
	From   int      `json:"from"`
	To     int      `json:"to"`
}

// RouteDiff represents the changes between two route tables of the same node.
// It is designed to be serialized to JSON as the result of a queue request.
type RouteDiff struct {
	NodeID NodeID `json:"node_id"`

	// Moved lists origins whose input slot changed.
	Moved []RouteMove `json:"moved,omitempty"`

	// Added and Removed list origins present on only one side.
	// A shuffle never produces either; they indicate an external edit.
	Added   []Route `json:"added,omitempty"`
	Removed []Route `json:"removed,omitempty"`
}

// DiffRoutes calculates the difference between two route tables.
// It returns nil when both tables map every origin to the same slot.
func DiffRoutes(nodeID NodeID, before, after []Route) *RouteDiff {
	diff := &RouteDiff{NodeID: nodeID}

	old := make(map[Endpoint]int, len(before))
	for _, r := range before {
		old[r.Origin] = r.Slot
	}

	seen := make(map[Endpoint]bool, len(after))
	for _, r := range after {
		seen[r.Origin] = true
		prev, exists := old[r.Origin]
		if !exists {
			diff.Added = append(diff.Added, r)
			continue
		}
		if prev != r.Slot {
			diff.Moved = append(diff.Moved, RouteMove{Origin: r.Origin, From: prev, To: r.Slot})
		}
	}

	for _, r := range before {
		if !seen[r.Origin] {
			diff.Removed = append(diff.Removed, r)
		}
	}

	if diff.IsEmpty() {
		return nil
	}

	sort.Slice(diff.Moved, func(i, j int) bool { return diff.Moved[i].To < diff.Moved[j].To })
	return diff
}

// IsEmpty checks if the diff contains any actionable changes.
func (d *RouteDiff) IsEmpty() bool {
	return len(d.Moved) == 0 && len(d.Added) == 0 && len(d.Removed) == 0
}
