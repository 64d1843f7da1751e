/*
Package routes implements the dynamic routes junction: a passthrough node whose
ports grow and shrink with its connections, share one inferred type, and get
randomly re-wired whenever a run is requested.

# Passes

  - Synchronizer.Reconcile rebuilds the node's ports after any connectivity change.
  - Shuffler.Shuffle permutes which upstream link lands on which used input.
  - Colorizer.SetColors paints every link touching the node with the palette color of its type.

Both mutating passes hold the node's busy token (domain.NodeState) for their
whole duration. The graph raises notifications synchronously from inside the
pass, so a nested call on the same node returns immediately instead of recursing.

# Lifecycle

Extension wires the passes to the host. A node reported through NodeCreated
stays in PhaseConstructed until the host calls Ready (document fully loaded);
from then on it is in PhaseAttached, its connectivity changes trigger
Reconcile, and RunRequested shuffles every node of the managed kind.
*/
package routes
