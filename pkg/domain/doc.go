/*
Package domain contains the core models of the dynamic routes module.

It describes the subset of a node-graph editor document (LiteGraph / ComfyUI
workflow model) that the routing junction needs to reason about: nodes with
ordered input and output ports, directed links between them, and the
per-node ephemeral NodeState. This package is kept pure and free of I/O.

# Key Entities

  - Node: a graph vertex with ordered Inputs and Outputs and a lazily created NodeState.
  - Link: a directed edge from an output port (Origin) to an input port (Target).
  - TypeTag: the data type carried by a port, with Wildcard ("*") as "not inferred yet".
  - ConnectionChange: the host notification raised whenever a link attaches or detaches.
  - LifecycleHooks: callbacks for observing reconcile and shuffle passes.
*/
package domain
