/*
Package ports defines the driven ports (interfaces) of the dynamic routes module.

These interfaces decouple the routing core from the host editor and from the
persistence layer, so the same passes run against the in-memory graph, a
decoded workflow document or an editor binding.

# Key Interfaces

  - GraphAccessor: node/link registries and the port and link mutation primitives.
  - ConnectionNotifier: lets the core install a per-node connectivity-change handler.
  - Palette: read-only type tag to display color lookup.
  - RandomSource: uniform integer source used by the shuffler.
  - WorkflowStore: persists workflow documents.
  - DistributedLocker: serializes access to a workflow across replicas.
*/
package ports
