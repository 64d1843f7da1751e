/*
Package dynroutes keeps "flexible passthrough" junction nodes of a node-graph
workflow (ComfyUI / LiteGraph) in shape, and shuffles their routes on every run.

A junction (node class "DynamicRoutes") is a variable-arity routing node:

  - it always has one input per connected upstream link plus one empty trailing input,
  - it has one output fewer than it has connections,
  - all of its ports carry the type of the first connected upstream output ("*" when there is none),
  - when a run is requested, the upstream links are randomly redistributed over the used inputs.

# Architecture

The routing core lives in pkg/routes and works against the ports.Host interface,
so it can be embedded in any editor that offers LiteGraph connection semantics.
pkg/graph is the in-memory host used by this module; pkg/workflow converts
ComfyUI workflow JSON to and from it. The Engine in this package ties those
together with a workflow store (memory, file or Redis), and cmd/dynroutes
exposes it as a CLI and an HTTP service.

# Usage

	package main

	import (
		"context"
		"log"

		"github.com/aretw0/dynroutes"
		"github.com/aretw0/dynroutes/pkg/adapters/file"
	)

	func main() {
		eng := dynroutes.New(dynroutes.WithStore(file.New("./workflows")))

		// Shuffle every junction of ./workflows/my-flow.json and save it.
		res, err := eng.Queue(context.Background(), "my-flow")
		if err != nil {
			log.Fatal(err)
		}
		log.Printf("prompt %s: %d junctions rewired", res.PromptID, len(res.Diffs))
	}
*/
package dynroutes
