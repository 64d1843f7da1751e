/*
Package workflow reads and writes editor workflow documents.

The format is the LiteGraph serialization used by ComfyUI: a node list with
ordered input and output ports, and a link list where each link is the array
[id, origin_id, origin_slot, target_id, target_slot, type]. Fields the routing
module does not understand (positions, widgets, groups, extra) are carried
through untouched.

ToGraph builds an in-memory graph.Graph from a Document; Apply writes the
graph's ports and links back into it.
*/
package workflow
