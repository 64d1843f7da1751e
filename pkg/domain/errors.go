package domain

import "errors"

// ErrNodeNotFound is returned when a node id is absent from the graph registry.
var ErrNodeNotFound = errors.New("node not found")

// ErrLinkNotFound is returned when a link id is absent from the graph registry.
var ErrLinkNotFound = errors.New("link not found")

// ErrSlotOutOfRange is returned when a port index does not exist on a node.
var ErrSlotOutOfRange = errors.New("slot out of range")

// ErrPaletteMiss is returned when a type tag has no display color.
var ErrPaletteMiss = errors.New("no palette entry for type")

// ErrWorkflowNotFound is returned when a workflow id cannot be found in the store.
var ErrWorkflowNotFound = errors.New("workflow not found")
