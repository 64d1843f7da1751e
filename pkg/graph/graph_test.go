package graph_test

import (
	"testing"

	"github.com/aretw0/dynroutes/pkg/domain"
	"github.com/aretw0/dynroutes/pkg/graph"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recorded struct {
	node      domain.NodeID
	kind      domain.ChangeKind
	slot      int
	connected bool
}

func record(g *graph.Graph, t *testing.T, log *[]recorded, ids ...domain.NodeID) {
	t.Helper()
	for _, id := range ids {
		err := g.SetConnectionHandler(id, func(c domain.ConnectionChange) {
			*log = append(*log, recorded{c.Node, c.Kind, c.Slot, c.Connected})
		})
		require.NoError(t, err)
	}
}

// source creates a node with one output of the given type.
func source(t *testing.T, g *graph.Graph, typ domain.TypeTag) *domain.Node {
	t.Helper()
	n := g.AddNode("Source")
	require.NoError(t, g.AddOutput(n.ID, domain.OutputPort{Name: string(typ), Type: typ}))
	return n
}

// sink creates a node with the given number of untyped inputs.
func sink(t *testing.T, g *graph.Graph, inputs int) *domain.Node {
	t.Helper()
	n := g.AddNode("Sink")
	for i := 0; i < inputs; i++ {
		require.NoError(t, g.AddInput(n.ID, domain.InputPort{Type: domain.Wildcard}))
	}
	return n
}

func TestGraph_ConnectNotifiesOriginThenTarget(t *testing.T) {
	g := graph.New()
	a := source(t, g, "IMAGE")
	b := sink(t, g, 1)

	var log []recorded
	record(g, t, &log, a.ID, b.ID)

	l, err := g.Connect(domain.Endpoint{Node: a.ID, Slot: 0}, domain.Endpoint{Node: b.ID, Slot: 0})
	require.NoError(t, err)

	assert.Equal(t, domain.TypeTag("IMAGE"), l.Type)
	assert.Equal(t, []domain.LinkID{l.ID}, a.Outputs[0].Links)
	require.NotNil(t, b.Inputs[0].Link)
	assert.Equal(t, l.ID, *b.Inputs[0].Link)

	assert.Equal(t, []recorded{
		{a.ID, domain.ChangeOutput, 0, true},
		{b.ID, domain.ChangeInput, 0, true},
	}, log)
}

func TestGraph_DisconnectNotifiesTargetThenOrigin(t *testing.T) {
	g := graph.New()
	a := source(t, g, "IMAGE")
	b := sink(t, g, 1)
	l, err := g.Connect(domain.Endpoint{Node: a.ID}, domain.Endpoint{Node: b.ID})
	require.NoError(t, err)

	var log []recorded
	record(g, t, &log, a.ID, b.ID)

	require.NoError(t, g.Disconnect(domain.Endpoint{Node: b.ID}))

	assert.Nil(t, b.Inputs[0].Link)
	assert.Empty(t, a.Outputs[0].Links)
	_, err = g.Link(l.ID)
	assert.ErrorIs(t, err, domain.ErrLinkNotFound)
	assert.Equal(t, []recorded{
		{b.ID, domain.ChangeInput, 0, false},
		{a.ID, domain.ChangeOutput, 0, false},
	}, log)

	// Disconnecting an empty input is a no-op.
	log = nil
	require.NoError(t, g.Disconnect(domain.Endpoint{Node: b.ID}))
	assert.Empty(t, log)
}

func TestGraph_ConnectReplacesExistingInputLink(t *testing.T) {
	g := graph.New()
	a := source(t, g, "IMAGE")
	c := source(t, g, "MASK")
	b := sink(t, g, 1)

	first, err := g.Connect(domain.Endpoint{Node: a.ID}, domain.Endpoint{Node: b.ID})
	require.NoError(t, err)
	second, err := g.Connect(domain.Endpoint{Node: c.ID}, domain.Endpoint{Node: b.ID})
	require.NoError(t, err)

	_, err = g.Link(first.ID)
	assert.ErrorIs(t, err, domain.ErrLinkNotFound)
	assert.Empty(t, a.Outputs[0].Links)
	assert.Equal(t, second.ID, *b.Inputs[0].Link)
	assert.Len(t, g.Links(), 1)
}

func TestGraph_RemoveInputRenumbersLaterLinks(t *testing.T) {
	g := graph.New()
	a := source(t, g, "IMAGE")
	c := source(t, g, "IMAGE")
	b := sink(t, g, 3)

	_, err := g.Connect(domain.Endpoint{Node: a.ID}, domain.Endpoint{Node: b.ID, Slot: 0})
	require.NoError(t, err)
	l2, err := g.Connect(domain.Endpoint{Node: c.ID}, domain.Endpoint{Node: b.ID, Slot: 2})
	require.NoError(t, err)

	require.NoError(t, g.RemoveInput(b.ID, 0))

	require.Len(t, b.Inputs, 2)
	assert.Empty(t, a.Outputs[0].Links)
	got, err := g.Link(l2.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, got.Target.Slot)
	assert.Equal(t, l2.ID, *b.Inputs[1].Link)

	assert.ErrorIs(t, g.RemoveInput(b.ID, 5), domain.ErrSlotOutOfRange)
}

func TestGraph_RemoveOutputDropsLinksAndRenumbers(t *testing.T) {
	g := graph.New()
	a := g.AddNode("Split")
	require.NoError(t, g.AddOutput(a.ID, domain.OutputPort{Type: "IMAGE"}))
	require.NoError(t, g.AddOutput(a.ID, domain.OutputPort{Type: "MASK"}))
	b := sink(t, g, 3)

	_, err := g.Connect(domain.Endpoint{Node: a.ID, Slot: 0}, domain.Endpoint{Node: b.ID, Slot: 0})
	require.NoError(t, err)
	_, err = g.Connect(domain.Endpoint{Node: a.ID, Slot: 0}, domain.Endpoint{Node: b.ID, Slot: 1})
	require.NoError(t, err)
	kept, err := g.Connect(domain.Endpoint{Node: a.ID, Slot: 1}, domain.Endpoint{Node: b.ID, Slot: 2})
	require.NoError(t, err)

	require.NoError(t, g.RemoveOutput(a.ID, 0))

	require.Len(t, a.Outputs, 1)
	assert.Nil(t, b.Inputs[0].Link)
	assert.Nil(t, b.Inputs[1].Link)
	got, err := g.Link(kept.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, got.Origin.Slot)
	assert.Len(t, g.Links(), 1)
}

func TestGraph_DanglingInputReferenceIsCleared(t *testing.T) {
	g := graph.New()
	ghost := domain.LinkID(42)
	n := &domain.Node{ID: 7, Kind: "Sink", Inputs: []domain.InputPort{{Link: &ghost}}}
	require.NoError(t, g.InsertNode(n))

	var log []recorded
	record(g, t, &log, n.ID)

	require.NoError(t, g.Disconnect(domain.Endpoint{Node: n.ID}))
	assert.Nil(t, n.Inputs[0].Link)
	assert.Equal(t, []recorded{{n.ID, domain.ChangeInput, 0, false}}, log)
}

func TestGraph_RemoveNode(t *testing.T) {
	g := graph.New()
	a := source(t, g, "IMAGE")
	b := sink(t, g, 1)
	_, err := g.Connect(domain.Endpoint{Node: a.ID}, domain.Endpoint{Node: b.ID})
	require.NoError(t, err)

	require.NoError(t, g.RemoveNode(b.ID))

	_, err = g.Node(b.ID)
	assert.ErrorIs(t, err, domain.ErrNodeNotFound)
	assert.Empty(t, g.Links())
	assert.Empty(t, a.Outputs[0].Links)
}

func TestGraph_RegistryOrdering(t *testing.T) {
	g := graph.New()
	for i := 0; i < 3; i++ {
		g.AddNode(domain.KindDynamicRoutes)
		g.AddNode("Other")
	}
	routes := g.NodesOfKind(domain.KindDynamicRoutes)
	require.Len(t, routes, 3)
	assert.Equal(t, []domain.NodeID{1, 3, 5}, []domain.NodeID{routes[0].ID, routes[1].ID, routes[2].ID})

	require.NoError(t, g.InsertNode(&domain.Node{ID: 40}))
	assert.Equal(t, domain.NodeID(41), g.AddNode("Next").ID)
	assert.Error(t, g.InsertNode(&domain.Node{ID: 40}))
}
