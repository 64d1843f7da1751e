package workflow_test

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/aretw0/dynroutes/pkg/domain"
	"github.com/aretw0/dynroutes/pkg/workflow"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func loadFixture(t *testing.T, name string) *workflow.Document {
	t.Helper()
	data, err := os.ReadFile(filepath.Join("testdata", name))
	require.NoError(t, err)
	doc, err := workflow.Decode(data)
	require.NoError(t, err)
	return doc
}

func TestDecode_ComfyWorkflow(t *testing.T) {
	doc := loadFixture(t, "three_sources.json")

	assert.Equal(t, 5, doc.LastNodeID)
	assert.Equal(t, 4, doc.LastLinkID)
	require.Len(t, doc.Nodes, 5)
	require.Len(t, doc.Links, 4)
	assert.Equal(t, workflow.LinkDoc{ID: 2, OriginID: 2, OriginSlot: 0, TargetID: 4, TargetSlot: 1, Type: "IMAGE"}, doc.Links[1])

	routes := doc.Nodes[3]
	assert.Equal(t, domain.KindDynamicRoutes, routes.Type)
	require.Len(t, routes.Inputs, 4)
	assert.Nil(t, routes.Inputs[3].Link)
}

func TestLinkDoc_Forms(t *testing.T) {
	t.Run("Array", func(t *testing.T) {
		var l workflow.LinkDoc
		require.NoError(t, json.Unmarshal([]byte(`[7, 1, 2, 3, 4, "LATENT"]`), &l))
		assert.Equal(t, workflow.LinkDoc{ID: 7, OriginID: 1, OriginSlot: 2, TargetID: 3, TargetSlot: 4, Type: "LATENT"}, l)
	})

	t.Run("Array Without Type", func(t *testing.T) {
		var l workflow.LinkDoc
		require.NoError(t, json.Unmarshal([]byte(`[7, 1, 2, 3, 4]`), &l))
		assert.Equal(t, "*", l.Type)
	})

	t.Run("Array With Non-String Type", func(t *testing.T) {
		var l workflow.LinkDoc
		require.NoError(t, json.Unmarshal([]byte(`[7, 1, 2, 3, 4, 0]`), &l))
		assert.Equal(t, "*", l.Type)
	})

	t.Run("Object", func(t *testing.T) {
		var l workflow.LinkDoc
		require.NoError(t, json.Unmarshal([]byte(`{"id": 7, "origin_id": 1, "origin_slot": 2, "target_id": 3, "target_slot": 4, "type": "MASK"}`), &l))
		assert.Equal(t, workflow.LinkDoc{ID: 7, OriginID: 1, OriginSlot: 2, TargetID: 3, TargetSlot: 4, Type: "MASK"}, l)
	})

	t.Run("Short Array", func(t *testing.T) {
		var l workflow.LinkDoc
		assert.Error(t, json.Unmarshal([]byte(`[7, 1]`), &l))
	})

	t.Run("Marshal As Array", func(t *testing.T) {
		data, err := json.Marshal(workflow.LinkDoc{ID: 1, OriginID: 2, OriginSlot: 0, TargetID: 3, TargetSlot: 1, Type: "IMAGE"})
		require.NoError(t, err)
		assert.JSONEq(t, `[1, 2, 0, 3, 1, "IMAGE"]`, string(data))
	})
}

func TestToGraph(t *testing.T) {
	doc := loadFixture(t, "three_sources.json")

	g, err := workflow.ToGraph(doc)
	require.NoError(t, err)

	n, err := g.Node(4)
	require.NoError(t, err)
	assert.Equal(t, 3, n.ConnectedInputs())
	assert.Len(t, n.Outputs, 2)

	l, err := g.Link(3)
	require.NoError(t, err)
	assert.Equal(t, domain.Endpoint{Node: 3, Slot: 0}, l.Origin)
	assert.Equal(t, domain.Endpoint{Node: 4, Slot: 2}, l.Target)

	assert.Equal(t, domain.NodeID(5), g.LastNodeID())
	assert.Equal(t, domain.LinkID(4), g.LastLinkID())
}

func TestToGraph_DuplicateIDs(t *testing.T) {
	doc := &workflow.Document{Nodes: []workflow.NodeDoc{{ID: 1}, {ID: 1}}}
	_, err := workflow.ToGraph(doc)
	assert.Error(t, err)
}

func TestApply_RoundTripPreservesUnknownFields(t *testing.T) {
	doc := loadFixture(t, "three_sources.json")
	g, err := workflow.ToGraph(doc)
	require.NoError(t, err)

	// Move link 1 from input0 to the trailing input.
	_, err = g.Connect(domain.Endpoint{Node: 1, Slot: 0}, domain.Endpoint{Node: 4, Slot: 3})
	require.NoError(t, err)
	require.NoError(t, g.Disconnect(domain.Endpoint{Node: 4, Slot: 0}))

	workflow.Apply(doc, g)

	assert.Equal(t, 5, doc.LastLinkID)
	require.Len(t, doc.Links, 4)
	assert.Equal(t, workflow.LinkDoc{ID: 5, OriginID: 1, OriginSlot: 0, TargetID: 4, TargetSlot: 3, Type: "IMAGE"}, doc.Links[3])

	routes := doc.Nodes[3]
	assert.Nil(t, routes.Inputs[0].Link)
	require.NotNil(t, routes.Inputs[3].Link)
	assert.Equal(t, 5, *routes.Inputs[3].Link)

	loader := doc.Nodes[0]
	assert.Equal(t, []int{5}, loader.Outputs[0].Links)
	require.NotNil(t, loader.Outputs[0].Shape)
	assert.Equal(t, 3, *loader.Outputs[0].Shape)
	assert.JSONEq(t, `["a.png", "image"]`, string(loader.WidgetsValues))
	assert.JSONEq(t, `{"ds": {"scale": 1, "offset": [0, 0]}}`, string(doc.Extra))

	data, err := workflow.Encode(doc)
	require.NoError(t, err)
	again, err := workflow.Decode(data)
	require.NoError(t, err)
	assert.Equal(t, doc.Links, again.Links)
}

func TestDocument_Clone(t *testing.T) {
	doc := loadFixture(t, "three_sources.json")
	cp, err := doc.Clone()
	require.NoError(t, err)

	cp.Nodes[0].Type = "Changed"
	*cp.Nodes[3].Inputs[0].Link = 99

	assert.Equal(t, "LoadImage", doc.Nodes[0].Type)
	assert.Equal(t, 1, *doc.Nodes[3].Inputs[0].Link)
}
