package ports

import (
	"context"
	"testing"
	"time"

	"github.com/aretw0/dynroutes/pkg/domain"
	"github.com/aretw0/dynroutes/pkg/workflow"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// RunWorkflowStoreContract runs a suite of tests to verify that a WorkflowStore
// implementation adheres to the defined interface contract.
func RunWorkflowStoreContract(t *testing.T, store WorkflowStore) {
	ctx := context.Background()
	id := "contract-test-workflow-" + time.Now().Format("20060102150405")

	t.Run("Save and Load", func(t *testing.T) {
		doc := contractDocument()

		err := store.Save(ctx, id, doc)
		require.NoError(t, err, "Save should not return error")

		loaded, err := store.Load(ctx, id)
		require.NoError(t, err, "Load should not return error")
		assert.Equal(t, doc.LastNodeID, loaded.LastNodeID)
		assert.Equal(t, doc.LastLinkID, loaded.LastLinkID)
		require.Len(t, loaded.Nodes, 2)
		require.Len(t, loaded.Links, 1)
		assert.Equal(t, doc.Links[0], loaded.Links[0])
		assert.Equal(t, domain.KindDynamicRoutes, loaded.Nodes[1].Type)
		require.NotNil(t, loaded.Nodes[1].Inputs[0].Link)
		assert.Equal(t, 1, *loaded.Nodes[1].Inputs[0].Link)
	})

	t.Run("Load Is Isolated From Caller", func(t *testing.T) {
		doc := contractDocument()
		require.NoError(t, store.Save(ctx, id, doc))

		doc.Nodes[0].Type = "Mutated"

		loaded, err := store.Load(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, "LoadImage", loaded.Nodes[0].Type)
	})

	t.Run("Load Non-Existent", func(t *testing.T) {
		_, err := store.Load(ctx, "non-existent-"+id)
		assert.ErrorIs(t, err, domain.ErrWorkflowNotFound)
	})

	t.Run("Delete", func(t *testing.T) {
		require.NoError(t, store.Save(ctx, id, contractDocument()))

		err := store.Delete(ctx, id)
		require.NoError(t, err, "Delete should not return error")

		_, err = store.Load(ctx, id)
		assert.ErrorIs(t, err, domain.ErrWorkflowNotFound, "Load after Delete should return ErrWorkflowNotFound")
	})

	t.Run("List", func(t *testing.T) {
		id1 := id + "-1"
		id2 := id + "-2"
		_ = store.Save(ctx, id1, contractDocument())
		_ = store.Save(ctx, id2, contractDocument())

		defer func() {
			_ = store.Delete(ctx, id1)
			_ = store.Delete(ctx, id2)
		}()

		ids, err := store.List(ctx)
		require.NoError(t, err)
		assert.Contains(t, ids, id1)
		assert.Contains(t, ids, id2)
	})
}

func contractDocument() *workflow.Document {
	link := 1
	return &workflow.Document{
		LastNodeID: 2,
		LastLinkID: 1,
		Nodes: []workflow.NodeDoc{
			{
				ID:      1,
				Type:    "LoadImage",
				Outputs: []workflow.OutputDoc{{Name: "IMAGE", Type: "IMAGE", Links: []int{1}}},
			},
			{
				ID:   2,
				Type: domain.KindDynamicRoutes,
				Inputs: []workflow.InputDoc{
					{Name: "input0", Type: "IMAGE", Link: &link, Label: domain.BlankLabel},
					{Name: "", Type: "IMAGE"},
				},
			},
		},
		Links:   []workflow.LinkDoc{{ID: 1, OriginID: 1, OriginSlot: 0, TargetID: 2, TargetSlot: 0, Type: "IMAGE"}},
		Version: 0.4,
	}
}
