package dynroutes_test

import (
	"fmt"
	"log"
	"os"

	"github.com/aretw0/dynroutes"
	"github.com/aretw0/dynroutes/pkg/domain"
	"github.com/aretw0/dynroutes/pkg/workflow"
)

// ExampleEngine_ReconcileDocument repairs a junction whose ports are out of date.
func ExampleEngine_ReconcileDocument() {
	link1, link2 := 1, 2
	doc := &workflow.Document{
		LastNodeID: 3,
		LastLinkID: 2,
		Nodes: []workflow.NodeDoc{
			{ID: 1, Type: "LoadImage", Outputs: []workflow.OutputDoc{{Name: "IMAGE", Type: "IMAGE", Links: []int{1}}}},
			{ID: 2, Type: "LoadImage", Outputs: []workflow.OutputDoc{{Name: "IMAGE", Type: "IMAGE", Links: []int{2}}}},
			{ID: 3, Type: domain.KindDynamicRoutes, Inputs: []workflow.InputDoc{
				{Name: "input0", Type: "*", Link: &link1},
				{Name: "input1", Type: "*", Link: &link2},
			}},
		},
		Links: []workflow.LinkDoc{
			{ID: 1, OriginID: 1, TargetID: 3, Type: "IMAGE"},
			{ID: 2, OriginID: 2, TargetID: 3, Type: "IMAGE"},
		},
	}

	eng := dynroutes.New()
	if err := eng.ReconcileDocument(doc); err != nil {
		log.Fatal(err)
	}

	junction := doc.Nodes[2]
	fmt.Printf("inputs=%d outputs=%d\n", len(junction.Inputs), len(junction.Outputs))
	fmt.Printf("type=%s label=%s\n", junction.Inputs[0].Type, junction.Outputs[0].Label)
	// Output:
	// inputs=3 outputs=1
	// type=IMAGE label=IMAGE
}

// firstSlot always draws 0, which makes the shuffle predictable.
type firstSlot struct{}

func (firstSlot) IntN(int) int { return 0 }

// ExampleEngine_QueueDocument shuffles the routes of a junction fed by three images.
func ExampleEngine_QueueDocument() {
	data, err := os.ReadFile("pkg/workflow/testdata/three_sources.json")
	if err != nil {
		log.Fatal(err)
	}
	doc, err := workflow.Decode(data)
	if err != nil {
		log.Fatal(err)
	}

	eng := dynroutes.New(dynroutes.WithRandomSource(firstSlot{}))
	res, err := eng.QueueDocument(doc)
	if err != nil {
		log.Fatal(err)
	}

	for _, d := range res.Diffs {
		for _, m := range d.Moved {
			fmt.Printf("node %d: input %d -> %d\n", m.Origin.Node, m.From, m.To)
		}
	}
	// Output:
	// node 2: input 1 -> 0
	// node 3: input 2 -> 1
	// node 1: input 0 -> 2
}
