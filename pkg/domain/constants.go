package domain

// KindDynamicRoutes is the class name of the managed passthrough node.
const KindDynamicRoutes = "DynamicRoutes"

// Port naming used by reconciled nodes.
const (
	// InputNamePrefix names recreated inputs ("input0", "input1", ...).
	InputNamePrefix = "input"
	// OutputNamePrefix names fan-out outputs ("output0", "output1", ...).
	OutputNamePrefix = "output"
	// BlankLabel hides the generated name in the editor.
	BlankLabel = " "
)
