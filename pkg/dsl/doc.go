/*
Package dsl provides a fluent builder for assembling workflow graphs in Go.

It is meant for tests, examples and programmatic generation of small graphs,
where writing workflow JSON by hand would be noisy. Nodes are referred to by
string handles and receive ids in the order they are added.

Example usage:

	b := dsl.New()

	b.Add("loader").Kind("LoadImage").Out("IMAGE")
	b.Add("routes").Routes()
	b.Add("preview").Kind("PreviewImage").In(1)

	b.Connect("loader", 0, "routes", 0)

	g, err := b.Build()
	if err != nil {
		// ...
	}
	id := b.ID("routes")
*/
package dsl
