// The package used for reading and describing the metadata of a compiled library.
package metadata

// Reader lists the top-level types of a loaded library, in metadata order.
type Reader interface {
	Types() []*Type
}

// Library is an in-memory Reader over an already built type graph.
type Library struct {
	Name     string
	TopLevel []*Type
}

func (library *Library) Types() []*Type {
	return library.TopLevel
}
