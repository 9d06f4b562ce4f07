package domain

// Kind discriminates the two entity namespaces. Project and task ids are
// allocated independently, so an id is only meaningful together with its Kind.
type Kind string

const (
	KindProject Kind = "project"
	KindTask    Kind = "task"
)

// Valid reports whether k is one of the known kinds.
func (k Kind) Valid() bool {
	return k == KindProject || k == KindTask
}

// ResizeEdge names the bar edge moved by a resize gesture.
type ResizeEdge string

const (
	EdgeLeft  ResizeEdge = "left"
	EdgeRight ResizeEdge = "right"
)

// Valid reports whether e is one of the known edges.
func (e ResizeEdge) Valid() bool {
	return e == EdgeLeft || e == EdgeRight
}
