package element

// Module is the authoring unit owning entities and choice categories. Its path
// is opaque to the model: it is only compared and used for grouping.
type Module struct {
	path string
}

// NewModule creates a module for an opaque path such as "sales/invoicing"
func NewModule(path string) *Module {
	return &Module{path: path}
}

// Path returns the opaque module path
func (m *Module) Path() string {
	if m == nil {
		return ""
	}
	return m.path
}

// Same reports whether both modules carry the same path
func (m *Module) Same(other *Module) bool {
	return m.Path() == other.Path()
}
