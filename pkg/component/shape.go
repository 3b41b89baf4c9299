package component

// Shape is the member classification of a model, independent of the nodes
// backing it. Two models with equal shapes classify members identically.
type Shape struct {
	Name       string   `json:"name"                  yaml:"name"`
	Opaque     []string `json:"opaque,omitempty"      yaml:"opaque,omitempty"`
	Props      []string `json:"props,omitempty"       yaml:"props,omitempty"`
	Data       []string `json:"data,omitempty"        yaml:"data,omitempty"`
	Computed   []string `json:"computed,omitempty"    yaml:"computed,omitempty"`
	StoreBound []string `json:"store_bound,omitempty" yaml:"store_bound,omitempty"`
	Watch      []string `json:"watch,omitempty"       yaml:"watch,omitempty"`
	Methods    []string `json:"methods,omitempty"     yaml:"methods,omitempty"`
	Lifecycle  []string `json:"lifecycle,omitempty"   yaml:"lifecycle,omitempty"`
	Imports    []string `json:"imports,omitempty"     yaml:"imports,omitempty"`
}

// Shape summarizes the model.
func (m *Model) Shape() Shape {
	s := Shape{Name: m.name}

	for _, key := range OpaqueOptions {
		if m.Opaque(key) != nil {
			s.Opaque = append(s.Opaque, key)
		}
	}

	for _, p := range m.Props {
		s.Props = append(s.Props, p.Key)
	}

	for _, d := range m.Data {
		s.Data = append(s.Data, d.Key)
	}

	for _, c := range m.Computed {
		if c.StoreBound {
			s.StoreBound = append(s.StoreBound, c.StoreNamespace+":"+c.Key)
		} else {
			s.Computed = append(s.Computed, c.Key)
		}
	}

	for _, w := range m.Watch {
		s.Watch = append(s.Watch, w.Key)
	}

	for _, fn := range m.Methods {
		s.Methods = append(s.Methods, fn.Key)
	}

	for _, l := range m.Lifecycle {
		s.Lifecycle = append(s.Lifecycle, l.Key)
	}

	for _, im := range m.Imports {
		s.Imports = append(s.Imports, im.Source)
	}

	return s
}
