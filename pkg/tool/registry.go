package tool

import "sort"

// Registry maps capability names to tools. The mapping is fixed at
// construction; nothing registers or removes tools afterwards.
type Registry struct {
	tools map[string]Tool
}

func NewRegistry(tools ...Tool) *Registry {
	m := make(map[string]Tool, len(tools))
	for _, t := range tools {
		if t == nil {
			continue
		}
		m[t.Name()] = t
	}
	return &Registry{tools: m}
}

// Get looks a capability up by name. Lookup is total: unknown names report
// false, never a panic.
func (r *Registry) Get(name string) (Tool, bool) {
	t, ok := r.tools[name]
	return t, ok
}

// List returns the registered tools sorted by name.
func (r *Registry) List() []Tool {
	out := make([]Tool, 0, len(r.tools))
	for _, t := range r.tools {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name() < out[j].Name() })
	return out
}
