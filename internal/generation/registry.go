package generation

import "sort"

// Registry manages the configured generation providers by name.
type Registry struct {
	clients map[string]Client
}

// NewRegistry creates an empty provider registry.
func NewRegistry() *Registry {
	return &Registry{clients: make(map[string]Client)}
}

// Register adds a provider, replacing any previous one with the same name.
func (r *Registry) Register(name string, c Client) {
	r.clients[name] = c
}

// Get retrieves a provider by name.
func (r *Registry) Get(name string) (Client, bool) {
	c, ok := r.clients[name]
	return c, ok
}

// List returns all registered provider names in sorted order.
func (r *Registry) List() []string {
	names := make([]string, 0, len(r.clients))
	for name := range r.clients {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
