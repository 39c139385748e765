package sections

import (
	"fmt"
	"sort"
	"sync"

	"kirin-dashboard/internal/models"
)

// RenderContext exposes the minimal capabilities required by section renderers.
type RenderContext interface {
	// SanitizeHTML should clean potentially unsafe markup before rendering.
	SanitizeHTML(input string) string
	// RenderMarkdown converts a Markdown body into sanitised HTML.
	RenderMarkdown(input string) string
}

// State carries the transient preview state that is not part of content.
type State struct {
	ActiveSlide int
	Direction   int
}

// Renderer renders one section's content into HTML.
type Renderer func(ctx RenderContext, prefix string, section models.Section, state State) string

// Metadata describes a section type for the type selector.
type Metadata struct {
	Type        models.SectionType `json:"type"`
	Name        string             `json:"name"`
	Description string             `json:"description"`
	Icon        string             `json:"icon,omitempty"`
}

type descriptor struct {
	renderer Renderer
	metadata Metadata
}

// Registry stores the mapping between section types and their renderers.
type Registry struct {
	mu          sync.RWMutex
	descriptors map[models.SectionType]descriptor
}

func NewRegistry() *Registry {
	return &Registry{descriptors: make(map[models.SectionType]descriptor)}
}

// Register associates a renderer with a section type. It returns an error when the input is invalid.
func (r *Registry) Register(meta Metadata, renderer Renderer) error {
	if r == nil {
		return fmt.Errorf("registry is nil")
	}
	if !meta.Type.Valid() {
		return fmt.Errorf("unknown section type %q", meta.Type)
	}
	if renderer == nil {
		return fmt.Errorf("renderer is nil for type %s", meta.Type)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.descriptors == nil {
		r.descriptors = make(map[models.SectionType]descriptor)
	}
	r.descriptors[meta.Type] = descriptor{renderer: renderer, metadata: meta}
	return nil
}

// MustRegister registers the renderer and panics if registration fails.
func (r *Registry) MustRegister(meta Metadata, renderer Renderer) {
	if err := r.Register(meta, renderer); err != nil {
		panic(err)
	}
}

func (r *Registry) Get(t models.SectionType) (Renderer, bool) {
	if r == nil {
		return nil, false
	}

	r.mu.RLock()
	defer r.mu.RUnlock()
	desc, ok := r.descriptors[t]
	return desc.renderer, ok
}

// Types lists the metadata of every registered type in selector order.
func (r *Registry) Types() []Metadata {
	if r == nil {
		return nil
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	order := make(map[models.SectionType]int, len(models.SectionTypes))
	for i, t := range models.SectionTypes {
		order[t] = i
	}

	result := make([]Metadata, 0, len(r.descriptors))
	for _, desc := range r.descriptors {
		result = append(result, desc.metadata)
	}
	sort.Slice(result, func(i, j int) bool {
		return order[result[i].Type] < order[result[j].Type]
	})
	return result
}

// Clone creates a copy of the registry with the same renderer mappings.
func (r *Registry) Clone() *Registry {
	if r == nil {
		return NewRegistry()
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	cloned := NewRegistry()
	for key, desc := range r.descriptors {
		cloned.descriptors[key] = desc
	}
	return cloned
}
