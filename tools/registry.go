// Package tools provides a metadata-driven registry for MCP tool definitions.
// Tools are defined declaratively and registered through one type-safe helper.
package tools

// ToolSpec defines a tool's metadata for declarative registration.
// Each spec maps to a ghost.Client method with a matching Args type.
type ToolSpec struct {
	// Name is the MCP tool name (e.g., "browse_posts")
	Name string

	// Method is the client method name (e.g., "BrowsePosts")
	Method string

	// Description is the tool description shown to LLMs
	Description string

	// Title is the human-readable tool title for annotations
	Title string

	// Category groups tools logically (browse, read)
	Category string

	// Resource is the Content API resource the tool reads (posts, tags, ...)
	Resource string

	// Path is the endpoint template relative to the API root
	Path string

	// ReadOnly indicates the tool doesn't modify site state
	ReadOnly bool

	// Destructive indicates the tool can delete or overwrite data
	Destructive bool

	// Idempotent indicates repeated calls have the same effect
	Idempotent bool

	// OpenWorld indicates the tool accesses external resources
	OpenWorld bool
}

// ToolsByResource returns the tools that read the given resource, in catalogue order.
func ToolsByResource(resource string) []ToolSpec {
	var out []ToolSpec
	for _, spec := range AllTools {
		if spec.Resource == resource {
			out = append(out, spec)
		}
	}
	return out
}

// ToolsByCategory returns the tools in the given category, in catalogue order.
func ToolsByCategory(category string) []ToolSpec {
	var out []ToolSpec
	for _, spec := range AllTools {
		if spec.Category == category {
			out = append(out, spec)
		}
	}
	return out
}

// FindTool looks up a tool by name.
func FindTool(name string) (ToolSpec, bool) {
	for _, spec := range AllTools {
		if spec.Name == name {
			return spec, true
		}
	}
	return ToolSpec{}, false
}

// ptr is a helper to create a pointer to a value.
func ptr[T any](v T) *T {
	return &v
}
