package ghost

import "net/url"

// Resource is one of the Content API collections.
type Resource string

const (
	ResourcePosts    Resource = "posts"
	ResourcePages    Resource = "pages"
	ResourceAuthors  Resource = "authors"
	ResourceTags     Resource = "tags"
	ResourceTiers    Resource = "tiers"
	ResourceSettings Resource = "settings"
)

// Resources lists every supported resource in catalogue order.
var Resources = []Resource{
	ResourcePosts,
	ResourceAuthors,
	ResourceTags,
	ResourcePages,
	ResourceTiers,
	ResourceSettings,
}

// Valid reports whether r is a known resource.
func (r Resource) Valid() bool {
	for _, known := range Resources {
		if r == known {
			return true
		}
	}
	return false
}

// SupportsRead reports whether single items can be read by id or slug.
// Tiers are browse-only and settings is a singleton.
func (r Resource) SupportsRead() bool {
	switch r {
	case ResourcePosts, ResourcePages, ResourceAuthors, ResourceTags:
		return true
	}
	return false
}

// SupportsFormats reports whether the formats parameter applies.
func (r Resource) SupportsFormats() bool {
	return r == ResourcePosts || r == ResourcePages
}

// BrowsePath returns the collection endpoint, e.g. "posts/".
func (r Resource) BrowsePath() string {
	return string(r) + "/"
}

// IDPath returns the read-by-id endpoint, e.g. "posts/{id}/".
func (r Resource) IDPath(id string) string {
	return string(r) + "/" + url.PathEscape(id) + "/"
}

// SlugPath returns the read-by-slug endpoint, e.g. "posts/slug/{slug}/".
func (r Resource) SlugPath(slug string) string {
	return string(r) + "/slug/" + url.PathEscape(slug) + "/"
}
