package tools

// AllTools contains all tool specifications for the Ghost Content MCP server,
// in the order clients see them.
// Tool descriptions follow a structured format for LLM tool selection:
// - USE WHEN: Natural language triggers
// - NOT FOR: Disambiguation from similar tools
// - PARAMETERS: Key arguments with defaults
// - RETURNS: What the tool returns
var AllTools = []ToolSpec{
	// ==========================================================================
	// POSTS
	// ==========================================================================
	{
		Name:     "browse_posts",
		Method:   "BrowsePosts",
		Title:    "Browse Posts",
		Category: "browse",
		Resource: "posts",
		Path:     "posts/",
		Description: `List published posts on the Ghost site.

USE WHEN: User asks "latest posts", "articles tagged X", "what was published last month".

NOT FOR: A single known post (use read_post_by_id or read_post_by_slug). Static pages (use browse_pages).

PARAMETERS:
- include: Relations to embed, e.g. ["authors","tags"]
- fields: Restrict returned fields, e.g. ["title","url"]
- filter: NQL filter, e.g. "tag:news+featured:true"
- limit: Posts per page (Ghost default 15)
- page: Page number
- order: Sort, e.g. "-published_at"
- formats: ["html"], ["plaintext"] or both

RETURNS: Ghost JSON with a posts array and meta.pagination.`,
		ReadOnly:   true,
		Idempotent: true,
		OpenWorld:  true,
	},
	{
		Name:     "read_post_by_id",
		Method:   "ReadPostByID",
		Title:    "Read Post by ID",
		Category: "read",
		Resource: "posts",
		Path:     "posts/{id}/",
		Description: `Read one post by its Ghost id.

USE WHEN: You already have a post id from a previous browse result.

NOT FOR: Looking up a post from its URL (use read_post_by_slug).

PARAMETERS:
- id: Post id (required)
- include, fields, formats: As for browse_posts

RETURNS: Ghost JSON with a single-element posts array.`,
		ReadOnly:   true,
		Idempotent: true,
		OpenWorld:  true,
	},
	{
		Name:     "read_post_by_slug",
		Method:   "ReadPostBySlug",
		Title:    "Read Post by Slug",
		Category: "read",
		Resource: "posts",
		Path:     "posts/slug/{slug}/",
		Description: `Read one post by its URL slug.

USE WHEN: User gives a post URL or title-like slug, e.g. "welcome".

NOT FOR: Listing posts (use browse_posts).

PARAMETERS:
- slug: Post slug (required)
- include, fields, formats: As for browse_posts

RETURNS: Ghost JSON with a single-element posts array.`,
		ReadOnly:   true,
		Idempotent: true,
		OpenWorld:  true,
	},

	// ==========================================================================
	// AUTHORS
	// ==========================================================================
	{
		Name:     "browse_authors",
		Method:   "BrowseAuthors",
		Title:    "Browse Authors",
		Category: "browse",
		Resource: "authors",
		Path:     "authors/",
		Description: `List the site's authors.

USE WHEN: User asks "who writes for this blog", "authors with the most posts".

NOT FOR: A single known author (use read_author_by_id or read_author_by_slug).

PARAMETERS:
- include: e.g. ["count.posts"]
- fields, filter, limit, page, order: Standard Content API browse options

RETURNS: Ghost JSON with an authors array and meta.pagination.`,
		ReadOnly:   true,
		Idempotent: true,
		OpenWorld:  true,
	},
	{
		Name:     "read_author_by_id",
		Method:   "ReadAuthorByID",
		Title:    "Read Author by ID",
		Category: "read",
		Resource: "authors",
		Path:     "authors/{id}/",
		Description: `Read one author by Ghost id.

USE WHEN: You have an author id, e.g. from a post's authors list.

PARAMETERS:
- id: Author id (required)
- include, fields: Optional

RETURNS: Ghost JSON with a single-element authors array.`,
		ReadOnly:   true,
		Idempotent: true,
		OpenWorld:  true,
	},
	{
		Name:     "read_author_by_slug",
		Method:   "ReadAuthorBySlug",
		Title:    "Read Author by Slug",
		Category: "read",
		Resource: "authors",
		Path:     "authors/slug/{slug}/",
		Description: `Read one author by slug.

USE WHEN: User names an author profile URL, e.g. /author/cameron/.

PARAMETERS:
- slug: Author slug (required)
- include, fields: Optional

RETURNS: Ghost JSON with a single-element authors array.`,
		ReadOnly:   true,
		Idempotent: true,
		OpenWorld:  true,
	},

	// ==========================================================================
	// TAGS
	// ==========================================================================
	{
		Name:     "browse_tags",
		Method:   "BrowseTags",
		Title:    "Browse Tags",
		Category: "browse",
		Resource: "tags",
		Path:     "tags/",
		Description: `List the site's tags.

USE WHEN: User asks "what topics does this site cover", "list categories".

NOT FOR: Posts within a tag (use browse_posts with filter "tag:slug").

PARAMETERS:
- include: e.g. ["count.posts"]
- fields, filter, limit, page, order: Standard Content API browse options

RETURNS: Ghost JSON with a tags array and meta.pagination.`,
		ReadOnly:   true,
		Idempotent: true,
		OpenWorld:  true,
	},
	{
		Name:     "read_tag_by_id",
		Method:   "ReadTagByID",
		Title:    "Read Tag by ID",
		Category: "read",
		Resource: "tags",
		Path:     "tags/{id}/",
		Description: `Read one tag by Ghost id.

PARAMETERS:
- id: Tag id (required)
- include, fields: Optional

RETURNS: Ghost JSON with a single-element tags array.`,
		ReadOnly:   true,
		Idempotent: true,
		OpenWorld:  true,
	},
	{
		Name:     "read_tag_by_slug",
		Method:   "ReadTagBySlug",
		Title:    "Read Tag by Slug",
		Category: "read",
		Resource: "tags",
		Path:     "tags/slug/{slug}/",
		Description: `Read one tag by slug.

USE WHEN: User names a tag page, e.g. /tag/getting-started/.

PARAMETERS:
- slug: Tag slug (required)
- include, fields: Optional

RETURNS: Ghost JSON with a single-element tags array.`,
		ReadOnly:   true,
		Idempotent: true,
		OpenWorld:  true,
	},

	// ==========================================================================
	// PAGES
	// ==========================================================================
	{
		Name:     "browse_pages",
		Method:   "BrowsePages",
		Title:    "Browse Pages",
		Category: "browse",
		Resource: "pages",
		Path:     "pages/",
		Description: `List static pages (About, Contact, ...).

USE WHEN: User asks about the site's standalone pages rather than its posts.

NOT FOR: Blog posts (use browse_posts).

PARAMETERS:
- include, fields, filter, limit, page, order, formats: As for browse_posts

RETURNS: Ghost JSON with a pages array and meta.pagination.`,
		ReadOnly:   true,
		Idempotent: true,
		OpenWorld:  true,
	},
	{
		Name:     "read_page_by_id",
		Method:   "ReadPageByID",
		Title:    "Read Page by ID",
		Category: "read",
		Resource: "pages",
		Path:     "pages/{id}/",
		Description: `Read one static page by Ghost id.

PARAMETERS:
- id: Page id (required)
- include, fields, formats: Optional

RETURNS: Ghost JSON with a single-element pages array.`,
		ReadOnly:   true,
		Idempotent: true,
		OpenWorld:  true,
	},
	{
		Name:     "read_page_by_slug",
		Method:   "ReadPageBySlug",
		Title:    "Read Page by Slug",
		Category: "read",
		Resource: "pages",
		Path:     "pages/slug/{slug}/",
		Description: `Read one static page by slug.

USE WHEN: User names a page URL, e.g. /about/.

PARAMETERS:
- slug: Page slug (required)
- include, fields, formats: Optional

RETURNS: Ghost JSON with a single-element pages array.`,
		ReadOnly:   true,
		Idempotent: true,
		OpenWorld:  true,
	},

	// ==========================================================================
	// TIERS & SETTINGS
	// ==========================================================================
	{
		Name:     "browse_tiers",
		Method:   "BrowseTiers",
		Title:    "Browse Tiers",
		Category: "browse",
		Resource: "tiers",
		Path:     "tiers/",
		Description: `List membership tiers and their prices.

USE WHEN: User asks "how much is a subscription", "what plans are offered".

PARAMETERS:
- include: e.g. ["monthly_price","yearly_price","benefits"]
- fields, filter, limit, page, order: Standard Content API browse options

RETURNS: Ghost JSON with a tiers array.`,
		ReadOnly:   true,
		Idempotent: true,
		OpenWorld:  true,
	},
	{
		Name:     "browse_settings",
		Method:   "BrowseSettings",
		Title:    "Browse Settings",
		Category: "browse",
		Resource: "settings",
		Path:     "settings/",
		Description: `Read the site's public settings: title, description, logo, navigation, locale.

USE WHEN: User asks "what is this site", "site title", "navigation menu".

PARAMETERS: None.

RETURNS: Ghost JSON with a settings object.`,
		ReadOnly:   true,
		Idempotent: true,
		OpenWorld:  true,
	},
}
