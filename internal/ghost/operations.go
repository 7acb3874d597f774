package ghost

import (
	"context"
	"encoding/json"
	"strings"

	apierrors "github.com/olgasafonova/ghost-content-mcp-server/internal/errors"
)

// BrowsePosts lists posts
func (c *Client) BrowsePosts(ctx context.Context, args BrowseContentArgs) (json.RawMessage, error) {
	return c.browse(ctx, ResourcePosts, args.params())
}

// ReadPostByID retrieves a post by its id
func (c *Client) ReadPostByID(ctx context.Context, args ReadContentByIDArgs) (json.RawMessage, error) {
	return c.readByID(ctx, ResourcePosts, args.ID, readContentParams(args.Include, args.Fields, args.Formats))
}

// ReadPostBySlug retrieves a post by its slug
func (c *Client) ReadPostBySlug(ctx context.Context, args ReadContentBySlugArgs) (json.RawMessage, error) {
	return c.readBySlug(ctx, ResourcePosts, args.Slug, readContentParams(args.Include, args.Fields, args.Formats))
}

// BrowseAuthors lists authors
func (c *Client) BrowseAuthors(ctx context.Context, args BrowseArgs) (json.RawMessage, error) {
	return c.browse(ctx, ResourceAuthors, args.params())
}

// ReadAuthorByID retrieves an author by id
func (c *Client) ReadAuthorByID(ctx context.Context, args ReadByIDArgs) (json.RawMessage, error) {
	return c.readByID(ctx, ResourceAuthors, args.ID, readParams(args.Include, args.Fields))
}

// ReadAuthorBySlug retrieves an author by slug
func (c *Client) ReadAuthorBySlug(ctx context.Context, args ReadBySlugArgs) (json.RawMessage, error) {
	return c.readBySlug(ctx, ResourceAuthors, args.Slug, readParams(args.Include, args.Fields))
}

// BrowseTags lists tags
func (c *Client) BrowseTags(ctx context.Context, args BrowseArgs) (json.RawMessage, error) {
	return c.browse(ctx, ResourceTags, args.params())
}

// ReadTagByID retrieves a tag by id
func (c *Client) ReadTagByID(ctx context.Context, args ReadByIDArgs) (json.RawMessage, error) {
	return c.readByID(ctx, ResourceTags, args.ID, readParams(args.Include, args.Fields))
}

// ReadTagBySlug retrieves a tag by slug
func (c *Client) ReadTagBySlug(ctx context.Context, args ReadBySlugArgs) (json.RawMessage, error) {
	return c.readBySlug(ctx, ResourceTags, args.Slug, readParams(args.Include, args.Fields))
}

// BrowsePages lists pages
func (c *Client) BrowsePages(ctx context.Context, args BrowseContentArgs) (json.RawMessage, error) {
	return c.browse(ctx, ResourcePages, args.params())
}

// ReadPageByID retrieves a page by id
func (c *Client) ReadPageByID(ctx context.Context, args ReadContentByIDArgs) (json.RawMessage, error) {
	return c.readByID(ctx, ResourcePages, args.ID, readContentParams(args.Include, args.Fields, args.Formats))
}

// ReadPageBySlug retrieves a page by slug
func (c *Client) ReadPageBySlug(ctx context.Context, args ReadContentBySlugArgs) (json.RawMessage, error) {
	return c.readBySlug(ctx, ResourcePages, args.Slug, readContentParams(args.Include, args.Fields, args.Formats))
}

// BrowseTiers lists membership tiers
func (c *Client) BrowseTiers(ctx context.Context, args BrowseArgs) (json.RawMessage, error) {
	return c.browse(ctx, ResourceTiers, args.params())
}

// BrowseSettings retrieves the site settings. Only the key is sent.
func (c *Client) BrowseSettings(ctx context.Context, _ BrowseSettingsArgs) (json.RawMessage, error) {
	return c.get(ctx, ResourceSettings, ResourceSettings.BrowsePath(), nil)
}

func (c *Client) browse(ctx context.Context, r Resource, params map[string]any) (json.RawMessage, error) {
	return c.get(ctx, r, r.BrowsePath(), params)
}

func (c *Client) readByID(ctx context.Context, r Resource, id string, params map[string]any) (json.RawMessage, error) {
	if strings.TrimSpace(id) == "" {
		return nil, c.invalidIdentifier(ctx, "id", "an id is required to read "+singular(r))
	}
	return c.get(ctx, r, r.IDPath(id), params)
}

func (c *Client) readBySlug(ctx context.Context, r Resource, slug string, params map[string]any) (json.RawMessage, error) {
	if strings.TrimSpace(slug) == "" {
		return nil, c.invalidIdentifier(ctx, "slug", "a slug is required to read "+singular(r))
	}
	return c.get(ctx, r, r.SlugPath(slug), params)
}

// invalidIdentifier reports a missing id or slug without sending a request.
// A configuration problem takes precedence over the caller's input.
func (c *Client) invalidIdentifier(ctx context.Context, field, message string) error {
	if _, err := c.credentials(ctx); err != nil {
		return err
	}
	return apierrors.NewValidationError(field, "", message)
}

func singular(r Resource) string {
	noun := strings.TrimSuffix(string(r), "s")
	if strings.ContainsRune("aeiou", rune(noun[0])) {
		return "an " + noun
	}
	return "a " + noun
}
