package ghost

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/olgasafonova/ghost-content-mcp-server/internal/base"
	"github.com/olgasafonova/ghost-content-mcp-server/internal/credentials"
	apierrors "github.com/olgasafonova/ghost-content-mcp-server/internal/errors"
	"github.com/olgasafonova/ghost-content-mcp-server/internal/infra"
)

const testKey = "22444f78447824223cefc48062"

// fakeGhost records requests and answers each with a fixed status and body.
type fakeGhost struct {
	*httptest.Server

	mu       sync.Mutex
	requests []*http.Request
	status   int
	body     string
}

func newFakeGhost(t *testing.T, status int, body string) *fakeGhost {
	t.Helper()
	f := &fakeGhost{status: status, body: body}
	f.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		f.requests = append(f.requests, r.Clone(context.Background()))
		f.mu.Unlock()

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(f.status)
		_, _ = io.WriteString(w, f.body)
	}))
	t.Cleanup(f.Close)
	return f
}

func (f *fakeGhost) last(t *testing.T) *http.Request {
	t.Helper()
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.requests) == 0 {
		t.Fatal("no request reached the fake Ghost server")
	}
	return f.requests[len(f.requests)-1]
}

func (f *fakeGhost) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.requests)
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestClient(t *testing.T, provider credentials.Provider, opts ...base.ClientOption) *Client {
	t.Helper()
	opts = append([]base.ClientOption{base.WithLogger(quietLogger())}, opts...)
	c := NewClient(provider, opts...)
	t.Cleanup(c.Close)
	return c
}

func siteProvider(domain string) credentials.Provider {
	return credentials.StaticProvider{AdminDomain: domain, ContentAPIKey: testKey}
}

// operations returns every Content API operation bound to sample arguments.
func operations(c *Client) map[string]func(context.Context) (json.RawMessage, error) {
	return map[string]func(context.Context) (json.RawMessage, error){
		"browse_posts": func(ctx context.Context) (json.RawMessage, error) {
			return c.BrowsePosts(ctx, BrowseContentArgs{})
		},
		"read_post_by_id": func(ctx context.Context) (json.RawMessage, error) {
			return c.ReadPostByID(ctx, ReadContentByIDArgs{ID: "x"})
		},
		"read_post_by_slug": func(ctx context.Context) (json.RawMessage, error) {
			return c.ReadPostBySlug(ctx, ReadContentBySlugArgs{Slug: "welcome"})
		},
		"browse_authors": func(ctx context.Context) (json.RawMessage, error) {
			return c.BrowseAuthors(ctx, BrowseArgs{})
		},
		"read_author_by_id": func(ctx context.Context) (json.RawMessage, error) {
			return c.ReadAuthorByID(ctx, ReadByIDArgs{ID: "x"})
		},
		"read_author_by_slug": func(ctx context.Context) (json.RawMessage, error) {
			return c.ReadAuthorBySlug(ctx, ReadBySlugArgs{Slug: "cameron"})
		},
		"browse_tags": func(ctx context.Context) (json.RawMessage, error) {
			return c.BrowseTags(ctx, BrowseArgs{})
		},
		"read_tag_by_id": func(ctx context.Context) (json.RawMessage, error) {
			return c.ReadTagByID(ctx, ReadByIDArgs{ID: "x"})
		},
		"read_tag_by_slug": func(ctx context.Context) (json.RawMessage, error) {
			return c.ReadTagBySlug(ctx, ReadBySlugArgs{Slug: "news"})
		},
		"browse_pages": func(ctx context.Context) (json.RawMessage, error) {
			return c.BrowsePages(ctx, BrowseContentArgs{})
		},
		"read_page_by_id": func(ctx context.Context) (json.RawMessage, error) {
			return c.ReadPageByID(ctx, ReadContentByIDArgs{ID: "x"})
		},
		"read_page_by_slug": func(ctx context.Context) (json.RawMessage, error) {
			return c.ReadPageBySlug(ctx, ReadContentBySlugArgs{Slug: "about"})
		},
		"browse_tiers": func(ctx context.Context) (json.RawMessage, error) {
			return c.BrowseTiers(ctx, BrowseArgs{})
		},
		"browse_settings": func(ctx context.Context) (json.RawMessage, error) {
			return c.BrowseSettings(ctx, BrowseSettingsArgs{})
		},
	}
}

// =============================================================================
// URL and Request Tests
// =============================================================================

func TestBaseURL(t *testing.T) {
	tests := []struct {
		domain string
		want   string
	}{
		{"demo.ghost.io", "https://demo.ghost.io/ghost/api/content/"},
		{"demo.ghost.io/", "https://demo.ghost.io/ghost/api/content/"},
		{"demo.ghost.io///", "https://demo.ghost.io/ghost/api/content/"},
		{"http://localhost:2368", "http://localhost:2368/ghost/api/content/"},
		{"https://blog.example.com/", "https://blog.example.com/ghost/api/content/"},
	}
	for _, tt := range tests {
		if got := BaseURL(tt.domain); got != tt.want {
			t.Errorf("BaseURL(%q) = %q, want %q", tt.domain, got, tt.want)
		}
	}
}

func TestBrowsePosts_Request(t *testing.T) {
	payload := `{"posts":[{"id":"1","title":"Welcome"}],"meta":{"pagination":{"page":1,"limit":5,"pages":1,"total":1,"next":null,"prev":null}}}`
	ghost := newFakeGhost(t, http.StatusOK, payload)
	client := newTestClient(t, credentials.StaticProvider{AdminDomain: ghost.URL, ContentAPIKey: "K"})

	raw, err := client.BrowsePosts(context.Background(), BrowseContentArgs{Limit: 5, Order: "-published_at"})
	if err != nil {
		t.Fatalf("BrowsePosts failed: %v", err)
	}
	if string(raw) != payload {
		t.Errorf("body = %s, want payload unchanged", raw)
	}

	req := ghost.last(t)
	if req.URL.Path != "/ghost/api/content/posts/" {
		t.Errorf("path = %q, want /ghost/api/content/posts/", req.URL.Path)
	}
	if req.URL.RawQuery != "key=K&limit=5&order=-published_at" {
		t.Errorf("query = %q, want key=K&limit=5&order=-published_at", req.URL.RawQuery)
	}
	if req.Method != http.MethodGet {
		t.Errorf("method = %s, want GET", req.Method)
	}
}

func TestRequests_HeadersAndKey(t *testing.T) {
	ghost := newFakeGhost(t, http.StatusOK, `{}`)

	tests := []struct {
		name        string
		version     string
		wantVersion string
	}{
		{"default version", "", "v5.0"},
		{"configured version", "v4.0", "v4.0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestClient(t, credentials.StaticProvider{
				AdminDomain:   ghost.URL,
				ContentAPIKey: testKey,
				APIVersion:    tt.version,
			})

			for name, op := range operations(client) {
				if _, err := op(context.Background()); err != nil {
					t.Fatalf("%s failed: %v", name, err)
				}
				req := ghost.last(t)
				if got := req.Header.Get("Accept-Version"); got != tt.wantVersion {
					t.Errorf("%s: Accept-Version = %q, want %q", name, got, tt.wantVersion)
				}
				if got := req.URL.Query().Get("key"); got != testKey {
					t.Errorf("%s: key = %q, want %q", name, got, testKey)
				}
				if got := req.Header.Get("Authorization"); got != "" {
					t.Errorf("%s: Authorization header sent: %q", name, got)
				}
			}
		})
	}
}

func TestOperations_Paths(t *testing.T) {
	ghost := newFakeGhost(t, http.StatusOK, `{}`)
	client := newTestClient(t, siteProvider(ghost.URL))

	want := map[string]string{
		"browse_posts":        "/ghost/api/content/posts/",
		"read_post_by_id":     "/ghost/api/content/posts/x/",
		"read_post_by_slug":   "/ghost/api/content/posts/slug/welcome/",
		"browse_authors":      "/ghost/api/content/authors/",
		"read_author_by_id":   "/ghost/api/content/authors/x/",
		"read_author_by_slug": "/ghost/api/content/authors/slug/cameron/",
		"browse_tags":         "/ghost/api/content/tags/",
		"read_tag_by_id":      "/ghost/api/content/tags/x/",
		"read_tag_by_slug":    "/ghost/api/content/tags/slug/news/",
		"browse_pages":        "/ghost/api/content/pages/",
		"read_page_by_id":     "/ghost/api/content/pages/x/",
		"read_page_by_slug":   "/ghost/api/content/pages/slug/about/",
		"browse_tiers":        "/ghost/api/content/tiers/",
		"browse_settings":     "/ghost/api/content/settings/",
	}

	ops := operations(client)
	if len(ops) != len(want) {
		t.Fatalf("got %d operations, want %d", len(ops), len(want))
	}
	for name, op := range ops {
		if _, err := op(context.Background()); err != nil {
			t.Fatalf("%s failed: %v", name, err)
		}
		if got := ghost.last(t).URL.Path; got != want[name] {
			t.Errorf("%s: path = %q, want %q", name, got, want[name])
		}
	}
}

func TestBrowseSettings_OnlyKey(t *testing.T) {
	ghost := newFakeGhost(t, http.StatusOK, `{"settings":{"title":"Ghost"},"meta":{}}`)
	client := newTestClient(t, siteProvider(ghost.URL))

	if _, err := client.BrowseSettings(context.Background(), BrowseSettingsArgs{}); err != nil {
		t.Fatalf("BrowseSettings failed: %v", err)
	}
	if got := ghost.last(t).URL.RawQuery; got != "key="+testKey {
		t.Errorf("query = %q, want only the key", got)
	}
}

func TestReadPostBySlug_ListParams(t *testing.T) {
	ghost := newFakeGhost(t, http.StatusOK, `{"posts":[]}`)
	client := newTestClient(t, siteProvider(ghost.URL))

	_, err := client.ReadPostBySlug(context.Background(), ReadContentBySlugArgs{
		Slug:    "welcome",
		Include: []string{"authors", "tags"},
		Fields:  []string{},
		Formats: []string{"html", "plaintext"},
	})
	if err != nil {
		t.Fatalf("ReadPostBySlug failed: %v", err)
	}

	q := ghost.last(t).URL.Query()
	if got := q.Get("include"); got != "authors,tags" {
		t.Errorf("include = %q, want authors,tags", got)
	}
	if got := q.Get("formats"); got != "html,plaintext" {
		t.Errorf("formats = %q, want html,plaintext", got)
	}
	if q.Has("fields") {
		t.Error("empty fields list should be omitted")
	}
}

func TestReadBySlug_Escaped(t *testing.T) {
	ghost := newFakeGhost(t, http.StatusOK, `{}`)
	client := newTestClient(t, siteProvider(ghost.URL))

	if _, err := client.ReadTagBySlug(context.Background(), ReadBySlugArgs{Slug: "a b?c"}); err != nil {
		t.Fatalf("ReadTagBySlug failed: %v", err)
	}
	req := ghost.last(t)
	if req.URL.Path != "/ghost/api/content/tags/slug/a b?c/" {
		t.Errorf("decoded path = %q", req.URL.Path)
	}
	if req.URL.Query().Get("key") != testKey {
		t.Error("escaped slug must not swallow the query string")
	}
}

// =============================================================================
// Credential Tests
// =============================================================================

func TestOperations_MissingDomain(t *testing.T) {
	client := newTestClient(t, credentials.StaticProvider{ContentAPIKey: testKey})

	for name, op := range operations(client) {
		raw, err := op(context.Background())
		if err == nil {
			t.Fatalf("%s: expected configuration error", name)
		}
		if raw != nil {
			t.Errorf("%s: expected no payload on error", name)
		}
		if !strings.Contains(err.Error(), "domain") {
			t.Errorf("%s: error %q does not mention the domain", name, err)
		}
		if apierrors.KindOf(err) != apierrors.KindConfiguration {
			t.Errorf("%s: kind = %s, want configuration", name, apierrors.KindOf(err))
		}
	}
}

func TestOperations_MissingDomain_EmptyIdentifier(t *testing.T) {
	client := newTestClient(t, credentials.StaticProvider{ContentAPIKey: testKey})
	ctx := context.Background()

	_, errByID := client.ReadPostByID(ctx, ReadContentByIDArgs{})
	_, errBySlug := client.ReadTagBySlug(ctx, ReadBySlugArgs{Slug: " "})

	for name, err := range map[string]error{"read_post_by_id": errByID, "read_tag_by_slug": errBySlug} {
		if apierrors.KindOf(err) != apierrors.KindConfiguration {
			t.Errorf("%s: kind = %s, want configuration", name, apierrors.KindOf(err))
		}
		if err == nil || !strings.Contains(err.Error(), "domain") {
			t.Errorf("%s: error %v does not mention the domain", name, err)
		}
	}
}

func TestOperations_MissingKey(t *testing.T) {
	ghost := newFakeGhost(t, http.StatusOK, `{}`)
	client := newTestClient(t, credentials.StaticProvider{AdminDomain: ghost.URL})

	for name, op := range operations(client) {
		_, err := op(context.Background())
		if err == nil {
			t.Fatalf("%s: expected configuration error", name)
		}
		if !strings.Contains(err.Error(), "key") {
			t.Errorf("%s: error %q does not mention the key", name, err)
		}
	}
	if ghost.count() != 0 {
		t.Errorf("%d requests sent without a key", ghost.count())
	}
}

func TestCredentials_ResolvedOnce(t *testing.T) {
	ghost := newFakeGhost(t, http.StatusOK, `{}`)

	calls := 0
	provider := credentials.ProviderFunc(func(context.Context) (credentials.Bundle, error) {
		calls++
		return credentials.Bundle{AdminDomain: ghost.URL, ContentAPIKey: testKey}, nil
	})
	client := newTestClient(t, provider)

	if client.CredentialState() != credentials.StateUnresolved {
		t.Errorf("state = %s, want unresolved", client.CredentialState())
	}
	for range 3 {
		if _, err := client.BrowseTags(context.Background(), BrowseArgs{}); err != nil {
			t.Fatalf("BrowseTags failed: %v", err)
		}
	}
	if calls != 1 {
		t.Errorf("provider called %d times, want 1", calls)
	}
	if client.CredentialState() != credentials.StateSucceeded {
		t.Errorf("state = %s, want succeeded", client.CredentialState())
	}
}

func TestCredentials_FailureCached(t *testing.T) {
	calls := 0
	provider := credentials.ProviderFunc(func(context.Context) (credentials.Bundle, error) {
		calls++
		return credentials.Bundle{}, nil
	})
	client := newTestClient(t, provider)

	for range 2 {
		if _, err := client.BrowseSettings(context.Background(), BrowseSettingsArgs{}); err == nil {
			t.Fatal("expected configuration error")
		}
	}
	if calls != 1 {
		t.Errorf("provider called %d times, want 1", calls)
	}
	if client.CredentialState() != credentials.StateFailed {
		t.Errorf("state = %s, want failed", client.CredentialState())
	}
}

// =============================================================================
// Error Mapping Tests
// =============================================================================

func TestReadPostByID_NotFound(t *testing.T) {
	ghost := newFakeGhost(t, http.StatusNotFound, `{"errors":[{"message":"Post not found","type":"NotFoundError"}]}`)
	client := newTestClient(t, siteProvider(ghost.URL))

	_, err := client.ReadPostByID(context.Background(), ReadContentByIDArgs{ID: "x"})
	if err == nil {
		t.Fatal("expected error for 404")
	}
	msg := err.Error()
	for _, want := range []string{"404", "Post not found", "NotFoundError", "posts/x/"} {
		if !strings.Contains(msg, want) {
			t.Errorf("error %q missing %q", msg, want)
		}
	}
	if !apierrors.IsNotFound(err) {
		t.Error("IsNotFound should be true")
	}
	if strings.Contains(msg, testKey) {
		t.Errorf("error %q leaks the API key", msg)
	}
}

func TestHTTPError_NonJSONBody(t *testing.T) {
	ghost := newFakeGhost(t, http.StatusBadGateway, "<html>Bad Gateway</html>")
	client := newTestClient(t, siteProvider(ghost.URL))

	_, err := client.BrowsePages(context.Background(), BrowseContentArgs{})
	if err == nil {
		t.Fatal("expected error for 502")
	}
	want := "Error fetching pages/: 502 - <html>Bad Gateway</html>"
	if err.Error() != want {
		t.Errorf("error = %q, want %q", err, want)
	}
}

func TestHTTPError_TruncatesLongBody(t *testing.T) {
	ghost := newFakeGhost(t, http.StatusInternalServerError, strings.Repeat("x", 2000))
	client := newTestClient(t, siteProvider(ghost.URL))

	_, err := client.BrowseTiers(context.Background(), BrowseArgs{})
	if err == nil {
		t.Fatal("expected error for 500")
	}
	if len(err.Error()) > maxErrorBody+100 {
		t.Errorf("error message not truncated: %d bytes", len(err.Error()))
	}
}

func TestHTTPError_ContextIncluded(t *testing.T) {
	ghost := newFakeGhost(t, http.StatusUnauthorized,
		`{"errors":[{"message":"Authorization failed","context":"Unknown Content API Key","type":"UnauthorizedError"}]}`)
	client := newTestClient(t, siteProvider(ghost.URL))

	_, err := client.BrowseAuthors(context.Background(), BrowseArgs{})
	want := "Error fetching authors/: 401 - UnauthorizedError: Authorization failed (Unknown Content API Key)"
	if err == nil || err.Error() != want {
		t.Errorf("error = %v, want %q", err, want)
	}
}

func TestInvalidJSON(t *testing.T) {
	ghost := newFakeGhost(t, http.StatusOK, "not json")
	client := newTestClient(t, siteProvider(ghost.URL))

	_, err := client.BrowsePosts(context.Background(), BrowseContentArgs{})
	if err == nil {
		t.Fatal("expected error for invalid JSON")
	}
	if apierrors.KindOf(err) != apierrors.KindUnexpected {
		t.Errorf("kind = %s, want unexpected", apierrors.KindOf(err))
	}
	if !strings.HasPrefix(err.Error(), "Unexpected error fetching posts/: *json.SyntaxError") {
		t.Errorf("error = %q", err)
	}
}

func TestNetworkError(t *testing.T) {
	ghost := newFakeGhost(t, http.StatusOK, `{}`)
	domain := ghost.URL
	ghost.Close()

	client := newTestClient(t, siteProvider(domain))

	_, err := client.BrowseTags(context.Background(), BrowseArgs{})
	if err == nil {
		t.Fatal("expected network error")
	}
	if apierrors.KindOf(err) != apierrors.KindNetwork {
		t.Errorf("kind = %s, want network", apierrors.KindOf(err))
	}
	if !strings.HasPrefix(err.Error(), "Network error fetching tags/") {
		t.Errorf("error = %q", err)
	}
	if strings.Contains(err.Error(), testKey) {
		t.Errorf("error %q leaks the API key", err)
	}
}

func TestNetworkError_Timeout(t *testing.T) {
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-release
	}))
	defer server.Close()
	defer close(release)

	client := newTestClient(t, siteProvider(server.URL), base.WithTimeout(50*time.Millisecond))

	_, err := client.BrowsePosts(context.Background(), BrowseContentArgs{})
	if err == nil {
		t.Fatal("expected timeout")
	}
	if !strings.Contains(err.Error(), "timed out") {
		t.Errorf("error = %q, want a timeout diagnostic", err)
	}
}

func TestCircuitOpen_IsNetworkError(t *testing.T) {
	ghost := newFakeGhost(t, http.StatusServiceUnavailable, `{"errors":[{"message":"Maintenance","type":"MaintenanceError"}]}`)
	cb := infra.NewCircuitBreaker(infra.BreakerConfig{FailureThreshold: 1, ResetTimeout: time.Hour})
	client := newTestClient(t, siteProvider(ghost.URL), base.WithCircuitBreaker(cb))

	if _, err := client.BrowsePosts(context.Background(), BrowseContentArgs{}); apierrors.KindOf(err) != apierrors.KindHTTPStatus {
		t.Fatalf("first call: kind = %s, want http_status", apierrors.KindOf(err))
	}

	_, err := client.BrowsePosts(context.Background(), BrowseContentArgs{})
	if apierrors.KindOf(err) != apierrors.KindNetwork {
		t.Fatalf("second call: kind = %s, want network", apierrors.KindOf(err))
	}
	if !strings.Contains(err.Error(), "circuit breaker is open") {
		t.Errorf("error = %q", err)
	}
	if ghost.count() != 1 {
		t.Errorf("server called %d times, want 1", ghost.count())
	}
}

func TestValidation_EmptyIdentifiers(t *testing.T) {
	ghost := newFakeGhost(t, http.StatusOK, `{}`)
	client := newTestClient(t, siteProvider(ghost.URL))
	ctx := context.Background()

	checks := map[string]error{}
	_, checks["read_post_by_id"] = client.ReadPostByID(ctx, ReadContentByIDArgs{})
	_, checks["read_page_by_slug"] = client.ReadPageBySlug(ctx, ReadContentBySlugArgs{Slug: "  "})
	_, checks["read_author_by_id"] = client.ReadAuthorByID(ctx, ReadByIDArgs{})
	_, checks["read_tag_by_slug"] = client.ReadTagBySlug(ctx, ReadBySlugArgs{})

	for name, err := range checks {
		if !apierrors.IsValidation(err) {
			t.Errorf("%s: err = %v, want validation error", name, err)
		}
	}
	if ghost.count() != 0 {
		t.Errorf("%d requests sent for invalid input", ghost.count())
	}
}
