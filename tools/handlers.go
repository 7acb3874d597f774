package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"runtime/debug"
	"time"

	"github.com/google/uuid"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	apierrors "github.com/olgasafonova/ghost-content-mcp-server/internal/errors"
	"github.com/olgasafonova/ghost-content-mcp-server/internal/ghost"
	"github.com/olgasafonova/ghost-content-mcp-server/metrics"
	"github.com/olgasafonova/ghost-content-mcp-server/tracing"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

// HandlerRegistry provides type-safe tool registration by mapping
// tool names to their ghost.Client methods.
type HandlerRegistry struct {
	client *ghost.Client
	logger *slog.Logger
}

// NewHandlerRegistry creates a new handler registry.
func NewHandlerRegistry(client *ghost.Client, logger *slog.Logger) *HandlerRegistry {
	return &HandlerRegistry{
		client: client,
		logger: logger,
	}
}

// RegisterAll registers all tools with the MCP server.
func (h *HandlerRegistry) RegisterAll(server *mcp.Server) {
	registered := 0
	for _, spec := range AllTools {
		if h.registerByName(server, spec) {
			registered++
		}
	}
	h.logger.Info("Registered all tools", "count", registered)
}

// registerByName dispatches to the correct typed registration function.
func (h *HandlerRegistry) registerByName(server *mcp.Server, spec ToolSpec) bool {
	tool := h.buildTool(spec)
	c := h.client

	switch spec.Method {
	case "BrowsePosts":
		register(h, server, tool, spec, c.BrowsePosts)
	case "ReadPostByID":
		register(h, server, tool, spec, c.ReadPostByID)
	case "ReadPostBySlug":
		register(h, server, tool, spec, c.ReadPostBySlug)
	case "BrowseAuthors":
		register(h, server, tool, spec, c.BrowseAuthors)
	case "ReadAuthorByID":
		register(h, server, tool, spec, c.ReadAuthorByID)
	case "ReadAuthorBySlug":
		register(h, server, tool, spec, c.ReadAuthorBySlug)
	case "BrowseTags":
		register(h, server, tool, spec, c.BrowseTags)
	case "ReadTagByID":
		register(h, server, tool, spec, c.ReadTagByID)
	case "ReadTagBySlug":
		register(h, server, tool, spec, c.ReadTagBySlug)
	case "BrowsePages":
		register(h, server, tool, spec, c.BrowsePages)
	case "ReadPageByID":
		register(h, server, tool, spec, c.ReadPageByID)
	case "ReadPageBySlug":
		register(h, server, tool, spec, c.ReadPageBySlug)
	case "BrowseTiers":
		register(h, server, tool, spec, c.BrowseTiers)
	case "BrowseSettings":
		register(h, server, tool, spec, c.BrowseSettings)
	default:
		h.logger.Error("Unknown method, tool not registered", "method", spec.Method, "tool", spec.Name)
		return false
	}
	return true
}

// buildTool creates an mcp.Tool from a ToolSpec.
func (h *HandlerRegistry) buildTool(spec ToolSpec) *mcp.Tool {
	annotations := &mcp.ToolAnnotations{
		Title:          spec.Title,
		ReadOnlyHint:   spec.ReadOnly,
		IdempotentHint: spec.Idempotent,
	}
	if spec.Destructive {
		annotations.DestructiveHint = ptr(true)
	} else {
		annotations.DestructiveHint = ptr(false)
	}
	if spec.OpenWorld {
		annotations.OpenWorldHint = ptr(true)
	}

	return &mcp.Tool{
		Name:        spec.Name,
		Description: spec.Description,
		Annotations: annotations,
	}
}

// register is a generic helper that registers a tool with the MCP server.
// It wraps the client method with panic recovery, metrics, tracing, and logging.
// Failures are reported as IsError tool results; the handler never returns a
// protocol error.
func register[Args any](
	h *HandlerRegistry,
	server *mcp.Server,
	tool *mcp.Tool,
	spec ToolSpec,
	method func(context.Context, Args) (json.RawMessage, error),
) {
	mcp.AddTool(server, tool, func(ctx context.Context, req *mcp.CallToolRequest, args Args) (result *mcp.CallToolResult, _ any, _ error) {
		requestID := uuid.NewString()
		start := time.Now()

		defer func() {
			if rec := recover(); rec != nil {
				h.recordPanic(spec.Name, requestID, rec)
				metrics.RecordRequest(spec.Name, time.Since(start).Seconds(), false)
				result = errorResult(fmt.Sprintf("Unexpected error in %s: panic - %v", spec.Name, rec))
			}
		}()

		// Start trace span
		ctx, span := tracing.StartSpan(ctx, "mcp.tool."+spec.Name)
		defer span.End()

		tracing.AddToolAttributes(span, spec.Name, spec.Resource)
		span.SetAttributes(
			attribute.String("mcp.tool.category", spec.Category),
			attribute.String("mcp.request_id", requestID),
		)

		// Track in-flight requests
		metrics.RequestInFlight.WithLabelValues(spec.Name).Inc()
		defer metrics.RequestInFlight.WithLabelValues(spec.Name).Dec()

		raw, err := method(ctx, args)
		duration := time.Since(start).Seconds()

		span.SetAttributes(attribute.Float64("mcp.tool.duration_seconds", duration))

		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			metrics.RecordRequest(spec.Name, duration, false)
			h.logger.Warn("Tool failed",
				"tool", spec.Name,
				"request_id", requestID,
				"kind", apierrors.KindOf(err),
				"error", err)
			return errorResult(err.Error()), nil, nil
		}

		span.SetStatus(codes.Ok, "")
		metrics.RecordRequest(spec.Name, duration, true)
		h.logExecution(spec, requestID, args, raw)
		return &mcp.CallToolResult{
			Content: []mcp.Content{&mcp.TextContent{Text: string(raw)}},
		}, nil, nil
	})
}

// errorResult wraps a diagnostic string as a tool-level error.
func errorResult(msg string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		IsError: true,
		Content: []mcp.Content{&mcp.TextContent{Text: msg}},
	}
}

// recordPanic logs and counts a panic recovered in a tool handler.
func (h *HandlerRegistry) recordPanic(toolName, requestID string, rec any) {
	metrics.PanicsRecovered.WithLabelValues(toolName).Inc()
	h.logger.Error("Panic recovered",
		"tool", toolName,
		"request_id", requestID,
		"panic", rec,
		"stack", string(debug.Stack()))
}

// logExecution logs tool execution details.
func (h *HandlerRegistry) logExecution(spec ToolSpec, requestID string, args any, raw json.RawMessage) {
	attrs := []any{"tool", spec.Name, "request_id", requestID, "resource", spec.Resource}

	switch a := args.(type) {
	case ghost.BrowseContentArgs:
		attrs = appendBrowseAttrs(attrs, a.Filter, a.Limit, a.Page)
	case ghost.BrowseArgs:
		attrs = appendBrowseAttrs(attrs, a.Filter, a.Limit, a.Page)
	case ghost.ReadContentByIDArgs:
		attrs = append(attrs, "id", a.ID)
	case ghost.ReadContentBySlugArgs:
		attrs = append(attrs, "slug", a.Slug)
	case ghost.ReadByIDArgs:
		attrs = append(attrs, "id", a.ID)
	case ghost.ReadBySlugArgs:
		attrs = append(attrs, "slug", a.Slug)
	case ghost.BrowseSettingsArgs:
		// No args to log
	}

	if summary, err := ghost.Summarize(ghost.Resource(spec.Resource), raw); err == nil {
		attrs = append(attrs, "results_count", summary.Items)
		if summary.Pagination != nil {
			attrs = append(attrs, "total_results", summary.Pagination.Total, "pages", summary.Pagination.Pages)
		}
	}
	attrs = append(attrs, "bytes", len(raw))

	h.logger.Info("Tool executed", attrs...)
}

func appendBrowseAttrs(attrs []any, filter string, limit, page int) []any {
	if filter != "" {
		attrs = append(attrs, "filter", filter)
	}
	if limit > 0 {
		attrs = append(attrs, "limit", limit)
	}
	if page > 0 {
		attrs = append(attrs, "page", page)
	}
	return attrs
}
