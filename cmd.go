package main

import (
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/olgasafonova/ghost-content-mcp-server/tools"
	"github.com/spf13/cobra"
)

// serveOptions holds the flags of the serve command.
type serveOptions struct {
	transport       string
	addr            string
	credentialsFile string
	logLevel        string
	logFile         string
	authToken       string
	allowedOrigins  []string
	rateLimit       int
	maxBodySize     int64
}

func newRootCmd() *cobra.Command {
	opts := &serveOptions{}

	root := &cobra.Command{
		Use:           ServerName,
		Short:         "MCP server for the Ghost Content API",
		Long:          "Expose a Ghost site's Content API (posts, pages, authors, tags, tiers, settings) as read-only MCP tools.",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd, opts)
		},
	}
	addServeFlags(root, opts)

	serve := &cobra.Command{
		Use:   "serve",
		Short: "Run the MCP server (default command)",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd, opts)
		},
	}
	addServeFlags(serve, opts)

	root.AddCommand(serve, newToolsCmd(), newVersionCmd())
	return root
}

func addServeFlags(cmd *cobra.Command, opts *serveOptions) {
	f := cmd.Flags()
	f.StringVar(&opts.transport, "transport", "stdio", "transport to serve on: stdio or http")
	f.StringVar(&opts.addr, "addr", ":8080", "listen address for the http transport")
	f.StringVar(&opts.credentialsFile, "credentials-file", "", "YAML file with GHOST_ADMIN_DOMAIN, GHOST_CONTENT_API_KEY, GHOST_API_VERSION; environment variables take precedence")
	f.StringVar(&opts.logLevel, "log-level", "info", "log level: debug, info, warn, error")
	f.StringVar(&opts.logFile, "log-file", "", "also write logs to this file, rotated by size")
	f.StringVar(&opts.authToken, "auth-token", os.Getenv("MCP_AUTH_TOKEN"), "bearer token required by the http transport (default $MCP_AUTH_TOKEN)")
	f.StringSliceVar(&opts.allowedOrigins, "allowed-origins", nil, "Origin headers accepted by the http transport (default: any)")
	f.IntVar(&opts.rateLimit, "rate-limit", 60, "http requests per minute per client IP, 0 disables")
	f.Int64Var(&opts.maxBodySize, "max-body-size", 1<<20, "maximum http request body in bytes")
}

func newToolsCmd() *cobra.Command {
	var resource string
	cmd := &cobra.Command{
		Use:   "tools",
		Short: "List the tools this server provides",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			specs := tools.AllTools
			if resource != "" {
				specs = tools.ToolsByResource(resource)
				if len(specs) == 0 {
					return fmt.Errorf("no tools for resource %q", resource)
				}
			}
			return printTools(cmd.OutOrStdout(), specs)
		},
	}
	cmd.Flags().StringVar(&resource, "resource", "", "only list tools for this resource (posts, pages, authors, tags, tiers, settings)")
	return cmd
}

func printTools(w io.Writer, specs []tools.ToolSpec) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tPATH\tTITLE")
	for _, spec := range specs {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", spec.Name, spec.Path, spec.Title)
	}
	return tw.Flush()
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the server version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", ServerName, ServerVersion)
		},
	}
}
