/*
Copyright © 2025 Joseph Goksu josephgoksu@gmail.com
*/
package cmd

import (
	"context"
	"fmt"
	"os"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	mcppresenter "github.com/josephgoksu/veritas/internal/mcp"
	"github.com/josephgoksu/veritas/internal/telemetry"
)

// mcpCmd represents the mcp command
var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start MCP server for AI tool integration",
	Long: `Start a Model Context Protocol (MCP) server so AI assistants can verify
stories through veritas.

Tools:
- verify_news: fake-news, style and impersonation analysis of a story
- web_verify: web and fact-check evidence for a claim
- history: list, show or clear past editions

The server speaks JSON-RPC on stdio and runs until the client disconnects.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runMCPServer(cmd.Context())
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}

// mcpMarkdownResponse wraps Markdown content in an MCP tool result.
func mcpMarkdownResponse(markdown string) (*mcpsdk.CallToolResultFor[any], error) {
	return &mcpsdk.CallToolResultFor[any]{
		Content: []mcpsdk.Content{&mcpsdk.TextContent{Text: markdown}},
	}, nil
}

// mcpFormattedErrorResponse wraps pre-formatted error text with IsError=true.
// Tool errors go in the result, not the protocol, so the client can see them
// and correct its input.
func mcpFormattedErrorResponse(formattedError string) (*mcpsdk.CallToolResultFor[any], error) {
	return &mcpsdk.CallToolResultFor[any]{
		Content: []mcpsdk.Content{&mcpsdk.TextContent{Text: formattedError}},
		IsError: true,
	}, nil
}

// mcpErrorResponse wraps an error in an MCP tool result with IsError=true.
func mcpErrorResponse(err error) (*mcpsdk.CallToolResultFor[any], error) {
	return mcpFormattedErrorResponse(mcppresenter.FormatError(err.Error()))
}

// toolResponse converts a handler outcome into an MCP result.
func toolResponse(result *mcppresenter.ToolResult, err error) (*mcpsdk.CallToolResultFor[any], error) {
	if err != nil {
		return mcpErrorResponse(err)
	}
	if result.Error != "" {
		return mcpFormattedErrorResponse(result.Error)
	}
	return mcpMarkdownResponse(result.Content)
}

func runMCPServer(ctx context.Context) error {
	// NOTE: MCP uses stdio transport. stdout MUST be pure JSON-RPC.
	// All status/debug output goes to stderr only.
	fmt.Fprintln(os.Stderr, "Veritas MCP Server starting...")

	d, err := openDesk(ctx)
	if err != nil {
		return fmt.Errorf("open desk: %w", err)
	}
	defer d.Close()
	telemetry.TrackCommand(d.telemetry, "mcp")

	server := newMCPServer(mcppresenter.NewHandlers(d.detector, d.history))
	if err := server.Run(ctx, mcpsdk.NewStdioTransport()); err != nil && ctx.Err() == nil {
		return fmt.Errorf("mcp server: %w", err)
	}
	return nil
}

// newMCPServer registers the veritas tools on a fresh server.
func newMCPServer(h *mcppresenter.Handlers) *mcpsdk.Server {
	impl := &mcpsdk.Implementation{
		Name:    "veritas-mcp",
		Version: version,
	}
	serverOpts := &mcpsdk.ServerOptions{
		InitializedHandler: func(ctx context.Context, session *mcpsdk.ServerSession, params *mcpsdk.InitializedParams) {
			fmt.Fprintf(os.Stderr, "✓ MCP connection established\n")
			if viper.GetBool("verbose") {
				fmt.Fprintf(os.Stderr, "[DEBUG] Client initialized\n")
			}
		},
	}
	server := mcpsdk.NewServer(impl, serverOpts)

	mcpsdk.AddTool(server, &mcpsdk.Tool{
		Name: "verify_news",
		Description: `Classify a news story. Returns the fake-news verdict with confidence, the predicted writing style (publication) and whether the story impersonates its claimed source.
Use {"text": "...", "claimed_source": "TECH"}. claimed_source is optional; UNKNOWN disables the impersonation check. The result is saved to history.`,
	}, func(ctx context.Context, session *mcpsdk.ServerSession, params *mcpsdk.CallToolParamsFor[mcppresenter.VerifyNewsParams]) (*mcpsdk.CallToolResultFor[any], error) {
		return toolResponse(h.VerifyNews(ctx, params.Arguments))
	})

	mcpsdk.AddTool(server, &mcpsdk.Tool{
		Name:        "web_verify",
		Description: `Search the web and fact-checkers for evidence about a claim. Returns a verdict, sources and fact checks. Use {"text": "..."}. Not saved to history.`,
	}, func(ctx context.Context, session *mcpsdk.ServerSession, params *mcpsdk.CallToolParamsFor[mcppresenter.WebVerifyParams]) (*mcpsdk.CallToolResultFor[any], error) {
		return toolResponse(h.WebVerify(ctx, params.Arguments))
	})

	mcpsdk.AddTool(server, &mcpsdk.Tool{
		Name: "history",
		Description: `Past editions (the last ten analyses). Use action parameter to select operation:
- list: newest first (default)
- show: full report for {"id": "<id or unique prefix>"}
- clear: delete all past editions`,
	}, func(ctx context.Context, session *mcpsdk.ServerSession, params *mcpsdk.CallToolParamsFor[mcppresenter.HistoryParams]) (*mcpsdk.CallToolResultFor[any], error) {
		return toolResponse(h.History(ctx, params.Arguments))
	})

	return server
}
