// Package mcptools exposes the facility to MCP clients as tools.
package mcptools

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/atlanticdynamic/parklynx/internal/lot"
	"github.com/atlanticdynamic/parklynx/internal/server/facility"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// Tool names
const (
	ToolEnter  = "enter_vehicle"
	ToolExit   = "exit_vehicle"
	ToolStatus = "facility_status"
)

// Facility is the part of facility.Runner the tools call.
type Facility interface {
	Enter(ctx context.Context, subscriber bool) (*facility.Operation, error)
	Exit(ctx context.Context, slot *int) (*facility.Operation, error)
	Snapshot() lot.Snapshot
}

// EnterInput is the argument of enter_vehicle.
type EnterInput struct {
	Subscriber bool `json:"subscriber,omitempty" jsonschema:"true for a subscriber, who parks for free"`
}

// ExitInput is the argument of exit_vehicle.
type ExitInput struct {
	Slot *int `json:"slot,omitempty" jsonschema:"slot index to release; a random occupied slot when omitted"`
}

// StatusInput is the (empty) argument of facility_status.
type StatusInput struct{}

// OperationOutput is returned by enter_vehicle and exit_vehicle.
type OperationOutput struct {
	Operation facility.View `json:"operation"`
	Snapshot  lot.Snapshot  `json:"snapshot"`
}

// NewServer builds an MCP server with the facility tools registered.
func NewServer(f Facility, version string, logger *slog.Logger) *mcp.Server {
	if logger == nil {
		logger = slog.Default().WithGroup("mcptools")
	}
	t := &tools{facility: f, logger: logger}

	server := mcp.NewServer(&mcp.Implementation{Name: "parklynx", Version: version}, nil)
	mcp.AddTool(server, &mcp.Tool{
		Name:        ToolEnter,
		Description: "Admit one vehicle into the parking facility. Refused when the facility is full.",
	}, t.enter)
	mcp.AddTool(server, &mcp.Tool{
		Name:        ToolExit,
		Description: "Let one parked vehicle out. Visitors are charged by the tariff, subscribers leave for free.",
	}, t.exit)
	mcp.AddTool(server, &mcp.Tool{
		Name:        ToolStatus,
		Description: "Report free slots, revenue, counters, occupied slots and the recent state history.",
	}, t.status)
	return server
}

// NewHandler serves server over the streamable HTTP transport.
func NewHandler(server *mcp.Server) http.Handler {
	return mcp.NewStreamableHTTPHandler(func(*http.Request) *mcp.Server {
		return server
	}, nil)
}

type tools struct {
	facility Facility
	logger   *slog.Logger
}

func (t *tools) enter(ctx context.Context, _ *mcp.CallToolRequest, in EnterInput) (*mcp.CallToolResult, any, error) {
	op, err := t.facility.Enter(ctx, in.Subscriber)
	return t.operationResult(ToolEnter, op, err)
}

func (t *tools) exit(ctx context.Context, _ *mcp.CallToolRequest, in ExitInput) (*mcp.CallToolResult, any, error) {
	op, err := t.facility.Exit(ctx, in.Slot)
	return t.operationResult(ToolExit, op, err)
}

func (t *tools) status(_ context.Context, _ *mcp.CallToolRequest, _ StatusInput) (*mcp.CallToolResult, any, error) {
	return textResult(t.facility.Snapshot(), false), nil, nil
}

// operationResult reports refusals and failures as tool errors so that the
// caller sees the reason. Results are JSON text only, no output schema.
func (t *tools) operationResult(tool string, op *facility.Operation, err error) (*mcp.CallToolResult, any, error) {
	if op == nil {
		t.logger.Warn("Tool call rejected", "tool", tool, "error", err)
		return nil, nil, err
	}

	out := OperationOutput{Operation: op.View(), Snapshot: t.facility.Snapshot()}
	if err != nil {
		t.logger.Info("Tool call refused", "tool", tool, "error", err)
		res := textResult(out, true)
		res.Content = append([]mcp.Content{&mcp.TextContent{Text: err.Error()}}, res.Content...)
		return res, nil, nil
	}
	return textResult(out, false), nil, nil
}

func textResult(v any, isError bool) *mcp.CallToolResult {
	data, err := json.Marshal(v)
	if err != nil {
		data = fmt.Appendf(nil, "%v", v)
	}
	return &mcp.CallToolResult{
		IsError: isError,
		Content: []mcp.Content{&mcp.TextContent{Text: string(data)}},
	}
}
