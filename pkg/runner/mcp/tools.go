package mcp

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"tableflip.dev/labdash/pkg/app"
	"tableflip.dev/labdash/pkg/offset"
)

func registerTools(srv *server.MCPServer, svc *Service) {
	registerSearchRecordsTool(srv, svc)
	registerListRemindersTool(srv, svc)
	registerListQcLogsTool(srv, svc)
	registerResolveOffsetTool(srv, svc)
	registerCreateReminderTool(srv, svc)
}

func registerSearchRecordsTool(srv *server.MCPServer, svc *Service) {
	tool := mcp.NewTool(
		"search_records",
		mcp.WithDescription("Search QC logs, retains and testing results by batch number or product code. "+
			"Returns at most 10 suggestions, QC logs first."),
		mcp.WithString("query",
			mcp.Required(),
			mcp.Description("Search text; at least two characters."),
		),
	)

	srv.AddTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		query, err := request.RequireString("query")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		res, err := svc.Search(ctx, query)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return toJSONResult(res)
	})
}

func registerListRemindersTool(srv *server.MCPServer, svc *Service) {
	tool := mcp.NewTool(
		"list_reminders",
		mcp.WithDescription("List inspection reminders classified as overdue, due today or upcoming, soonest first."),
		mcp.WithString("status",
			mcp.Description("Only return reminders with this status."),
			mcp.Enum("all", "overdue", "due_today", "upcoming"),
		),
		mcp.WithString("search",
			mcp.Description("Optional batch, interval type or reminder id filter."),
		),
	)

	srv.AddTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		list, err := svc.ListReminders(ctx, request.GetString("status", "all"), request.GetString("search", ""))
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return toJSONResult(list)
	})
}

func registerListQcLogsTool(srv *server.MCPServer, svc *Service) {
	tool := mcp.NewTool(
		"list_qc_logs",
		mcp.WithDescription("List QC batch releases, newest first, with product names resolved."),
		mcp.WithString("search",
			mcp.Description("Optional batch or product code filter."),
		),
		mcp.WithString("released_by",
			mcp.Description("Only return releases signed off by this person."),
		),
	)

	srv.AddTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		list, err := svc.ListQcLogs(ctx, request.GetString("search", ""), request.GetString("released_by", ""))
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return toJSONResult(list)
	})
}

func scheduleArgs(request mcp.CallToolRequest) offset.Request {
	req := offset.Request{
		Mode:       offset.Mode(strings.TrimSpace(request.GetString("mode", ""))),
		TargetDate: request.GetString("date", ""),
	}
	args := request.GetArguments()
	if _, ok := args["days"]; ok {
		days := request.GetInt("days", 0)
		req.DayOffset = &days
	}
	return req
}

func registerResolveOffsetTool(srv *server.MCPServer, svc *Service) {
	tool := mcp.NewTool(
		"resolve_offset",
		mcp.WithDescription("Resolve a reminder schedule to a day offset and due date relative to today."),
		mcp.WithString("mode",
			mcp.Description("Which input drives the schedule. Inferred from the other arguments when omitted."),
			mcp.Enum("offset", "target-date"),
		),
		mcp.WithNumber("days",
			mcp.Description("Days from today; negative for the past."),
		),
		mcp.WithString("date",
			mcp.Description("Target date such as 2024-06-20 or 6/20/2024."),
		),
	)

	srv.AddTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		dto, err := svc.ResolveOffset(scheduleArgs(request))
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return toJSONResult(dto)
	})
}

func registerCreateReminderTool(srv *server.MCPServer, svc *Service) {
	tool := mcp.NewTool(
		"create_reminder",
		mcp.WithDescription(fmt.Sprintf("Schedule an inspection reminder for a batch. Due in %d days unless days or date is given.",
			app.DefaultReminderDays)),
		mcp.WithString("batch",
			mcp.Required(),
			mcp.Description("Batch number the reminder is for."),
		),
		mcp.WithString("interval_type",
			mcp.Required(),
			mcp.Description("Inspection interval, for example weekly or monthly."),
		),
		mcp.WithString("mode",
			mcp.Enum("offset", "target-date"),
		),
		mcp.WithNumber("days",
			mcp.Description("Days from today."),
		),
		mcp.WithString("date",
			mcp.Description("Due date."),
		),
	)

	srv.AddTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		batch, err := request.RequireString("batch")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		interval, err := request.RequireString("interval_type")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		r, err := svc.AddReminder(ctx, app.ReminderInput{
			Batch:        batch,
			IntervalType: interval,
			Schedule:     scheduleArgs(request),
		})
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return toJSONResult(r)
	})
}

func toJSONResult(data any) (*mcp.CallToolResult, error) {
	result, err := mcp.NewToolResultJSON(data)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("marshal error: %v", err)), nil
	}
	return result, nil
}
