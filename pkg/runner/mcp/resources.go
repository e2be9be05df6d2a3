package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

func registerResources(srv *server.MCPServer, svc *Service) {
	registerRemindersResource(srv, svc)
	registerRecordsTemplate(srv, svc)
}

func registerRemindersResource(srv *server.MCPServer, svc *Service) {
	resource := mcp.NewResource(
		"labdash://reminders",
		"Reminders",
		mcp.WithResourceDescription("Every reminder with its derived status and the status counts."),
		mcp.WithMIMEType("application/json"),
	)

	srv.AddResource(resource, func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		list, err := svc.ListReminders(ctx, "all", "")
		if err != nil {
			return nil, err
		}
		return encodeResourceJSON(request.Params.URI, list)
	})
}

func registerRecordsTemplate(srv *server.MCPServer, svc *Service) {
	template := mcp.NewResourceTemplate(
		"labdash://records/{kind}",
		"Records",
		mcp.WithTemplateDescription("Raw records of one kind: products, batches, results, qc, retains or reminders."),
		mcp.WithTemplateMIMEType("application/json"),
	)

	srv.AddResourceTemplate(template, func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		kind := templateArg(request.Params.Arguments["kind"])
		if kind == "" {
			return nil, fmt.Errorf("record kind is required")
		}
		records, err := svc.Records(ctx, kind)
		if err != nil {
			return nil, err
		}
		return encodeResourceJSON(request.Params.URI, map[string]any{
			"kind":    kind,
			"records": records,
		})
	})
}

// templateArg unwraps a URI template argument, which arrives as a string or
// a single-element list.
func templateArg(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case []string:
		if len(t) > 0 {
			return t[0]
		}
	}
	return ""
}

func encodeResourceJSON(uri string, payload any) ([]mcp.ResourceContents, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}
