package script

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"google.golang.org/api/option"
	script "google.golang.org/api/script/v1"

	"github.com/teemow/scriptsync/internal/google"
	"github.com/teemow/scriptsync/internal/instrumentation"
)

// Client wraps the Apps Script API service for one project.
type Client struct {
	service  *script.Service
	scriptID string
	metrics  *instrumentation.Metrics
}

// NewClient creates a client for scriptID. Options are passed to the
// underlying API service, e.g. option.WithHTTPClient.
func NewClient(ctx context.Context, scriptID string, opts ...option.ClientOption) (*Client, error) {
	if scriptID == "" {
		return nil, fmt.Errorf("script ID is required")
	}

	service, err := script.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create Apps Script service: %w", err)
	}

	return &Client{
		service:  service,
		scriptID: scriptID,
	}, nil
}

// NewClientWithProvider creates a client authenticated by provider.
func NewClientWithProvider(ctx context.Context, scriptID string, provider google.TokenProvider) (*Client, error) {
	ts, err := provider.TokenSource(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get token source: %w", err)
	}

	return NewClient(ctx, scriptID, option.WithHTTPClient(google.NewHTTPClient(ctx, ts)))
}

// SetMetrics enables metric and span recording for API calls.
func (c *Client) SetMetrics(m *instrumentation.Metrics) {
	c.metrics = m
}

// ScriptID returns the project this client operates on.
func (c *Client) ScriptID() string {
	return c.scriptID
}

// Files returns the project's current file list.
func (c *Client) Files(ctx context.Context) ([]*script.File, error) {
	return c.files(ctx, c.spanAttrs().Build())
}

func (c *Client) spanAttrs() *instrumentation.SpanAttributeBuilder {
	return instrumentation.NewSpanAttributeBuilder().WithScriptID(c.scriptID)
}

func (c *Client) files(ctx context.Context, attrs []attribute.KeyValue) ([]*script.File, error) {
	var content *script.Content

	err := c.metrics.ObserveGoogleAPI(ctx, instrumentation.ServiceScript, instrumentation.OperationGetContent,
		func(ctx context.Context) error {
			var err error
			content, err = c.service.Projects.GetContent(c.scriptID).Context(ctx).Do()
			return err
		}, attrs...)
	if err != nil {
		return nil, fmt.Errorf("failed to get project content: %w", err)
	}

	return content.Files, nil
}

// UpsertFile writes source as the logical file name into the project,
// replacing the existing entry of the same name and kind or adding one.
func (c *Client) UpsertFile(ctx context.Context, name, source string) (*UpsertResult, error) {
	attrs := c.spanAttrs().WithFile(name).Build()

	files, err := c.files(ctx, attrs)
	if err != nil {
		return nil, err
	}

	remoteName, kind := RemoteName(name)
	files, replaced := Upsert(files, remoteName, kind, source)

	err = c.metrics.ObserveGoogleAPI(ctx, instrumentation.ServiceScript, instrumentation.OperationUpdateContent,
		func(ctx context.Context) error {
			_, err := c.service.Projects.UpdateContent(c.scriptID, &script.Content{Files: files}).Context(ctx).Do()
			return err
		}, attrs...)
	if err != nil {
		return nil, fmt.Errorf("failed to update project content: %w", err)
	}

	return &UpsertResult{
		Name:      remoteName,
		Kind:      kind,
		Replaced:  replaced,
		FileCount: len(files),
		Size:      len(source),
	}, nil
}

// Project returns the project metadata.
func (c *Client) Project(ctx context.Context) (*ProjectInfo, error) {
	var project *script.Project

	err := c.metrics.ObserveGoogleAPI(ctx, instrumentation.ServiceScript, instrumentation.OperationGet,
		func(ctx context.Context) error {
			var err error
			project, err = c.service.Projects.Get(c.scriptID).Context(ctx).Do()
			return err
		}, c.spanAttrs().Build()...)
	if err != nil {
		return nil, fmt.Errorf("failed to get project: %w", err)
	}

	return convertToProjectInfo(project), nil
}

func convertToProjectInfo(p *script.Project) *ProjectInfo {
	info := &ProjectInfo{
		ScriptID: p.ScriptId,
		Title:    p.Title,
		ParentID: p.ParentId,
	}

	if p.CreateTime != "" {
		if t, err := time.Parse(time.RFC3339, p.CreateTime); err == nil {
			info.CreateTime = t
		}
	}
	if p.UpdateTime != "" {
		if t, err := time.Parse(time.RFC3339, p.UpdateTime); err == nil {
			info.UpdateTime = t
		}
	}

	return info
}
