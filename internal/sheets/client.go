package sheets

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	sheets "google.golang.org/api/sheets/v4"

	"github.com/teemow/scriptsync/internal/google"
	"github.com/teemow/scriptsync/internal/instrumentation"
)

// ErrAccessDenied is returned when the credentials may not read the spreadsheet.
var ErrAccessDenied = errors.New("no access to spreadsheet")

// Client wraps the Google Sheets API service
type Client struct {
	service *sheets.Service
	metrics *instrumentation.Metrics
}

// NewClient creates a Sheets client. Options are passed to the API service.
func NewClient(ctx context.Context, opts ...option.ClientOption) (*Client, error) {
	service, err := sheets.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create Sheets service: %w", err)
	}
	return &Client{service: service}, nil
}

// NewClientWithProvider creates a Sheets client authenticated by provider.
func NewClientWithProvider(ctx context.Context, provider google.TokenProvider) (*Client, error) {
	ts, err := provider.TokenSource(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get token source: %w", err)
	}
	return NewClient(ctx, option.WithHTTPClient(google.NewHTTPClient(ctx, ts)))
}

// SetMetrics enables metric and span recording for API calls.
func (c *Client) SetMetrics(m *instrumentation.Metrics) {
	c.metrics = m
}

// Spreadsheet returns the title and sheets of spreadsheetID.
func (c *Client) Spreadsheet(ctx context.Context, spreadsheetID string) (*SpreadsheetInfo, error) {
	if spreadsheetID == "" {
		return nil, fmt.Errorf("spreadsheet ID is required")
	}

	var ss *sheets.Spreadsheet
	err := c.metrics.ObserveGoogleAPI(ctx, instrumentation.ServiceSheets, instrumentation.OperationGet,
		func(ctx context.Context) error {
			var err error
			ss, err = c.service.Spreadsheets.Get(spreadsheetID).
				Fields("spreadsheetId", "properties.title", "sheets.properties(sheetId,title,index)").
				Context(ctx).
				Do()
			return err
		})
	if err != nil {
		var apiErr *googleapi.Error
		if errors.As(err, &apiErr) && apiErr.Code == http.StatusForbidden {
			return nil, fmt.Errorf("%w %s: %w", ErrAccessDenied, spreadsheetID, err)
		}
		return nil, fmt.Errorf("failed to get spreadsheet: %w", err)
	}

	return convertToSpreadsheetInfo(spreadsheetID, ss), nil
}

func convertToSpreadsheetInfo(id string, ss *sheets.Spreadsheet) *SpreadsheetInfo {
	info := &SpreadsheetInfo{ID: id}
	if ss.SpreadsheetId != "" {
		info.ID = ss.SpreadsheetId
	}
	if ss.Properties != nil {
		info.Title = ss.Properties.Title
	}

	for _, sh := range ss.Sheets {
		if sh == nil || sh.Properties == nil {
			continue
		}
		info.Sheets = append(info.Sheets, SheetInfo{
			ID:    sh.Properties.SheetId,
			Title: sh.Properties.Title,
			Index: sh.Properties.Index,
		})
	}

	return info
}
