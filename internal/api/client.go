// Package api is the HTTP client for the GreenLoan analyzer backend.
//
// Two endpoints matter to this layer: POST /api/analyze (submit a PDF,
// receive one AnalysisReport) and GET /api/page/{doc_id}/{page_no}
// (fetch one rendered page image). GET /api/reports/{doc_id} reopens a
// previously stored report. Transport details stay inside this package;
// callers see reports, image bytes, and a small error taxonomy.
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/hashicorp/go-hclog"

	"pvreview/internal/report"
)

// Client talks to one analyzer backend.
type Client struct {
	http   *resty.Client
	logger hclog.Logger
}

// NewClient builds a client for the given base endpoint, e.g.
// "http://localhost:8000".
func NewClient(base string, timeout time.Duration, logger hclog.Logger) *Client {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	httpClient := resty.New().
		SetBaseURL(strings.TrimRight(base, "/")).
		SetTimeout(timeout).
		SetLogger(newHclogAdapter(logger))
	return &Client{http: httpClient, logger: logger}
}

// UpstreamError is a non-success analyzer response. The body is a
// plain-text message meant to be shown to the user verbatim.
type UpstreamError struct {
	Status  int
	Message string
}

func (e *UpstreamError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("analyzer returned status %d", e.Status)
}

// Analyze submits a PDF and returns the resulting report. A non-2xx
// response becomes an *UpstreamError carrying the response body.
func (c *Client) Analyze(ctx context.Context, path string) (*report.AnalysisReport, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	c.logger.Info("submitting document", "file", filepath.Base(path))
	resp, err := c.http.R().
		SetContext(ctx).
		SetFileReader("file", filepath.Base(path), f).
		Post("/api/analyze")
	if err != nil {
		return nil, fmt.Errorf("submit %s: %w", filepath.Base(path), err)
	}
	return c.decodeReport(resp)
}

// Report fetches a previously stored report by document id.
func (c *Client) Report(ctx context.Context, docID string) (*report.AnalysisReport, error) {
	resp, err := c.http.R().
		SetContext(ctx).
		Get("/api/reports/" + docID)
	if err != nil {
		return nil, fmt.Errorf("fetch report %s: %w", docID, err)
	}
	return c.decodeReport(resp)
}

// decodeReport turns an analyzer response into a report or an error.
func (c *Client) decodeReport(resp *resty.Response) (*report.AnalysisReport, error) {
	if !resp.IsSuccess() {
		return nil, &UpstreamError{
			Status:  resp.StatusCode(),
			Message: strings.TrimSpace(string(resp.Body())),
		}
	}
	var r report.AnalysisReport
	if err := json.Unmarshal(resp.Body(), &r); err != nil {
		return nil, fmt.Errorf("decode report: %w", err)
	}
	c.logger.Info("report loaded",
		"doc_id", r.Document.DocID,
		"pages", r.Document.Pages,
		"facts", len(r.Facts),
		"flags", len(r.RedFlags))
	return &r, nil
}

// ---------------------------------------------------------------------------
// resty logging adapter
// ---------------------------------------------------------------------------

// hclogAdapter forwards resty's log messages to an hclog.Logger.
type hclogAdapter struct {
	logger hclog.Logger
}

func newHclogAdapter(logger hclog.Logger) resty.Logger {
	return &hclogAdapter{logger: logger}
}

func (a *hclogAdapter) Errorf(format string, v ...interface{}) {
	a.logger.Error(fmt.Sprintf(format, v...))
}

func (a *hclogAdapter) Warnf(format string, v ...interface{}) {
	a.logger.Warn(fmt.Sprintf(format, v...))
}

func (a *hclogAdapter) Debugf(format string, v ...interface{}) {
	a.logger.Debug(fmt.Sprintf(format, v...))
}
