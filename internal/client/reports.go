package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/mithrel/dossier/pkg/api"
)

var (
	ErrEmptyTopic      = errors.New("topic is required")
	ErrTooFewReports   = errors.New("select at least two reports to compare")
	ErrUnsupportedType = errors.New("unsupported export format (use html, markdown or pdf)")
)

// ExportFormats lists the formats the backend can generate.
var ExportFormats = []string{"html", "markdown", "pdf"}

var exportExt = map[string]string{"html": "html", "markdown": "md", "pdf": "pdf"}

func reportPath(id int64, rest ...string) string {
	p := "/api/reports/" + strconv.FormatInt(id, 10)
	for _, r := range rest {
		p += "/" + r
	}
	return p
}

type reportReply struct {
	Report api.Report `json:"report"`
}

type reportsReply struct {
	Reports []api.Report `json:"reports"`
}

// Research submits a topic and returns the generated report.
func (c *Client) Research(ctx context.Context, topic string) (api.Report, error) {
	topic = strings.TrimSpace(topic)
	if topic == "" {
		return api.Report{}, ErrEmptyTopic
	}
	var out reportReply
	err := c.do(ctx, http.MethodPost, "/api/research", map[string]string{"topic": topic}, &out)
	return out.Report, err
}

// ListReports returns the most recent reports.
func (c *Client) ListReports(ctx context.Context) ([]api.Report, error) {
	var out reportsReply
	err := c.do(ctx, http.MethodGet, "/api/reports", nil, &out)
	return out.Reports, err
}

// ListFavorites returns bookmarked reports.
func (c *Client) ListFavorites(ctx context.Context) ([]api.Report, error) {
	var out reportsReply
	err := c.do(ctx, http.MethodGet, "/api/reports/favorites", nil, &out)
	return out.Reports, err
}

// GetReport fetches one full report.
func (c *Client) GetReport(ctx context.Context, id int64) (api.Report, error) {
	var out reportReply
	err := c.do(ctx, http.MethodGet, reportPath(id), nil, &out)
	return out.Report, err
}

// DeleteReport removes a report on the backend.
func (c *Client) DeleteReport(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, reportPath(id), nil, nil)
}

// Keywords fetches the highlight terms of a report.
func (c *Client) Keywords(ctx context.Context, id int64) (api.KeywordSet, error) {
	var out api.KeywordSet
	err := c.do(ctx, http.MethodGet, reportPath(id, "keywords"), nil, &out)
	return out, err
}

// ToggleFavorite flips the bookmark and returns the new state.
func (c *Client) ToggleFavorite(ctx context.Context, id int64) (bool, error) {
	var out struct {
		IsFavorite bool `json:"is_favorite"`
	}
	err := c.do(ctx, http.MethodPost, reportPath(id, "favorite"), nil, &out)
	return out.IsFavorite, err
}

// Versions lists stored revisions of a report.
func (c *Client) Versions(ctx context.Context, id int64) ([]api.Version, error) {
	var out struct {
		Versions []api.Version `json:"versions"`
	}
	err := c.do(ctx, http.MethodGet, reportPath(id, "versions"), nil, &out)
	return out.Versions, err
}

// Version fetches one revision.
func (c *Client) Version(ctx context.Context, versionID int64) (api.Version, error) {
	var out struct {
		Version api.Version `json:"version"`
	}
	err := c.do(ctx, http.MethodGet, "/api/versions/"+strconv.FormatInt(versionID, 10), nil, &out)
	return out.Version, err
}

// Restore replaces the report content with a stored revision.
func (c *Client) Restore(ctx context.Context, id, versionID int64) error {
	return c.do(ctx, http.MethodPost, reportPath(id, "restore", strconv.FormatInt(versionID, 10)), nil, nil)
}

// Search queries reports by topic or title. A blank query returns no
// results without contacting the backend, which rejects empty queries.
func (c *Client) Search(ctx context.Context, query string) ([]api.Report, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, nil
	}
	var out reportsReply
	err := c.do(ctx, http.MethodGet, "/api/search?q="+url.QueryEscape(query), nil, &out)
	return out.Reports, err
}

// Compare builds a side-by-side comparison of at least two reports.
func (c *Client) Compare(ctx context.Context, ids []int64) (api.Comparison, error) {
	if len(ids) < 2 {
		return api.Comparison{}, ErrTooFewReports
	}
	var out struct {
		Comparison api.Comparison `json:"comparison"`
	}
	err := c.do(ctx, http.MethodPost, "/api/compare", map[string][]int64{"report_ids": ids}, &out)
	return out.Comparison, err
}

// Health pings the backend liveness endpoint.
func (c *Client) Health(ctx context.Context) (api.Health, error) {
	var out api.Health
	err := c.do(ctx, http.MethodGet, "/health", nil, &out)
	return out, err
}

// Download is a streamed export file. The caller must close Body.
type Download struct {
	Filename    string
	ContentType string
	Body        io.ReadCloser
}

// Export streams a generated file of the given format.
func (c *Client) Export(ctx context.Context, id int64, format string) (*Download, error) {
	format = strings.ToLower(strings.TrimSpace(format))
	ext, ok := exportExt[format]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedType, format)
	}
	resp, err := c.send(ctx, http.MethodGet, "/api/export/"+strconv.FormatInt(id, 10)+"/"+format, nil)
	if err != nil {
		return nil, err
	}
	name := fmt.Sprintf("report_%d.%s", id, ext)
	if cd := resp.Header.Get("Content-Disposition"); cd != "" {
		if _, params, err := mime.ParseMediaType(cd); err == nil && params["filename"] != "" {
			name = params["filename"]
		}
	}
	return &Download{
		Filename:    name,
		ContentType: resp.Header.Get("Content-Type"),
		Body:        resp.Body,
	}, nil
}

// analyticsReply keeps each section raw so one malformed section does not
// discard the rest.
type analyticsReply struct {
	Analytics struct {
		Statistics json.RawMessage `json:"statistics"`
		WordCloud  json.RawMessage `json:"word_cloud"`
		Topics     json.RawMessage `json:"topics"`
		TopSources json.RawMessage `json:"top_sources"`
		Trends     json.RawMessage `json:"trends"`
	} `json:"analytics"`
}

// Analytics fetches the dashboard payload. Missing or malformed sections
// decode as empty.
func (c *Client) Analytics(ctx context.Context) (api.Analytics, error) {
	var raw analyticsReply
	if err := c.do(ctx, http.MethodGet, "/api/analytics", nil, &raw); err != nil {
		return api.Analytics{}, err
	}
	var out api.Analytics
	decodeSection(c.log, "statistics", raw.Analytics.Statistics, &out.Statistics)
	decodeSection(c.log, "word_cloud", raw.Analytics.WordCloud, &out.WordCloud)
	decodeSection(c.log, "topics", raw.Analytics.Topics, &out.Topics)
	decodeSection(c.log, "top_sources", raw.Analytics.TopSources, &out.TopSources)
	decodeSection(c.log, "trends", raw.Analytics.Trends, &out.Trends)
	return out, nil
}

// decodeSection leaves dst untouched unless raw decodes completely.
func decodeSection[T any](log logrus.FieldLogger, name string, raw json.RawMessage, dst *T) {
	if len(raw) == 0 || string(raw) == "null" {
		return
	}
	var v T
	if err := json.Unmarshal(raw, &v); err != nil {
		log.WithField("section", name).WithError(err).Warn("analytics: ignoring malformed section")
		return
	}
	*dst = v
}
