package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"gestionale/internal/core"
)

const maxRequestBody = 1 << 20 // 1 MiB

// decodeJSON decodes a request body into dst, rejecting unknown fields
// and trailing garbage.
func decodeJSON(r *http.Request, dst any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxRequestBody))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return fmt.Errorf("invalid request body: %w", err)
	}
	if dec.More() {
		return errors.New("invalid request body: trailing data")
	}
	return nil
}

// decodePatch decodes a sparse update payload. Unknown columns are
// caught later by the per-entity patch validation, not here.
func decodePatch(r *http.Request) (core.Patch, error) {
	var patch core.Patch
	dec := json.NewDecoder(io.LimitReader(r.Body, maxRequestBody))
	if err := dec.Decode(&patch); err != nil {
		return nil, fmt.Errorf("invalid request body: %w", err)
	}
	return patch, nil
}

// ListQuery carries the query parameters common to the list endpoints.
// Area and the drill-down ids narrow the store read; the remaining
// fields filter the returned snapshot in memory.
type ListQuery struct {
	Area      core.Area
	ClientID  string
	ProjectID string
	From      core.Date
	To        core.Date

	Search   string
	Status   string
	Category string
	Priority string
	Assignee string
	Year     int
	Month    int
}

// parseListQuery reads the list parameters from the URL. An invalid
// area or malformed date is a client error; unknown parameters are
// ignored.
func parseListQuery(r *http.Request) (ListQuery, error) {
	q := r.URL.Query()
	lq := ListQuery{
		ClientID:  strings.TrimSpace(q.Get("client_id")),
		ProjectID: strings.TrimSpace(q.Get("project_id")),
		Search:    q.Get("q"),
		Status:    strings.TrimSpace(q.Get("status")),
		Category:  strings.TrimSpace(q.Get("category")),
		Priority:  strings.TrimSpace(q.Get("priority")),
		Assignee:  strings.TrimSpace(q.Get("assignee")),
	}

	if v := strings.TrimSpace(q.Get("area")); v != "" {
		area := core.Area(v)
		if !area.Valid() {
			return ListQuery{}, fmt.Errorf("invalid area %q", v)
		}
		lq.Area = area
	}

	if v := strings.TrimSpace(q.Get("from")); v != "" {
		d, err := core.ParseDate(v)
		if err != nil {
			return ListQuery{}, fmt.Errorf("invalid from date %q", v)
		}
		lq.From = d
	}
	if v := strings.TrimSpace(q.Get("to")); v != "" {
		d, err := core.ParseDate(v)
		if err != nil {
			return ListQuery{}, fmt.Errorf("invalid to date %q", v)
		}
		lq.To = d
	}
	if (lq.From.IsZero()) != (lq.To.IsZero()) {
		return ListQuery{}, errors.New("from and to must be provided together")
	}

	// month=YYYY-MM
	if v := strings.TrimSpace(q.Get("month")); v != "" {
		parts := strings.SplitN(v, "-", 2)
		if len(parts) != 2 {
			return ListQuery{}, fmt.Errorf("invalid month %q, expected YYYY-MM", v)
		}
		year, err1 := strconv.Atoi(parts[0])
		month, err2 := strconv.Atoi(parts[1])
		if err1 != nil || err2 != nil || month < 1 || month > 12 {
			return ListQuery{}, fmt.Errorf("invalid month %q, expected YYYY-MM", v)
		}
		lq.Year, lq.Month = year, month
	}

	return lq, nil
}

// scopeKey identifies the view snapshot a list request reads from.
// Only the parameters that change the store read participate.
func (lq ListQuery) scopeKey() string {
	switch {
	case lq.ClientID != "":
		return "client:" + lq.ClientID
	case lq.ProjectID != "":
		return "project:" + lq.ProjectID
	case !lq.From.IsZero():
		return "range:" + lq.From.String() + ":" + lq.To.String()
	case lq.Area != "":
		return "area:" + string(lq.Area)
	default:
		return ""
	}
}
