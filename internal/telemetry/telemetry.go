// internal/telemetry/telemetry.go
//
// Client render-error reports.
//
// Context
// -------
// The audio editor posts a report whenever its renderer fails.  The
// report travels entirely in request headers, one header per field, and
// every field is optional:
//
//	error_message        free text       default "-2"
//	case_category        integer         default -2
//	js_heap_size_limit   integer         default -2
//	used_js_heap_size    integer         default -2
//	total_js_heap_size   integer         default -2
//
// Browsers without `performance.memory` send "-1" for the heap fields.
// That is an ordinary integer and is stored as is.
//
// A value that is present but not an integer is a malformed report.
// Policy decides what happens: Reject fails the parse with a
// *MalformedFieldError, Default stores the sentinel instead.
package telemetry

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/audiocat/site/internal/model"
)

// Header names carrying the report fields.
const (
	HeaderMessage         = "error_message"
	HeaderCaseCategory    = "case_category"
	HeaderJSHeapSizeLimit = "js_heap_size_limit"
	HeaderUsedJSHeapSize  = "used_js_heap_size"
	HeaderTotalJSHeapSize = "total_js_heap_size"
)

// Policy selects how malformed integer fields are treated.
type Policy string

const (
	Reject  Policy = "reject"
	Default Policy = "default"
)

// ErrMalformedField matches every *MalformedFieldError via errors.Is.
var ErrMalformedField = errors.New("telemetry: malformed field")

// MalformedFieldError names the header whose value failed to parse.
type MalformedFieldError struct {
	Field string
	Value string
}

func (e *MalformedFieldError) Error() string {
	return fmt.Sprintf("telemetry: header %s: %q is not an integer", e.Field, e.Value)
}

func (e *MalformedFieldError) Is(target error) bool { return target == ErrMalformedField }

// Parse builds a RenderErrorLog from h.  Under Default the returned slice
// lists the fields that were replaced by the sentinel; under Reject the
// first malformed field aborts the parse.
func Parse(h http.Header, policy Policy) (*model.RenderErrorLog, []*MalformedFieldError, error) {
	rec := model.NewRenderErrorLog()
	if v, ok := lookup(h, HeaderMessage); ok {
		rec.Message = model.TruncateMessage(v)
	}

	var defaulted []*MalformedFieldError
	fields := []struct {
		name string
		dst  *int64
	}{
		{HeaderCaseCategory, &rec.CaseCategory},
		{HeaderJSHeapSizeLimit, &rec.JSHeapSizeLimit},
		{HeaderUsedJSHeapSize, &rec.UsedJSHeapSize},
		{HeaderTotalJSHeapSize, &rec.TotalJSHeapSize},
	}
	for _, f := range fields {
		v, ok := lookup(h, f.name)
		if !ok {
			continue
		}
		n, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64)
		if err == nil {
			*f.dst = n
			continue
		}
		mf := &MalformedFieldError{Field: f.name, Value: v}
		if policy != Default {
			return nil, nil, mf
		}
		defaulted = append(defaulted, mf)
	}
	return &rec, defaulted, nil
}

// lookup reads a header by its wire name.  Underscored names are not
// touched by Go's canonicalisation, so both forms are tried.
func lookup(h http.Header, name string) (string, bool) {
	if vs, ok := h[name]; ok && len(vs) > 0 {
		return vs[0], true
	}
	if vs, ok := h[http.CanonicalHeaderKey(name)]; ok && len(vs) > 0 {
		return vs[0], true
	}
	return "", false
}
