package telemetry

import (
	"context"
	"slices"
	"strings"

	"github.com/grafana/pyroscope-go"
)

// Profiling label keys
const (
	ProfilingLabelOperation    = "operation"
	ProfilingLabelDocumentType = "document_type"
	ProfilingLabelRoute        = "route"
	ProfilingLabelMethod       = "method"
)

// Posting operations used as profiling label values
const (
	OperationPost    = "post"
	OperationSubmit  = "submit"
	OperationPreview = "preview"
)

// MaxLabelValueLength caps label values to keep cardinality bounded.
const MaxLabelValueLength = 128

// highCardinalityLabels are dropped from profiling labels.
var highCardinalityLabels = map[string]bool{
	"document_id":     true,
	"document_number": true,
	"request_id":      true,
	"user_id":         true,
	"trace_id":        true,
	"span_id":         true,
}

// WithProfilingLabels runs fn with the labels attached to its profile
// samples. Empty, oversized and high-cardinality labels are dropped.
func WithProfilingLabels(ctx context.Context, labels map[string]string, fn func(context.Context)) {
	pairs := sanitizeLabels(labels)
	if len(pairs) == 0 {
		fn(ctx)
		return
	}
	pyroscope.TagWrapper(ctx, pyroscope.Labels(pairs...), fn)
}

// PostingLabels labels a document operation.
func PostingLabels(operation, documentType string) map[string]string {
	return map[string]string{
		ProfilingLabelOperation:    operation,
		ProfilingLabelDocumentType: documentType,
	}
}

// HTTPRequestLabels labels an HTTP handler by route template and method.
func HTTPRequestLabels(route, method string) map[string]string {
	return map[string]string{
		ProfilingLabelRoute:  route,
		ProfilingLabelMethod: method,
	}
}

// sanitizeLabels returns key/value pairs in key order.
func sanitizeLabels(labels map[string]string) []string {
	if len(labels) == 0 {
		return nil
	}
	keys := make([]string, 0, len(labels))
	for k := range labels {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	pairs := make([]string, 0, len(labels)*2)
	for _, key := range keys {
		value := labels[key]
		cleanKey := sanitizeLabelKey(key)
		if cleanKey == "" || value == "" || highCardinalityLabels[cleanKey] {
			continue
		}
		if len(value) > MaxLabelValueLength {
			value = value[:MaxLabelValueLength]
		}
		pairs = append(pairs, cleanKey, value)
	}
	return pairs
}

// sanitizeLabelKey lowercases key and keeps only [a-z0-9_].
func sanitizeLabelKey(key string) string {
	key = strings.ToLower(key)
	key = strings.NewReplacer(" ", "_", "-", "_").Replace(key)

	var b strings.Builder
	b.Grow(len(key))
	for i := 0; i < len(key); i++ {
		c := key[i]
		if (c >= 'a' && c <= 'z') || (c >= '0' && c <= '9') || c == '_' {
			b.WriteByte(c)
		}
	}
	return b.String()
}
