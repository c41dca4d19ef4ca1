package telemetry

import (
	"context"
	"sort"

	"github.com/grafana/pyroscope-go"
)

// Profiling label names attached to request handling.
const (
	ProfilingLabelRoute    = "route"
	ProfilingLabelMethod   = "method"
	ProfilingLabelResource = "resource"
	ProfilingLabelTenantID = "tenant_id"
)

// WithProfilingLabels runs fn with the labels attached to every sample taken
// on the goroutine. Empty values are dropped.
func WithProfilingLabels(ctx context.Context, labels map[string]string, fn func(context.Context)) {
	keys := make([]string, 0, len(labels))
	for k, v := range labels {
		if v != "" {
			keys = append(keys, k)
		}
	}
	if len(keys) == 0 {
		fn(ctx)
		return
	}
	sort.Strings(keys)
	pairs := make([]string, 0, 2*len(keys))
	for _, k := range keys {
		pairs = append(pairs, k, labels[k])
	}
	pyroscope.TagWrapper(ctx, pyroscope.Labels(pairs...), fn)
}
