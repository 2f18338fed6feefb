// Package metrics defines and registers all custom Prometheus metrics for the
// sales dashboard API. It is the single source of truth for metric names,
// labels, and help strings.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "dashboard"

// LoginsTotal counts login attempts.
// Label:
//   - result: "success" or "failure"
var LoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logins_total",
		Help:      "Total number of login attempts, by result.",
	},
	[]string{"result"},
)

// UploadsTotal counts file upload requests.
// Label:
//   - status: "ok", "unsupported_format", "parse_error", or "error"
var UploadsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "uploads_total",
		Help:      "Total number of dataset uploads, by outcome.",
	},
	[]string{"status"},
)

// UploadRowsIngestedTotal counts rows accepted into the dataset.
var UploadRowsIngestedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "upload_rows_ingested_total",
		Help:      "Total number of rows accepted across all uploads.",
	},
)

// UploadRowsSkippedTotal counts rows dropped during coercion.
// Label:
//   - reason: short description of the skip cause (e.g. "empty row")
var UploadRowsSkippedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "upload_rows_skipped_total",
		Help:      "Total number of rows skipped during upload coercion.",
	},
	[]string{"reason"},
)
