package report

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"github.com/volleyload/volley/internal/constants"
	verrors "github.com/volleyload/volley/internal/errors"
	"github.com/volleyload/volley/pkg/metrics"
)

// Summary is the JSON shape of a finished run.
type Summary struct {
	TotalRequests   int64         `json:"total_requests"`
	Succeeded       int64         `json:"succeeded"`
	Failed          int64         `json:"failed"`
	ElapsedSeconds  float64       `json:"elapsed_seconds"`
	TransactionRate float64       `json:"transaction_rate"`
	P99             float64       `json:"p99"`
	P95             float64       `json:"p95"`
	P90             float64       `json:"p90"`
	MeanLatency     time.Duration `json:"mean_latency_ns"`
	MaxLatency      time.Duration `json:"max_latency_ns"`
	StatusCodes     map[int]int64 `json:"status_codes"`
}

// WriteSummary writes the final snapshot as summary.json under dir and
// returns the file path.
func WriteSummary(dir string, snap metrics.Snapshot) (string, error) {
	if dir == "" {
		return "", verrors.ErrOutputDirEmpty
	}

	if err := os.MkdirAll(dir, constants.DirPermissionDefault); err != nil {
		return "", err
	}

	sum := Summary{
		TotalRequests:   snap.TotalRequests,
		Succeeded:       snap.Succeeded,
		Failed:          snap.Failed,
		ElapsedSeconds:  snap.ElapsedSeconds,
		TransactionRate: snap.TransactionRate,
		P99:             snap.P99,
		P95:             snap.P95,
		P90:             snap.P90,
		MeanLatency:     snap.MeanLatency,
		MaxLatency:      snap.MaxLatency,
		StatusCodes:     snap.StatusCodes,
	}

	data, err := json.MarshalIndent(sum, "", "  ")
	if err != nil {
		return "", err
	}

	path := filepath.Join(dir, "summary.json")
	if err := os.WriteFile(path, data, constants.FilePermissionDefault); err != nil {
		return "", err
	}

	return path, nil
}
