// Copyright 2025 Arcade Team
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// SyncRecorder records permission sync passes
type SyncRecorder struct {
	runsTotal       *prometheus.CounterVec
	runDuration     prometheus.Histogram
	changesTotal    *prometheus.CounterVec
	batchesTotal    *prometheus.CounterVec
	lastSuccessTime prometheus.Gauge
}

// NewSyncRecorder creates the sync collectors and registers them with reg
func NewSyncRecorder(reg prometheus.Registerer) (*SyncRecorder, error) {
	r := &SyncRecorder{
		runsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "permsync_runs_total",
				Help: "Total number of permission sync passes by outcome status",
			},
			[]string{"status"},
		),
		runDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "permsync_run_duration_seconds",
				Help:    "Duration of permission sync passes in seconds",
				Buckets: prometheus.ExponentialBuckets(0.005, 2, 12), // 5ms to ~10s
			},
		),
		changesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "permsync_changes_total",
				Help: "Total number of planned permission changes by kind",
			},
			[]string{"kind"},
		),
		batchesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "permsync_batches_total",
				Help: "Total number of persistence batches by result",
			},
			[]string{"result"},
		),
		lastSuccessTime: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "permsync_last_success_time_seconds",
				Help: "Last time a sync pass completed without failures, in seconds since epoch",
			},
		),
	}

	for _, c := range []prometheus.Collector{r.runsTotal, r.runDuration, r.changesTotal, r.batchesTotal, r.lastSuccessTime} {
		if err := reg.Register(c); err != nil {
			return nil, fmt.Errorf("failed to register sync metric: %w", err)
		}
	}
	return r, nil
}

// ObservePass records one finished pass
func (r *SyncRecorder) ObservePass(status string, duration time.Duration) {
	r.runsTotal.WithLabelValues(status).Inc()
	r.runDuration.Observe(duration.Seconds())
	if status == "succeeded" {
		r.lastSuccessTime.Set(float64(time.Now().Unix()))
	}
}

// ObserveChanges records the planned change counts of a pass
func (r *SyncRecorder) ObserveChanges(inserted, modified, removed int) {
	r.changesTotal.WithLabelValues("inserted").Add(float64(inserted))
	r.changesTotal.WithLabelValues("modified").Add(float64(modified))
	r.changesTotal.WithLabelValues("removed").Add(float64(removed))
}

// ObserveBatch records a single batch result
func (r *SyncRecorder) ObserveBatch(ok bool) {
	if ok {
		r.batchesTotal.WithLabelValues("success").Inc()
		return
	}
	r.batchesTotal.WithLabelValues("failure").Inc()
}
