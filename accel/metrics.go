/*
Copyright IBM Corp. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package accel

import (
	"time"

	"github.com/hwcrypto/mpiaccel/common/metrics"
)

const (
	modeMult    = "mult"
	modeModMult = "mod_mult"
	modeModExp  = "mod_exp"
)

var opDurationOpts = metrics.HistogramOpts{
	Namespace:  "mpiaccel",
	Name:       "operation_duration",
	Help:       "Time spent completing an accelerator operation, in seconds.",
	LabelNames: []string{"mode"},
}

var opCountOpts = metrics.CounterOpts{
	Namespace:  "mpiaccel",
	Name:       "operations",
	Help:       "Number of accelerator operations issued.",
	LabelNames: []string{"mode"},
}

var rejectCountOpts = metrics.CounterOpts{
	Namespace: "mpiaccel",
	Name:      "rejected_requests",
	Help:      "Number of requests rejected before touching the hardware.",
}

type operationMetrics struct {
	opDuration  metrics.Histogram
	opCount     metrics.Counter
	rejectCount metrics.Counter
}

func newOperationMetrics(p metrics.Provider) *operationMetrics {
	return &operationMetrics{
		opDuration:  p.NewHistogram(opDurationOpts),
		opCount:     p.NewCounter(opCountOpts),
		rejectCount: p.NewCounter(rejectCountOpts),
	}
}

func (m *operationMetrics) observeOp(mode string, begin time.Time) {
	m.opCount.With("mode", mode).Add(1)
	m.opDuration.With("mode", mode).Observe(time.Since(begin).Seconds())
}
