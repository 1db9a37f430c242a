// SPDX-FileCopyrightText: 2025 Deutsche Telekom IT GmbH
//
// SPDX-License-Identifier: Apache-2.0

package pathprobe

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/telekom/finch/internal/pathprobe"
	"github.com/telekom/finch/pkg/checks"
)

// metrics defines the metric collectors of the path probe check
type metrics struct {
	loss       *prometheus.GaugeVec
	rttAvg     *prometheus.GaugeVec
	rttBest    *prometheus.GaugeVec
	rttWorst   *prometheus.GaugeVec
	pathLength *prometheus.GaugeVec
	count      *prometheus.CounterVec
}

// newMetrics initializes metric collectors of the path probe check
func newMetrics() metrics {
	hopLabels := []string{"target", "ttl", "addr"}
	return metrics{
		loss: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "finch_pathprobe_hop_loss_percent",
				Help: "Packet loss towards the hop in percent.",
			},
			hopLabels,
		),
		rttAvg: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "finch_pathprobe_hop_rtt_avg_milliseconds",
				Help: "Mean round trip time towards the hop in milliseconds.",
			},
			hopLabels,
		),
		rttBest: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "finch_pathprobe_hop_rtt_best_milliseconds",
				Help: "Best round trip time towards the hop in milliseconds.",
			},
			hopLabels,
		),
		rttWorst: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "finch_pathprobe_hop_rtt_worst_milliseconds",
				Help: "Worst round trip time towards the hop in milliseconds.",
			},
			hopLabels,
		),
		pathLength: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "finch_pathprobe_path_length",
				Help: "Number of hops on the path to the target.",
			},
			[]string{"target"},
		),
		count: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "finch_pathprobe_check_count",
				Help: "Total number of path probe runs per target.",
			},
			[]string{"target"},
		),
	}
}

// List returns all metric collectors
func (m *metrics) List() []prometheus.Collector {
	return []prometheus.Collector{
		m.loss,
		m.rttAvg,
		m.rttBest,
		m.rttWorst,
		m.pathLength,
		m.count,
	}
}

// Set sets the metrics of one diagnosed path
func (m *metrics) Set(target string, reports []pathprobe.HopReport) {
	for _, r := range reports {
		labels := prometheus.Labels{"target": target, "ttl": strconv.Itoa(r.TTL), "addr": r.Addr}
		m.loss.With(labels).Set(r.Loss)
		m.rttAvg.With(labels).Set(r.Avg)
		m.rttBest.With(labels).Set(r.Best)
		m.rttWorst.With(labels).Set(r.Worst)
	}
	m.pathLength.WithLabelValues(target).Set(float64(len(reports)))
	m.count.WithLabelValues(target).Inc()
}

// Remove removes the metrics of one target. Hop-level series are keyed
// by ttl and addr as well, so the deletion matches on the target label
// only.
func (m *metrics) Remove(target string) error {
	match := prometheus.Labels{"target": target}
	m.loss.DeletePartialMatch(match)
	m.rttAvg.DeletePartialMatch(match)
	m.rttBest.DeletePartialMatch(match)
	m.rttWorst.DeletePartialMatch(match)

	if !m.pathLength.DeleteLabelValues(target) {
		return checks.ErrMetricNotFound{Label: target}
	}
	if !m.count.DeleteLabelValues(target) {
		return checks.ErrMetricNotFound{Label: target}
	}
	return nil
}
