// SPDX-FileCopyrightText: 2025 Deutsche Telekom IT GmbH
//
// SPDX-License-Identifier: Apache-2.0

package netinfo

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/telekom/finch/pkg/checks"
)

// metrics defines the metric collectors of the netinfo check
type metrics struct {
	ifaceUp     *prometheus.GaugeVec
	dnsStatus   *prometheus.GaugeVec
	dnsDuration *prometheus.GaugeVec
	count       *prometheus.CounterVec
}

// newMetrics initializes metric collectors of the netinfo check
func newMetrics() metrics {
	return metrics{
		ifaceUp: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "finch_netinfo_interface_up",
				Help: "Specifies if the network interface is up.",
			},
			[]string{"interface"},
		),
		dnsStatus: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "finch_netinfo_dns_status",
				Help: "Specifies if the host can be resolved.",
			},
			[]string{"target"},
		),
		dnsDuration: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "finch_netinfo_dns_duration_seconds",
				Help: "Duration of DNS resolution attempts in seconds.",
			},
			[]string{"target"},
		),
		count: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "finch_netinfo_dns_check_count",
				Help: "Total number of DNS lookups performed on the host.",
			},
			[]string{"target"},
		),
	}
}

// List returns all metric collectors
func (m *metrics) List() []prometheus.Collector {
	return []prometheus.Collector{
		m.ifaceUp,
		m.dnsStatus,
		m.dnsDuration,
		m.count,
	}
}

// SetInterfaces sets the up state of all interfaces
func (m *metrics) SetInterfaces(ifaces []ifaceInfo) {
	for _, iface := range ifaces {
		up := 0.0
		if iface.Up {
			up = 1.0
		}
		m.ifaceUp.WithLabelValues(iface.Name).Set(up)
	}
}

// SetLookup sets the metrics of one host lookup result
func (m *metrics) SetLookup(host string, l lookup) {
	status := 1.0
	if l.Error != "" {
		status = 0.0
	}
	m.dnsStatus.WithLabelValues(host).Set(status)
	m.dnsDuration.WithLabelValues(host).Set(l.Total)
	m.count.WithLabelValues(host).Inc()
}

// Remove removes the metrics of one host
func (m *metrics) Remove(host string) error {
	if !m.dnsStatus.DeleteLabelValues(host) {
		return checks.ErrMetricNotFound{Label: host}
	}

	if !m.dnsDuration.DeleteLabelValues(host) {
		return checks.ErrMetricNotFound{Label: host}
	}

	if !m.count.DeleteLabelValues(host) {
		return checks.ErrMetricNotFound{Label: host}
	}

	return nil
}
