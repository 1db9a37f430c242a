// SPDX-FileCopyrightText: 2025 Deutsche Telekom IT GmbH
//
// SPDX-License-Identifier: Apache-2.0

package netinfo

import (
	"context"
	"net"
	"net/http"
	"slices"
	"sync"
	"time"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/telekom/finch/internal/logger"
	"github.com/telekom/finch/pkg/checks"
)

var (
	_ checks.Check   = (*Netinfo)(nil)
	_ checks.Runtime = (*Config)(nil)
)

const CheckName = "netinfo"

// Netinfo is a check that gathers the local network context: interface
// state, DNS resolution of configured hosts and the public IP.
type Netinfo struct {
	checks.CheckBase
	config     Config
	metrics    metrics
	resolver   Resolver
	client     *http.Client
	interfaces func() ([]net.Interface, error)
}

// NewCheck creates a new instance of the netinfo check
func NewCheck() checks.Check {
	return &Netinfo{
		CheckBase: checks.CheckBase{
			Mu:       sync.Mutex{},
			DoneChan: make(chan struct{}, 1),
		},
		config: Config{
			PublicIPURL: defaultPublicIPURL,
			Retry:       checks.DefaultRetry,
		},
		metrics:    newMetrics(),
		resolver:   NewResolver(),
		client:     &http.Client{},
		interfaces: net.Interfaces,
	}
}

// result is the perf data of one netinfo run
type result struct {
	// Interfaces is the state of all local network interfaces.
	Interfaces []ifaceInfo `json:"interfaces"`
	// DNS maps each configured host to its lookup outcome.
	DNS map[string]lookup `json:"dns"`
	// PublicIP is the address the instance appears as externally.
	// Empty if the lookup failed.
	PublicIP string `json:"publicIp"`
}

type ifaceInfo struct {
	Name      string   `json:"name"`
	Up        bool     `json:"up"`
	Addresses []string `json:"addresses"`
}

type lookup struct {
	Resolved []string `json:"resolved"`
	// Total is the lookup duration in seconds.
	Total float64 `json:"total"`
	Error string  `json:"error,omitempty"`
}

// Run starts the netinfo check
func (n *Netinfo) Run(ctx context.Context, cResult chan checks.ResultDTO) error {
	ctx, cancel := logger.NewContextWithLogger(ctx)
	defer cancel()
	log := logger.FromContext(ctx)

	log.InfoContext(ctx, "Starting netinfo check", "interval", n.config.Interval.String())
	for {
		select {
		case <-ctx.Done():
			log.ErrorContext(ctx, "Context canceled", "error", ctx.Err())
			return ctx.Err()
		case <-n.DoneChan:
			return nil
		case <-time.After(n.config.Interval):
			res := n.check(ctx)
			cResult <- checks.ResultDTO{
				Name: n.Name(),
				Result: &checks.Result{
					Data:      res,
					Timestamp: time.Now(),
				},
			}
			log.DebugContext(ctx, "Successfully finished netinfo check run")
		}
	}
}

func (n *Netinfo) check(ctx context.Context) result {
	log := logger.FromContext(ctx)

	n.Mu.Lock()
	cfg := n.config
	n.Mu.Unlock()

	res := result{DNS: map[string]lookup{}}

	ifaces, err := n.gatherInterfaces()
	if err != nil {
		log.ErrorContext(ctx, "Failed to enumerate interfaces", "error", err)
	}
	res.Interfaces = ifaces
	n.metrics.SetInterfaces(ifaces)

	for _, host := range cfg.Hosts {
		res.DNS[host] = n.lookupHost(ctx, host, cfg.Timeout)
		n.metrics.SetLookup(host, res.DNS[host])
	}

	ip, err := n.fetchPublicIP(ctx, cfg)
	if err != nil {
		log.ErrorContext(ctx, "Failed to fetch public ip", "error", err)
	}
	res.PublicIP = ip

	return res
}

// gatherInterfaces enumerates the local interfaces with their addresses.
func (n *Netinfo) gatherInterfaces() ([]ifaceInfo, error) {
	ifaces, err := n.interfaces()
	if err != nil {
		return nil, err
	}

	infos := make([]ifaceInfo, 0, len(ifaces))
	for _, iface := range ifaces {
		info := ifaceInfo{
			Name: iface.Name,
			Up:   iface.Flags&net.FlagUp != 0,
		}
		if addrs, aErr := iface.Addrs(); aErr == nil {
			for _, addr := range addrs {
				info.Addresses = append(info.Addresses, addr.String())
			}
		}
		infos = append(infos, info)
	}
	return infos, nil
}

// lookupHost resolves one host and measures the lookup duration.
func (n *Netinfo) lookupHost(ctx context.Context, host string, timeout time.Duration) lookup {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	start := time.Now()
	resolved, err := n.resolver.LookupHost(ctx, host)
	l := lookup{
		Resolved: resolved,
		Total:    time.Since(start).Seconds(),
	}
	if err != nil {
		l.Error = err.Error()
	}
	return l
}

// Shutdown is called once when the check is unregistered or finch shuts down
func (n *Netinfo) Shutdown() {
	n.DoneChan <- struct{}{}
	close(n.DoneChan)
}

// UpdateConfig sets the configuration for the netinfo check
func (n *Netinfo) UpdateConfig(cfg checks.Runtime) error {
	if c, ok := cfg.(*Config); ok {
		n.Mu.Lock()
		defer n.Mu.Unlock()

		for _, host := range n.config.Hosts {
			if !slices.Contains(c.Hosts, host) {
				err := n.metrics.Remove(host)
				if err != nil {
					return err
				}
			}
		}

		if c.PublicIPURL == "" {
			c.PublicIPURL = defaultPublicIPURL
		}
		n.config = *c
		return nil
	}

	return checks.ErrConfigMismatch{
		Expected: CheckName,
		Current:  cfg.For(),
	}
}

// GetConfig returns the current configuration of the check
func (n *Netinfo) GetConfig() checks.Runtime {
	n.Mu.Lock()
	defer n.Mu.Unlock()
	return &n.config
}

// Schema returns an openapi3.SchemaRef of the result type returned by the check
func (n *Netinfo) Schema() (*openapi3.SchemaRef, error) {
	return checks.OpenapiFromPerfData(result{})
}

// GetMetricCollectors allows the check to provide prometheus metric collectors
func (n *Netinfo) GetMetricCollectors() []prometheus.Collector {
	return n.metrics.List()
}

// Name returns the name of the check
func (n *Netinfo) Name() string {
	return CheckName
}

// RemoveLabelledMetrics removes the metrics which have the passed
// target as a label
func (n *Netinfo) RemoveLabelledMetrics(target string) error {
	return n.metrics.Remove(target)
}
