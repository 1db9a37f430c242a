// SPDX-FileCopyrightText: 2025 Deutsche Telekom IT GmbH
//
// SPDX-License-Identifier: Apache-2.0

package telemetry

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"fmt"
	"os"

	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"google.golang.org/grpc/credentials"
)

// Exporter is the selected span exporter flavor
type Exporter string

const (
	// STDOUT prints the traces to the console
	STDOUT Exporter = "stdout"
	// HTTP sends the traces to a collector over otlp http
	HTTP Exporter = "http"
	// GRPC sends the traces to a collector over otlp grpc
	GRPC Exporter = "grpc"
	// NOOP discards the traces
	NOOP Exporter = "noop"
)

type exporterFactory func(ctx context.Context, config *Config) (sdktrace.SpanExporter, error)

var registry = map[Exporter]exporterFactory{
	STDOUT: newStdoutExporter,
	HTTP:   newHTTPExporter,
	GRPC:   newGRPCExporter,
	NOOP:   newNoopExporter,
	// The zero value behaves like noop so tracing stays opt-in.
	Exporter(""): newNoopExporter,
}

// Create builds the span exporter the config selects
func (e Exporter) Create(ctx context.Context, config *Config) (sdktrace.SpanExporter, error) {
	if f, ok := registry[e]; ok {
		return f(ctx, config)
	}
	return nil, ErrInvalidExporter{exporter: e}
}

// Validate checks that the exporter is a known flavor
func (e Exporter) Validate() error {
	if _, ok := registry[e]; !ok {
		return ErrInvalidExporter{exporter: e}
	}
	return nil
}

// IsExporting returns true if the exporter ships traces to a collector
func (e Exporter) IsExporting() bool {
	return e == HTTP || e == GRPC
}

func (e Exporter) String() string {
	if e == "" {
		return string(NOOP)
	}
	return string(e)
}

func newStdoutExporter(_ context.Context, _ *Config) (sdktrace.SpanExporter, error) {
	exporter, err := stdouttrace.New(stdouttrace.WithPrettyPrint())
	if err != nil {
		return nil, fmt.Errorf("failed to create stdout exporter: %w", err)
	}
	return exporter, nil
}

func newHTTPExporter(ctx context.Context, config *Config) (sdktrace.SpanExporter, error) {
	opts := []otlptracehttp.Option{
		otlptracehttp.WithEndpoint(config.Url),
		otlptracehttp.WithHeaders(config.headers()),
	}
	if config.TLS.Enabled {
		tlsCfg, err := clientTLSConfig(config.TLS.CertPath)
		if err != nil {
			return nil, err
		}
		opts = append(opts, otlptracehttp.WithTLSClientConfig(tlsCfg))
	}
	exporter, err := otlptracehttp.New(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create otlp http exporter: %w", err)
	}
	return exporter, nil
}

func newGRPCExporter(ctx context.Context, config *Config) (sdktrace.SpanExporter, error) {
	opts := []otlptracegrpc.Option{
		otlptracegrpc.WithEndpoint(config.Url),
		otlptracegrpc.WithHeaders(config.headers()),
	}
	if config.TLS.Enabled {
		creds, err := credentials.NewClientTLSFromFile(config.TLS.CertPath, "")
		if err != nil {
			return nil, fmt.Errorf("failed to load tls certificate: %w", err)
		}
		opts = append(opts, otlptracegrpc.WithTLSCredentials(creds))
	} else {
		opts = append(opts, otlptracegrpc.WithInsecure())
	}
	exporter, err := otlptracegrpc.New(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create otlp grpc exporter: %w", err)
	}
	return exporter, nil
}

func newNoopExporter(_ context.Context, _ *Config) (sdktrace.SpanExporter, error) {
	return noopExporter{}, nil
}

// clientTLSConfig builds a tls config trusting the given CA certificate
func clientTLSConfig(certPath string) (*tls.Config, error) {
	pem, err := os.ReadFile(certPath) //nolint:gosec // the path comes from the telemetry config
	if err != nil {
		return nil, fmt.Errorf("failed to read tls certificate: %w", err)
	}

	pool := x509.NewCertPool()
	if !pool.AppendCertsFromPEM(pem) {
		return nil, fmt.Errorf("failed to parse tls certificate %q", certPath)
	}
	return &tls.Config{RootCAs: pool, MinVersion: tls.VersionTLS12}, nil
}

// noopExporter drops all spans
type noopExporter struct{}

func (noopExporter) ExportSpans(_ context.Context, _ []sdktrace.ReadOnlySpan) error { return nil }
func (noopExporter) Shutdown(_ context.Context) error                               { return nil }

// headers returns the otlp headers, carrying the bearer token if set
func (c *Config) headers() map[string]string {
	headers := map[string]string{}
	if c.Token != "" {
		headers["Authorization"] = fmt.Sprintf("Bearer %s", c.Token)
	}
	return headers
}
