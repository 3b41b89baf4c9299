package observability

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	promexporter "go.opentelemetry.io/otel/exporters/prometheus"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
)

// Textfile collects OTel instruments into a dedicated Prometheus registry
// and dumps them in the text exposition format, for node_exporter's
// textfile collector or CI artifacts.
type Textfile struct {
	registry *prometheus.Registry
	reader   sdkmetric.Reader
}

// NewTextfile creates an exporter over a fresh registry. Attach its reader
// to a MeterProvider with Option.
func NewTextfile() (*Textfile, error) {
	registry := prometheus.NewRegistry()

	exporter, err := promexporter.New(promexporter.WithRegisterer(registry))
	if err != nil {
		return nil, fmt.Errorf("create prometheus exporter: %w", err)
	}

	return &Textfile{registry: registry, reader: exporter}, nil
}

// Option returns the meter provider option wiring the exporter in.
func (tf *Textfile) Option() sdkmetric.Option {
	return sdkmetric.WithReader(tf.reader)
}

// WriteFile writes the current metric values to path atomically.
func (tf *Textfile) WriteFile(path string) error {
	if err := prometheus.WriteToTextfile(path, tf.registry); err != nil {
		return fmt.Errorf("write metrics file: %w", err)
	}

	return nil
}
