// Copyright (c) 2025 hitoshi.mukai.b@gmail.com. All rights reserved.
// You are free to use this source code for any purpose. The copyright remains with the author.
// The author accepts no liability for any damages arising from the use of this source code.
//
// Last modified: 2025.9.21
//

package gorinex

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"
)

// Counters of decoded and discarded records. A nil *Metrics records nothing.
type Metrics struct {
	gatherer prometheus.Gatherer

	Records   *prometheus.CounterVec // Decoded records by kind (ephemeris, epoch) and satellite system
	Discarded *prometheus.CounterVec // Discarded records by kind and error
	Anomalies prometheus.Counter     // Rows written to the anomaly log
}

// Register the reader metrics against reg, defaulting to the global Prometheus registry when nil.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	gatherer := prometheus.DefaultGatherer
	if g, ok := reg.(prometheus.Gatherer); ok {
		gatherer = g
	}

	records, err := registerCounterVec(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "rinex_records_total",
		Help: "Number of decoded RINEX records, labeled by kind and satellite system.",
	}, []string{"kind", "sys"}))
	if err != nil {
		return nil, err
	}
	discarded, err := registerCounterVec(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "rinex_discarded_total",
		Help: "Number of RINEX records discarded while decoding, labeled by kind and reason.",
	}, []string{"kind", "reason"}))
	if err != nil {
		return nil, err
	}
	anomalies, err := registerCounter(reg, prometheus.NewCounter(prometheus.CounterOpts{
		Name: "rinex_anomalies_total",
		Help: "Number of rows written to the anomaly log.",
	}))
	if err != nil {
		return nil, err
	}

	return &Metrics{
		gatherer:  gatherer,
		Records:   records,
		Discarded: discarded,
		Anomalies: anomalies,
	}, nil
}

// Write all metrics of the registry in text exposition format
func (m *Metrics) WriteFile(fn string) error {
	if m == nil {
		return nil
	}
	return prometheus.WriteToTextfile(fn, m.gatherer)
}

func (m *Metrics) record(kind string, sys SysType) {
	if m == nil {
		return
	}
	m.Records.WithLabelValues(kind, string(rune(sys))).Inc()
}

func (m *Metrics) discard(kind string, err error) {
	if m == nil {
		return
	}
	m.Discarded.WithLabelValues(kind, reason(err)).Inc()
}

func (m *Metrics) anomaly() {
	if m == nil {
		return
	}
	m.Anomalies.Inc()
}

// Short label value for an error
func reason(err error) string {
	switch {
	case errors.Is(err, ErrMalformedField):
		return "malformed_field"
	case errors.Is(err, ErrIncompleteEpoch):
		return "incomplete_epoch"
	case errors.Is(err, ErrUnexpectedEOF):
		return "unexpected_eof"
	case errors.Is(err, ErrUnsupportedVersion):
		return "unsupported_system"
	default:
		return "other"
	}
}

func registerCounterVec(reg prometheus.Registerer, c *prometheus.CounterVec) (*prometheus.CounterVec, error) {
	if err := reg.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(*prometheus.CounterVec); ok {
				return existing, nil
			}
		}
		return nil, err
	}
	return c, nil
}

func registerCounter(reg prometheus.Registerer, c prometheus.Counter) (prometheus.Counter, error) {
	if err := reg.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(prometheus.Counter); ok {
				return existing, nil
			}
		}
		return nil, err
	}
	return c, nil
}
