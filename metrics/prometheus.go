// Copyright (c) 2024 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package metrics

import (
	"net/http"
	"strconv"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/vechain/jobstake/log"
)

const namespace = "jobstake"

var logger = log.WithContext("pkg", "metrics")

// InitializePrometheusMetrics switches the backend to prometheus. Meters
// created afterwards register with the default prometheus registry.
func InitializePrometheusMetrics() {
	// don't allow for reset
	if _, ok := metrics.(*promBackend); !ok {
		metrics = &promBackend{}
	}
}

type promBackend struct {
	// kind/name -> meter
	meters sync.Map
}

func (p *promBackend) handler() http.Handler {
	return promhttp.Handler()
}

func (p *promBackend) meter(k kind, name string, labels []string, buckets []int64) any {
	key := strconv.Itoa(int(k)) + "/" + name
	if m, ok := p.meters.Load(key); ok {
		return m
	}

	m, collector := newPromMeter(k, name, labels, buckets)
	actual, loaded := p.meters.LoadOrStore(key, m)
	if !loaded {
		if err := prometheus.Register(collector); err != nil {
			logger.Warn("unable to register metric", "name", name, "err", err)
		}
	}
	return actual
}

func newPromMeter(k kind, name string, labels []string, buckets []int64) (any, prometheus.Collector) {
	counterOpts := prometheus.CounterOpts{Namespace: namespace, Name: name}
	gaugeOpts := prometheus.GaugeOpts{Namespace: namespace, Name: name}
	histOpts := prometheus.HistogramOpts{Namespace: namespace, Name: name}
	for _, b := range buckets {
		histOpts.Buckets = append(histOpts.Buckets, float64(b))
	}

	switch k {
	case kindCounter:
		c := prometheus.NewCounter(counterOpts)
		return &promCounter{c}, c
	case kindCounterVec:
		c := prometheus.NewCounterVec(counterOpts, labels)
		return &promCounterVec{c}, c
	case kindGauge:
		g := prometheus.NewGauge(gaugeOpts)
		return &promGauge{g}, g
	case kindGaugeVec:
		g := prometheus.NewGaugeVec(gaugeOpts, labels)
		return &promGaugeVec{g}, g
	case kindHistogram:
		h := prometheus.NewHistogram(histOpts)
		return &promHistogram{h}, h
	default:
		h := prometheus.NewHistogramVec(histOpts, labels)
		return &promHistogramVec{h}, h
	}
}

type promCounter struct{ c prometheus.Counter }

func (m *promCounter) Add(i int64) { m.c.Add(float64(i)) }

type promCounterVec struct{ c *prometheus.CounterVec }

func (m *promCounterVec) AddWithLabel(i int64, labels map[string]string) {
	m.c.With(labels).Add(float64(i))
}

type promGauge struct{ g prometheus.Gauge }

func (m *promGauge) Add(i int64) { m.g.Add(float64(i)) }
func (m *promGauge) Set(i int64) { m.g.Set(float64(i)) }

type promGaugeVec struct{ g *prometheus.GaugeVec }

func (m *promGaugeVec) AddWithLabel(i int64, labels map[string]string) {
	m.g.With(labels).Add(float64(i))
}

func (m *promGaugeVec) SetWithLabel(i int64, labels map[string]string) {
	m.g.With(labels).Set(float64(i))
}

type promHistogram struct{ h prometheus.Histogram }

func (m *promHistogram) Observe(i int64) { m.h.Observe(float64(i)) }

type promHistogramVec struct{ h *prometheus.HistogramVec }

func (m *promHistogramVec) ObserveWithLabels(i int64, labels map[string]string) {
	m.h.With(labels).Observe(float64(i))
}
