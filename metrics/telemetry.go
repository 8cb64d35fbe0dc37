// Copyright (c) 2024 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package metrics is a thin facade over the meters used across jobstake.
// Meters are no-ops until InitializePrometheusMetrics is called.
package metrics

import (
	"net/http"
	"sync"
)

// metrics is the process wide backend, swapped once at startup.
var metrics backend = noopBackend{}

type kind uint8

const (
	kindCounter kind = iota
	kindCounterVec
	kindGauge
	kindGaugeVec
	kindHistogram
	kindHistogramVec
)

// backend creates meters by kind. The returned value implements the meter
// interface matching k.
type backend interface {
	meter(k kind, name string, labels []string, buckets []int64) any
	handler() http.Handler
}

// HTTPHandler returns the http handler exposing the collected metrics.
func HTTPHandler() http.Handler {
	return metrics.handler()
}

// NoOp reports whether metrics are disabled.
func NoOp() bool {
	_, ok := metrics.(noopBackend)
	return ok
}

// BucketHTTPReqs are histogram buckets in milliseconds.
var BucketHTTPReqs = []int64{
	0, 1, 2, 5, 10, 20, 30, 50, 75, 100,
	150, 200, 300, 400, 500, 750, 1000,
	1500, 2000, 3000, 4000, 5000, 10000,
}

// HistogramMeter aggregates observations into buckets.
type HistogramMeter interface {
	Observe(int64)
}

// HistogramVecMeter is a HistogramMeter partitioned by labels.
type HistogramVecMeter interface {
	ObserveWithLabels(int64, map[string]string)
}

// CountMeter is a monotonically increasing counter.
type CountMeter interface {
	Add(int64)
}

// CountVecMeter is a CountMeter partitioned by labels.
type CountVecMeter interface {
	AddWithLabel(int64, map[string]string)
}

// GaugeMeter is a value that can go up and down.
type GaugeMeter interface {
	Add(int64)
	Set(int64)
}

// GaugeVecMeter is a GaugeMeter partitioned by labels.
type GaugeVecMeter interface {
	AddWithLabel(int64, map[string]string)
	SetWithLabel(int64, map[string]string)
}

func Histogram(name string, buckets []int64) HistogramMeter {
	return metrics.meter(kindHistogram, name, nil, buckets).(HistogramMeter)
}

func HistogramVec(name string, labels []string, buckets []int64) HistogramVecMeter {
	return metrics.meter(kindHistogramVec, name, labels, buckets).(HistogramVecMeter)
}

func Counter(name string) CountMeter {
	return metrics.meter(kindCounter, name, nil, nil).(CountMeter)
}

func CounterVec(name string, labels []string) CountVecMeter {
	return metrics.meter(kindCounterVec, name, labels, nil).(CountVecMeter)
}

func Gauge(name string) GaugeMeter {
	return metrics.meter(kindGauge, name, nil, nil).(GaugeMeter)
}

func GaugeVec(name string, labels []string) GaugeVecMeter {
	return metrics.meter(kindGaugeVec, name, labels, nil).(GaugeVecMeter)
}

// LazyLoad defers creating a meter until first use, so meters can be
// declared as package vars before the backend is chosen.
func LazyLoad[T any](f func() T) func() T {
	var (
		result T
		once   sync.Once
	)
	return func() T {
		once.Do(func() { result = f() })
		return result
	}
}

func LazyLoadHistogram(name string, buckets []int64) func() HistogramMeter {
	return LazyLoad(func() HistogramMeter { return Histogram(name, buckets) })
}

func LazyLoadHistogramVec(name string, labels []string, buckets []int64) func() HistogramVecMeter {
	return LazyLoad(func() HistogramVecMeter { return HistogramVec(name, labels, buckets) })
}

func LazyLoadCounter(name string) func() CountMeter {
	return LazyLoad(func() CountMeter { return Counter(name) })
}

func LazyLoadCounterVec(name string, labels []string) func() CountVecMeter {
	return LazyLoad(func() CountVecMeter { return CounterVec(name, labels) })
}

func LazyLoadGauge(name string) func() GaugeMeter {
	return LazyLoad(func() GaugeMeter { return Gauge(name) })
}

func LazyLoadGaugeVec(name string, labels []string) func() GaugeVecMeter {
	return LazyLoad(func() GaugeVecMeter { return GaugeVec(name, labels) })
}
