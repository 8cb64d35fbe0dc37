// Copyright (c) 2024 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// #nosec G404
package metrics

import (
	"math/rand/v2"
	"strconv"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"

	dto "github.com/prometheus/client_model/go"
)

func TestPromMetrics(t *testing.T) {
	InitializePrometheusMetrics()

	// 2 ways of accessing it - useful to avoid lookups
	count1 := Counter("stakes")
	Counter("unstakes")
	countVect := CounterVec("ops_by_kind", []string{"kind"})

	hist := Histogram("stake_amount", nil)
	HistogramVec("reward_amount", []string{"kind"}, nil)

	gauge1 := Gauge("open_positions")
	gaugeVec := GaugeVec("open_positions_by_kind", []string{"kind"})

	count1.Add(1)
	randCount2 := rand.N(100) + 1
	for range randCount2 {
		Counter("unstakes").Add(1)
	}

	histTotal := 0
	for i := range rand.N(100) + 2 {
		kind := i % 2
		hist.Observe(int64(i))
		HistogramVec("reward_amount", []string{"kind"}, nil).
			ObserveWithLabels(int64(i), map[string]string{"kind": strconv.Itoa(kind)})
		histTotal += i
	}

	totalCountVec := 0
	randCountVec := rand.N(100) + 2
	for i := range randCountVec {
		kind := i % 2
		countVect.AddWithLabel(int64(i), map[string]string{"kind": strconv.Itoa(kind)})
		totalCountVec += i
	}

	totalGaugeVec := 0
	randGaugeVec := rand.N(100) + 2
	for i := range randGaugeVec {
		kind := i % 2
		gaugeVec.AddWithLabel(int64(i), map[string]string{"kind": strconv.Itoa(kind)})
		gauge1.Add(int64(i))
		totalGaugeVec += i
	}

	// Gather the metrics
	gatherers := prometheus.Gatherers{prometheus.DefaultGatherer}
	metricFamilies, err := gatherers.Gather()
	require.NoError(t, err)

	metrics := make(map[string]*dto.MetricFamily)
	for _, mf := range metricFamilies {
		metrics[mf.GetName()] = mf
	}

	// Validate metrics
	require.Equal(t, float64(1), metrics["jobstake_stakes"].Metric[0].GetCounter().GetValue())
	require.Equal(t, float64(randCount2), metrics["jobstake_unstakes"].Metric[0].GetCounter().GetValue())
	require.Equal(t, float64(histTotal), metrics["jobstake_stake_amount"].Metric[0].GetHistogram().GetSampleSum())

	sumHistVect := metrics["jobstake_reward_amount"].Metric[0].GetHistogram().GetSampleSum() +
		metrics["jobstake_reward_amount"].Metric[1].GetHistogram().GetSampleSum()
	require.Equal(t, float64(histTotal), sumHistVect)

	sumCountVec := metrics["jobstake_ops_by_kind"].Metric[0].GetCounter().GetValue() +
		metrics["jobstake_ops_by_kind"].Metric[1].GetCounter().GetValue()
	require.Equal(t, float64(totalCountVec), sumCountVec)

	require.Equal(t, float64(totalGaugeVec), metrics["jobstake_open_positions"].Metric[0].GetGauge().GetValue())
	sumGaugeVec := metrics["jobstake_open_positions_by_kind"].Metric[0].GetGauge().GetValue() +
		metrics["jobstake_open_positions_by_kind"].Metric[1].GetGauge().GetValue()
	require.Equal(t, float64(totalGaugeVec), sumGaugeVec)
}

func TestLazyLoading(t *testing.T) {
	metrics = noopBackend{} // make sure it starts in the default state

	lazyGauge := LazyLoadGauge("lazyGauge")
	lazyGaugeVec := LazyLoadGaugeVec("lazyGaugeVec", nil)
	lazyCounter := LazyLoadCounter("lazyCounter")
	lazyCounterVec := LazyLoadCounterVec("lazyCounterVec", nil)
	lazyHistogram := LazyLoadHistogram("lazyHistogram", nil)
	lazyHistogramVec := LazyLoadHistogramVec("lazyHistogramVec", nil, nil)

	// meters resolved after initialization are backed by prometheus
	InitializePrometheusMetrics()
	require.False(t, NoOp())

	require.IsType(t, &promGauge{}, lazyGauge())
	require.IsType(t, &promGaugeVec{}, lazyGaugeVec())
	require.IsType(t, &promCounter{}, lazyCounter())
	require.IsType(t, &promCounterVec{}, lazyCounterVec())
	require.IsType(t, &promHistogram{}, lazyHistogram())
	require.IsType(t, &promHistogramVec{}, lazyHistogramVec())

	// same name and kind resolve to the same meter
	require.Same(t, lazyCounter(), Counter("lazyCounter"))
}
