// Copyright (c) 2024 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNoopMetrics(t *testing.T) {
	metrics = noopBackend{}
	assert.True(t, NoOp())

	server := httptest.NewServer(HTTPHandler())
	t.Cleanup(server.Close)

	for _, m := range []any{
		Counter("stakes"),
		CounterVec("ops_by_kind", []string{"kind"}),
		Gauge("open_positions"),
		GaugeVec("open_positions_by_kind", []string{"kind"}),
		Histogram("stake_amount", nil),
		HistogramVec("reward_amount", []string{"kind"}, nil),
	} {
		require.IsType(t, noopMeter{}, m)
	}

	// labels are not validated
	CounterVec("ops_by_kind", []string{"kind"}).AddWithLabel(1, map[string]string{"unknown": "x"})

	resp, err := http.Get(server.URL + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}
