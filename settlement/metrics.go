// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package settlement

import "github.com/vechain/jobstake/metrics"

var (
	metricOpCount    = metrics.LazyLoadCounterVec("settlement_op_count", []string{"op", "result"})
	metricOpDuration = metrics.LazyLoadHistogramVec("settlement_op_duration_ms", []string{"op"}, metrics.BucketHTTPReqs)
	metricConflicts  = metrics.LazyLoadCounterVec("settlement_conflict_count", []string{"op"})
	metricStaked     = metrics.LazyLoadCounter("settlement_staked_amount")
	metricPaidOut    = metrics.LazyLoadCounterVec("settlement_paid_out_amount", []string{"kind"})
)
