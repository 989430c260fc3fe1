// Copyright 2026 The Allowtree Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package registry

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	registrationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "allowtree",
		Name:      "registrations_total",
		Help:      "Leaves accepted into the tree.",
	}, []string{"path"}) // "commitment" or "raw"

	proofsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "allowtree",
		Name:      "proofs_total",
		Help:      "Membership proof requests by outcome.",
	}, []string{"result"}) // "true", "false", "error"

	proveDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "allowtree",
		Name:      "prove_duration_seconds",
		Help:      "Wall time of full proof requests (witness, prove, verify).",
		Buckets:   prometheus.ExponentialBuckets(0.05, 2, 10),
	})

	treeDepth = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "allowtree",
		Name:      "tree_depth",
		Help:      "Current Merkle tree depth.",
	})

	treeLeaves = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "allowtree",
		Name:      "tree_leaves",
		Help:      "Current Merkle tree leaf count.",
	})
)
