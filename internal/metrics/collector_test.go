package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollector_CollectsLiveValues(t *testing.T) {
	c := NewCollector(Sources{
		ReadersCreated: func() int64 { return 3 },
		CacheRequests:  func() int64 { return 10 },
		CacheMisses:    func() int64 { return 2 },
	})

	reg := prometheus.NewRegistry()
	require.NoError(t, reg.Register(c))

	count, err := testutil.GatherAndCount(reg)
	require.NoError(t, err)
	assert.Equal(t, 5, count)
}

func TestCollector_NilSourcesReportZero(t *testing.T) {
	c := NewCollector(Sources{})

	reg := prometheus.NewRegistry()
	require.NoError(t, reg.Register(c))

	_, err := testutil.GatherAndCount(reg)
	assert.NoError(t, err)
}
