package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestServeRegistersMetrics(t *testing.T) {
	srv := Serve("127.0.0.1:0")
	defer srv.Close()

	SignalsTotal.WithLabelValues("LONG").Inc()
	NotificationsTotal.WithLabelValues("sent").Inc()

	mfs, err := prometheus.DefaultGatherer.Gather()
	require.NoError(t, err)

	names := map[string]bool{}
	for _, mf := range mfs {
		names[mf.GetName()] = true
	}
	assert.True(t, names["signals_total"])
	assert.True(t, names["notifications_total"])
}

func TestCountersIncrement(t *testing.T) {
	before := testutil.ToFloat64(InstrumentsTotal.WithLabelValues("no_data"))
	InstrumentsTotal.WithLabelValues("no_data").Inc()
	assert.Equal(t, before+1, testutil.ToFloat64(InstrumentsTotal.WithLabelValues("no_data")))
}
