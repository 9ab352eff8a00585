package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestRecordFetch(t *testing.T) {
	var before = testutil.ToFloat64(wraparounds.WithLabelValues("t1"))
	RecordFetch("t1", 100, 16, true, 5*time.Millisecond)
	RecordFetch("t1", 100, 16, false, 5*time.Millisecond)

	assert.Equal(t, float64(32), testutil.ToFloat64(rowsFetched.WithLabelValues("t1")))
	assert.Equal(t, before+1, testutil.ToFloat64(wraparounds.WithLabelValues("t1")))
	assert.Equal(t, float64(100), testutil.ToFloat64(partitionSize.WithLabelValues("t1")))
}

func TestRecordErrorsAndExamples(t *testing.T) {
	RecordFetchError("t2", "insufficient_data")
	RecordExamples("t2", true, 48)
	RecordExamples("t2", false, 3)

	assert.Equal(t, float64(1), testutil.ToFloat64(fetchErrors.WithLabelValues("t2", "insufficient_data")))
	assert.Equal(t, float64(48), testutil.ToFloat64(examplesProduced.WithLabelValues("t2", "true")))
	assert.Equal(t, float64(3), testutil.ToFloat64(examplesProduced.WithLabelValues("t2", "false")))
}
