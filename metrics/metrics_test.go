package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestRecordOperation(t *testing.T) {
	counter := ServiceOperationsTotal.WithLabelValues("Order", "create", OutcomeSuccess)
	before := testutil.ToFloat64(counter)

	RecordOperation("Order", "create", OutcomeSuccess)
	RecordOperation("Order", "create", OutcomeSuccess)

	assert.Equal(t, before+2, testutil.ToFloat64(counter))
}
