package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestObserveAuth(t *testing.T) {
	before := testutil.ToFloat64(AuthAttemptsTotal.WithLabelValues("login", "failure"))
	ObserveAuth("login", false)
	after := testutil.ToFloat64(AuthAttemptsTotal.WithLabelValues("login", "failure"))
	assert.Equal(t, before+1, after)
}

func TestObserveIncidentOp(t *testing.T) {
	before := testutil.ToFloat64(IncidentMutationsTotal.WithLabelValues("add", "success"))
	ObserveIncidentOp("add", true)
	assert.Equal(t, before+1, testutil.ToFloat64(IncidentMutationsTotal.WithLabelValues("add", "success")))
}
