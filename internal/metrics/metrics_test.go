package metrics

import (
	"net/http"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMethodLabel(t *testing.T) {
	assert.Equal(t, http.MethodGet, MethodLabel(http.MethodGet))
	assert.Equal(t, http.MethodOptions, MethodLabel(http.MethodOptions))
	assert.Equal(t, "other", MethodLabel("FOO"))
	assert.Equal(t, "other", MethodLabel("get"))
}

func TestObserveRequest_BoundsMethods(t *testing.T) {
	before := testutil.CollectAndCount(RequestsTotal)

	for _, m := range []string{"X1", "X2", "X3", "BREW"} {
		ObserveRequest("metrics-test", m, http.StatusNotFound, time.Millisecond)
	}

	assert.Equal(t, 4.0, testutil.ToFloat64(RequestsTotal.WithLabelValues("metrics-test", "other", "404")))
	assert.Equal(t, before+1, testutil.CollectAndCount(RequestsTotal))
}
