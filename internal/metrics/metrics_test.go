package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestCollector(t *testing.T) {
	c := New()

	c.ObserveAPICall("jobs.list", 200, 10*time.Millisecond)
	c.ObserveAPICall("jobs.list", 200, 10*time.Millisecond)
	c.ObserveAPICall("jobs.list", 0, time.Millisecond)
	c.StaleDiscarded("admin.jobs")
	c.GuardDecision("redirect_login")
	c.SetActiveViews(3)

	assert.Equal(t, 2.0, testutil.ToFloat64(c.apiRequests.WithLabelValues("jobs.list", "200")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.apiRequests.WithLabelValues("jobs.list", "error")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.staleResponses.WithLabelValues("admin.jobs")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.guardDecisions.WithLabelValues("redirect_login")))
	assert.Equal(t, 3.0, testutil.ToFloat64(c.activeViews))
}

func TestNilCollectorIsNoop(t *testing.T) {
	var c *Collector

	assert.NotPanics(t, func() {
		c.ObserveAPICall("x", 500, time.Second)
		c.ObserveFetch("x", "success", time.Second)
		c.StaleDiscarded("x")
		c.ObserveHTTP("GET", "/", 200, time.Second)
		c.SetActiveViews(1)
		c.GuardDecision("allow")
	})
	assert.Nil(t, c.Registry())
}
