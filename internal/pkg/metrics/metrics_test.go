package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestCollectorsAreIndependent(t *testing.T) {
	a := NewCollector("test")
	b := NewCollector("test")

	a.IdeasCreated.Inc()

	assert.Equal(t, float64(1), testutil.ToFloat64(a.IdeasCreated))
	assert.Equal(t, float64(0), testutil.ToFloat64(b.IdeasCreated))
}

func TestObserveStorage(t *testing.T) {
	c := NewCollector("test")

	c.ObserveStorage("create", "local", nil, time.Millisecond)
	c.ObserveStorage("create", "local", errors.New("boom"), time.Millisecond)
	c.ObserveStorage("create", "local", errors.New("boom"), time.Millisecond)

	assert.Equal(t, float64(1), testutil.ToFloat64(c.StorageOperations.WithLabelValues("create", "local", "ok")))
	assert.Equal(t, float64(2), testutil.ToFloat64(c.StorageOperations.WithLabelValues("create", "local", "error")))
}

func TestObserveHTTPGroupsStatus(t *testing.T) {
	c := NewCollector("test")

	c.ObserveHTTP("GET", "/api/idea/v1", 404, time.Millisecond)
	c.ObserveHTTP("GET", "/api/idea/v1", 409, time.Millisecond)

	assert.Equal(t, float64(2), testutil.ToFloat64(c.HTTPRequests.WithLabelValues("GET", "/api/idea/v1", "4xx")))
}

func TestSetRemoteStorage(t *testing.T) {
	c := NewCollector("test")

	c.SetRemoteStorage(true)
	assert.Equal(t, float64(1), testutil.ToFloat64(c.StorageRemote))
	c.SetRemoteStorage(false)
	assert.Equal(t, float64(0), testutil.ToFloat64(c.StorageRemote))
}
