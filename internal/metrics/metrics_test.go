package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestRecordHTTPRequest(t *testing.T) {
	HTTPRequestsTotal.Reset()
	HTTPRequestDuration.Reset()

	RecordHTTPRequest("POST", "/v1/bookings", "201", 0.02)
	RecordHTTPRequest("POST", "/v1/bookings", "201", 0.03)
	RecordHTTPRequest("POST", "/v1/bookings", "409", 0.01)

	assert.Equal(t, float64(2), testutil.ToFloat64(HTTPRequestsTotal.WithLabelValues("POST", "/v1/bookings", "201")))
	assert.Equal(t, float64(1), testutil.ToFloat64(HTTPRequestsTotal.WithLabelValues("POST", "/v1/bookings", "409")))
	assert.Equal(t, 1, testutil.CollectAndCount(HTTPRequestDuration))
}

func TestRecordBookingOperation(t *testing.T) {
	BookingOperationsTotal.Reset()

	RecordBookingOperation("create", "ok")
	RecordBookingOperation("create", "conflict")
	RecordBookingOperation("create", "conflict")

	assert.Equal(t, float64(1), testutil.ToFloat64(BookingOperationsTotal.WithLabelValues("create", "ok")))
	assert.Equal(t, float64(2), testutil.ToFloat64(BookingOperationsTotal.WithLabelValues("create", "conflict")))
}

func TestRecordEvent(t *testing.T) {
	EventsPublishedTotal.Reset()

	RecordEvent("ok")
	RecordEvent("failed")

	assert.Equal(t, float64(1), testutil.ToFloat64(EventsPublishedTotal.WithLabelValues("ok")))
	assert.Equal(t, float64(1), testutil.ToFloat64(EventsPublishedTotal.WithLabelValues("failed")))
}
