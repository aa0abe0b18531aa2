package metrics

import (
	"context"
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

type fakeSender struct {
	err   error
	calls int
}

func (f *fakeSender) Send(context.Context, string, string, string) error {
	f.calls++
	return f.err
}

func TestInstrumentNotifier(t *testing.T) {
	inner := &fakeSender{}
	s := InstrumentNotifier(inner)
	assert.NoError(t, s.Send(context.Background(), "a@b.c", "s", "b"))

	inner.err = errors.New("smtp down")
	assert.EqualError(t, s.Send(context.Background(), "a@b.c", "s", "b"), "smtp down")

	assert.Equal(t, 2, inner.calls)
	assert.Equal(t, 2, testutil.CollectAndCount(NotificationDuration))
}

func TestResetCounters(t *testing.T) {
	before := testutil.ToFloat64(ResetRequestsTotal.WithLabelValues(ResultOK))
	ResetRequestsTotal.WithLabelValues(ResultOK).Inc()
	assert.Equal(t, before+1, testutil.ToFloat64(ResetRequestsTotal.WithLabelValues(ResultOK)))
}
