package metrics

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
)

func TestNoApplication(t *testing.T) {
	ctx := context.Background()

	// Without an application in the context, reporting is a no-op
	RecordEvent(ctx, "event", map[string]interface{}{"key": "value"})
	RecordCount(ctx, "count", 1)
	RecordDuration(ctx, "duration", time.Second)

	_, ok := applicationFromContext(NewContext(ctx, nil))
	assert.False(t, ok)

	tracer := TraceMethodCall(ctx, "metrics", "TestNoApplication")
	assert.Nil(t, tracer)

	// Nil tracers are safe to use
	tracer.AddAttribute("key", "value")
	tracer.AddAttributes(map[string]interface{}{"key": "value"})
	tracer.OnError(errors.New("error"))
	tracer.End()
}

func TestStartTransaction_NoApplication(t *testing.T) {
	ctx := context.Background()

	txnCtx, end := StartTransaction(ctx, "transaction")
	assert.Equal(t, ctx, txnCtx)
	end()
}

func TestForwardedMessage(t *testing.T) {
	entry := logrus.NewEntry(logrus.New())
	entry.Message = "hello"
	assert.Equal(t, "hello", forwardedMessage(entry))

	entry = entry.WithField("vault", "abc").WithError(errors.New("boom"))
	entry.Message = "failed"
	assert.Equal(t, `message="failed", error="boom", data={"vault":"abc"}`, forwardedMessage(entry))
}
