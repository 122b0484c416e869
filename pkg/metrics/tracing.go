package metrics

import (
	"context"

	"github.com/newrelic/go-agent/v3/newrelic"
)

// MethodTracer is a segment within the transaction carried by a context.
// A nil *MethodTracer is valid and does nothing.
type MethodTracer struct {
	txn *newrelic.Transaction
	seg *newrelic.Segment
}

// TraceMethodCall starts a segment named after the struct or package and
// method. It returns nil when ctx carries no transaction.
func TraceMethodCall(ctx context.Context, structOrPackageName, methodName string) *MethodTracer {
	txn := newrelic.FromContext(ctx)
	if txn == nil {
		return nil
	}

	return &MethodTracer{
		txn: txn,
		seg: txn.StartSegment(structOrPackageName + " " + methodName),
	}
}

func (t *MethodTracer) AddAttribute(key string, value interface{}) {
	if t == nil {
		return
	}
	t.seg.AddAttribute(key, value)
}

func (t *MethodTracer) AddAttributes(attributes map[string]interface{}) {
	if t == nil {
		return
	}
	for key, value := range attributes {
		t.seg.AddAttribute(key, value)
	}
}

// OnError reports err against the enclosing transaction
func (t *MethodTracer) OnError(err error) {
	if t == nil || err == nil {
		return
	}
	t.txn.NoticeError(err)
}

func (t *MethodTracer) End() {
	if t == nil {
		return
	}
	t.seg.End()
}

// StartTransaction begins a background transaction on the application carried
// by ctx. The returned context carries the transaction, and the returned func
// ends it.
func StartTransaction(ctx context.Context, name string) (context.Context, func()) {
	app, ok := applicationFromContext(ctx)
	if !ok {
		return ctx, func() {}
	}

	txn := app.StartTransaction(name)
	return newrelic.NewContext(ctx, txn), txn.End
}
