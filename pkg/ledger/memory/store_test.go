package memory

import (
	"testing"

	"github.com/code-payments/code-vault-program/pkg/ledger/tests"
)

func TestLedgerMemoryStore(t *testing.T) {
	testStore := New()
	teardown := func() {
		testStore.(*store).reset()
	}
	tests.RunTests(t, testStore, teardown)
}
