package resilience

import (
	"sync"
	"sync/atomic"
	"testing"
)

func TestSingleFlight_CollapsesConcurrentCalls(t *testing.T) {
	var flight SingleFlight
	var executions atomic.Int32

	gate := make(chan struct{})
	const callers = 16

	var wg sync.WaitGroup
	results := make([]any, callers)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			value, err, _ := flight.Do("history", func() (any, error) {
				executions.Add(1)
				<-gate
				return "payload", nil
			})
			if err != nil {
				t.Errorf("caller %d: %v", i, err)
			}
			results[i] = value
		}(i)
	}

	close(gate)
	wg.Wait()

	if got := executions.Load(); got != 1 {
		t.Fatalf("expected a single execution, got %d", got)
	}
	for i, value := range results {
		if value != "payload" {
			t.Fatalf("caller %d got %v", i, value)
		}
	}
}

func TestSingleFlight_SequentialCallsRunSeparately(t *testing.T) {
	var flight SingleFlight
	var executions atomic.Int32

	for i := 0; i < 3; i++ {
		_, _, shared := flight.Do("key", func() (any, error) {
			executions.Add(1)
			return nil, nil
		})
		if shared {
			t.Fatalf("call %d unexpectedly shared", i)
		}
	}
	if got := executions.Load(); got != 3 {
		t.Fatalf("expected 3 executions, got %d", got)
	}
}
