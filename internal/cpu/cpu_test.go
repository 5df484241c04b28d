package cpu

import (
	"runtime"
	"testing"
)

func TestNumCPU_Bounds(t *testing.T) {
	n := NumCPU()
	if n < 1 {
		t.Fatalf("expected at least one core, got %d", n)
	}
	if n > runtime.NumCPU() {
		t.Errorf("usable cores %d exceed host cores %d", n, runtime.NumCPU())
	}
}

func TestSetupWorkerAffinity_Cleanup(t *testing.T) {
	done := make(chan struct{})
	go func() {
		defer close(done)
		cleanup := SetupWorkerAffinity(runtime.NumCPU() + 3)
		cleanup()
	}()
	<-done
}
