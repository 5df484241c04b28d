//go:build !linux && !darwin && !windows

package cpu

import "runtime"

func availableCPUs() int {
	return runtime.NumCPU()
}

// SetupWorkerAffinity locks the goroutine to an OS thread; pinning is unsupported here.
func SetupWorkerAffinity(workerID int) func() {
	runtime.LockOSThread()

	return func() {
		runtime.UnlockOSThread()
	}
}
