//go:build linux

package cpu

import (
	"runtime"

	"golang.org/x/sys/unix"
)

// availableCPUs counts the cores in the process affinity mask, so a pool started under
// taskset or a cgroup cpuset is sized to what it can actually use.
func availableCPUs() int {
	var mask unix.CPUSet
	if err := unix.SchedGetaffinity(0, &mask); err != nil {
		return runtime.NumCPU()
	}
	return mask.Count()
}

// pinToCore pins the current OS thread to a specific CPU core.
// Must be called after runtime.LockOSThread().
func pinToCore(cpuID int) error {
	numCPU := runtime.NumCPU()
	if cpuID < 0 || cpuID >= numCPU {
		cpuID = cpuID % numCPU
		if cpuID < 0 {
			cpuID += numCPU
		}
	}

	var mask unix.CPUSet
	mask.Zero()
	mask.Set(cpuID)

	return unix.SchedSetaffinity(0, &mask) // 0 = current thread
}

// SetupWorkerAffinity locks the calling goroutine to an OS thread and pins that thread
// to core workerID modulo the core count. The returned cleanup restores the thread's
// previous mask before unlocking it, so the runtime gets the thread back unpinned.
func SetupWorkerAffinity(workerID int) func() {
	runtime.LockOSThread()

	var prev unix.CPUSet
	restore := unix.SchedGetaffinity(0, &prev) == nil
	_ = pinToCore(workerID)

	return func() {
		if restore {
			_ = unix.SchedSetaffinity(0, &prev)
		}
		runtime.UnlockOSThread()
	}
}
