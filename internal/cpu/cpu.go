// Package cpu reports the host's usable core count and pins worker goroutines to cores.
package cpu

// NumCPU returns the number of cores this process may run on. It is the default size
// of a worker pool.
func NumCPU() int {
	return max(availableCPUs(), 1)
}
