// Package cpus reports how many CPUs the process may run on.
package cpus

import "runtime"

// Count returns the number of CPUs usable by this process: the affinity
// mask size where the platform exposes one, runtime.NumCPU otherwise.
func Count() int {
	if n := affinityCount(); n > 0 {
		return n
	}
	return runtime.NumCPU()
}

// DefaultCooperativeTasks mirrors the thread-pool default of min(32, CPUs+4).
func DefaultCooperativeTasks() int {
	return min(32, Count()+4)
}
