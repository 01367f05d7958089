//go:build !linux

package cpus

func affinityCount() int { return 0 }
