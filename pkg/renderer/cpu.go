package renderer

import (
	"runtime"

	"github.com/shirou/gopsutil/v4/cpu"
)

// DefaultNumWorkers returns the number of logical CPUs
func DefaultNumWorkers() int {
	count, err := cpu.Counts(true)
	if err != nil || count <= 0 {
		return runtime.NumCPU()
	}
	return count
}
