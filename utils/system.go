package utils

import (
	"fmt"
	"runtime"
)

// MemUsage is a snapshot of the Go runtime memory, sizes in MiB
type MemUsage struct {
	Alloc, TotalAlloc, Sys uint64
	NumGC                  uint32
}

func ReadMemUsage() MemUsage {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	// For info on each, see: https://golang.org/pkg/runtime/#MemStats
	const mib = 1 << 20
	return MemUsage{
		Alloc:      m.Alloc / mib,
		TotalAlloc: m.TotalAlloc / mib,
		Sys:        m.Sys / mib,
		NumGC:      m.NumGC,
	}
}

func (mu MemUsage) String() string {
	return fmt.Sprintf("heap %d MiB (%d MiB allocated in total, %d MiB from the system, %d GC cycles)",
		mu.Alloc, mu.TotalAlloc, mu.Sys, mu.NumGC)
}
