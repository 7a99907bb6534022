package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestReadMemUsage(t *testing.T) {
	buf := make([][]byte, 0, 4)
	for i := 0; i < 4; i++ {
		buf = append(buf, make([]byte, 1<<20))
	}
	mu := ReadMemUsage()
	assert.LessOrEqual(t, mu.Alloc, mu.Sys)
	assert.LessOrEqual(t, mu.Alloc, mu.TotalAlloc)
	assert.NotZero(t, mu.TotalAlloc)
	assert.Equal(t, "heap 3 MiB (9 MiB allocated in total, 12 MiB from the system, 2 GC cycles)",
		MemUsage{Alloc: 3, TotalAlloc: 9, Sys: 12, NumGC: 2}.String())
	assert.Len(t, buf, 4)
}
