package common

import (
	"os"
	"runtime"
	"runtime/debug"

	"github.com/rs/zerolog/log"
)

// Runtime profiles by host size. Planning requests are short-lived and
// allocation-heavy (one private candidate set per request), so a high GOGC
// with a memory-limit safety net beats the default.
const (
	smallServerGOGC     = 400
	smallServerMemLimit = 2 * 1024 * 1024 * 1024

	largeServerGOGC     = 800
	largeServerMemLimit = 8 * 1024 * 1024 * 1024
)

// InitRuntime configures GOGC, GOMAXPROCS and GOMEMLIMIT for the planning
// workload. Explicit GOGC/GOMAXPROCS/GOMEMLIMIT environment variables always
// win over the detected profile.
func InitRuntime() {
	gogc, memLimit := smallServerGOGC, int64(smallServerMemLimit)
	if runtime.NumCPU() > 4 {
		gogc, memLimit = largeServerGOGC, int64(largeServerMemLimit)
	}

	if os.Getenv("GOGC") == "" {
		debug.SetGCPercent(gogc)
		log.Info().Int("GOGC", gogc).Msg("[runtime] set GOGC")
	}

	if os.Getenv("GOMAXPROCS") == "" {
		procs := runtime.NumCPU()
		if procs > 2 {
			// leave headroom for the OS and network stack
			procs--
		}
		runtime.GOMAXPROCS(procs)
		log.Info().Int("GOMAXPROCS", procs).Int("total_cpu", runtime.NumCPU()).Msg("[runtime] set GOMAXPROCS")
	}

	if os.Getenv("GOMEMLIMIT") == "" {
		debug.SetMemoryLimit(memLimit)
		log.Info().Int64("GOMEMLIMIT_bytes", memLimit).Msg("[runtime] set memory limit")
	}

	var memStats runtime.MemStats
	runtime.ReadMemStats(&memStats)
	log.Info().
		Int("num_cpu", runtime.NumCPU()).
		Int("gomaxprocs", runtime.GOMAXPROCS(0)).
		Uint64("heap_alloc_mb", memStats.HeapAlloc/1024/1024).
		Str("go_version", runtime.Version()).
		Msg("[runtime] current runtime settings")
}
