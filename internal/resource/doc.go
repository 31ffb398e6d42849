// Package resource implements memory accounting for slot storage.
//
// An arena charges the Controller whenever it has to grow a pool with fresh
// slot storage. Reusing a released slot is free, since its memory is already
// accounted for. Memory is handed back only when the arena is closed.
//
//	rc := resource.NewController(resource.Config{
//	    MemoryLimitBytes: 1 << 20, // 1MB of slot storage
//	})
//
//	// Non-blocking acquire (returns error immediately if limit exceeded)
//	if err := rc.AcquireMemory(64); err != nil {
//	    // ErrMemoryLimitExceeded
//	}
//	defer rc.ReleaseMemory(64)
//
// # Nil Safety
//
// All methods handle a nil Controller gracefully - they become no-ops.
// This allows optional accounting without nil checks everywhere.
package resource
