// Package bitmap provides compressed sets of slot indices.
//
// Slot pools use one Set for the indices currently owned by a live value and
// one for the indices retired at the terminal generation. Both are sparse in
// practice (long-lived arenas churn through a small working set), which is
// the workload Roaring containers are designed for.
package bitmap
