// Package mmap provides read-only memory-mapped file access for zero-copy dataset loads.
//
// # Usage
//
//	m, err := mmap.Open("sift_base.fvecs")
//	if err != nil { ... }
//	defer m.Close()
//
//	m.Advise(mmap.AccessSequential)
//	data := m.Bytes() // valid until Close
//
// # Platform Support
//
//   - Unix (Linux, macOS, BSD): mmap(2) with madvise(2) hints
//   - Others: the file is read into memory and Advise is a no-op
//
// Bytes must not be used after Close returns.
package mmap
