// Package fs provides filesystem abstractions for testability and fault injection.
//
// The package defines two key interfaces:
//
//   - [File]: a temp file being written
//   - [FileSystem]: create-temp, stat, rename and remove
//
// # Implementations
//
//   - [LocalFS]: production implementation using the standard os package
//   - [FaultyFS]: test utility that injects write, sync, close and remove errors
//
// # Usage
//
// Production code should use fs.Default (which is [LocalFS]):
//
//	f, err := fs.Default.CreateTemp("", "annlab-*.index")
//
// Tests can inject [FaultyFS] to simulate failures:
//
//	ffs := fs.NewFaultyFS(nil)
//	ffs.SetLimit(1024) // fail after 1KB written
//	probe := footprint.New(footprint.WithFileSystem(ffs))
//
// This package intentionally does NOT take context.Context parameters. Local
// filesystem calls are not interruptible at the syscall level. Slow remote
// reads go through blobstore.Store, which is context-aware.
package fs
