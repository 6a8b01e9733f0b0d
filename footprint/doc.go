// Package footprint measures the serialized size of an index.
//
// The index is written to a uniquely named temporary file, the file size is
// read back, and the file is removed again on every exit path:
//
//	probe := footprint.New()
//	mib, err := probe.MeasureIn(idx, footprint.MiB)
//
// Indexes that can only serialize to a path (the FAISS write_index shape)
// are adapted with PathWriterFunc.
package footprint
