// Package index defines the capability an experiment needs from an index
// under test, and a name registry of index factories.
//
// An index is built with Add, queried with Search and serialized with
// WriteTo, which is all the footprint probe needs:
//
//	f, _ := index.Lookup("flat")
//	idx, _ := f(128)
//	_ = idx.Add(ctx, base)
//	ids, _ := idx.Search(ctx, queries, 10)
//
// Implementations register themselves from an init function, so importing
// the implementation package for side effects makes it selectable by name.
package index
