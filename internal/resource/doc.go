// Package resource bounds what an experiment may consume: concurrent workers,
// tracked dataset memory and IO throughput.
//
// A nil *Controller is valid and imposes no limits.
package resource
