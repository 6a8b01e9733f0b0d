// Package conv provides checked integer conversions for values read from or
// written to binary headers.
package conv
