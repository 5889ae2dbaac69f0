// Package zerologadapter provides a zerolog-backed implementation of the
// lending.Logger interface.
package zerologadapter
