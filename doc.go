// Package norstore implements a log-structured, append-only key/value
// record store for word-addressable, write-once-from-erased memory
// such as NOR flash. Records are validated by checksum so that an
// interrupted write is detected and discarded at the next scan rather
// than corrupting the store, and a schema layer on top projects a
// compile-time-declared set of typed fields onto tagged records.
package norstore
