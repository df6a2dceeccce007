/*
Package runtime implements the annotation session engine.

A Session walks an ordered dataset with a saturating Cursor, resumes at the
first item that has no stored record, tokenizes the current item on demand and
persists records on forward navigation only. A FocusController holds the
per-item slot contents and the (row, slot) focus state machine that token
assignments go through.

The package is single-threaded by contract: callers serialize events.
*/
package runtime
