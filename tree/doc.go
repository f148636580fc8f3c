// Package tree implements the random cut tree: an incremental binary space
// partition over a sliding reservoir of points, with a bounding-box cache
// discipline and a pluggable visitor traversal protocol.
package tree
