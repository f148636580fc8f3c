// Package rcf holds the shapes shared by every layer of the random-cut-tree
// engine: points, bounding boxes, cuts, and the sentinel error kinds that
// the tree, point store, and forest packages all wrap with call-site
// context.
package rcf
