// Package pointstore implements the reference-counted arena of fixed-
// dimension vectors shared by every tree in a forest: admission, reference
// counting, compaction, internal shingling, and the compact persisted
// State used to restart a store from disk.
package pointstore
