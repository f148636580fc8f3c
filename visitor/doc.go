// Package visitor holds the two reference tree.Visitor/tree.MultiVisitor
// implementations: anomaly scoring and missing-coordinate imputation.
package visitor
