// Package assign solves the rectangular linear assignment problem.
//
// Given an R×C matrix of finite costs, Solve returns the min(R, C) row/column
// pairs whose summed cost is the global minimum over all one-to-one pairings
// (Hungarian method, Kuhn–Munkres, O(max(R, C)³)).
//
// The solver holds no state between calls; concurrent calls on independent
// or shared read-only matrices are safe. Callers must not mutate a matrix
// while it is being solved.
package assign
