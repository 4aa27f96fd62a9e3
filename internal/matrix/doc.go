// Package matrix turns raw priority tables into dense cost matrices.
//
// A CostMatrix is created once per allocation request, never mutated and
// carries the labels of both axes so a solver's index pairs can be mapped back
// to topics and students. Every cell of a CostMatrix is finite.
package matrix
