// Package table reads the delimited priority tables the allocator works on.
//
// The first column of a file holds row labels (topics), the header row holds
// column labels (students) and every other cell is a declared priority.
// Cells that are empty or not a finite real number are kept as Missing rather
// than rejected; deciding what they cost is the normalizer's job.
//
//	;Anna;Ben;Carla
//	Graph Theory;1;2;
//	Compilers;;1;3
package table
