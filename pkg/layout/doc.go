// Package layout resolves a tree of size constraints into absolute cell
// rectangles.
//
// Containers stack their children along one axis (Row or Column). Each child
// declares a main-axis constraint: Fixed(n) cells, Percent(p) of the parent's
// content extent, or Fill (share the remaining space equally with the other
// Fill siblings). Min/Max clamps apply after resolution. The solver is
// deterministic: identical input produces identical geometry, including how
// leftover cells are assigned, which the diffing renderer depends on.
package layout
