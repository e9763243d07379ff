// Package weft is a terminal user-interface rendering core: it decodes raw
// terminal bytes into structured input events, lays out a tree of styled
// components into absolute cell rectangles, composites the tree and any
// floating overlays into a double-buffered cell grid, and diffs consecutive
// frames into the minimal sequence of positioned draw operations.
//
// The package owns no I/O policy of its own. Byte input, draw-op output, and
// raw-mode switching are collaborator interfaces (InputSource, Terminal); an
// ANSI implementation backed by golang.org/x/term and golang.org/x/sys is
// provided for Unix terminals.
package weft
