// Package layout turns a family tree into positioned nodes and routed edges.
//
// The engine is a pure function: one call to [Engine.Layout] consumes a
// consistent tree snapshot plus settings and produces a complete [Result].
// Nothing is persisted and nothing blocks; callers re-run the engine on every
// relevant change and the new result supersedes the old one.
//
// Stages run in a fixed order, each consuming only earlier outputs:
// sibling inference, rank layout, partner alignment and overlap resolution,
// friend placement, entity indexing, node assembly, couple colors, fork
// detection, edge assembly, and overlap disambiguation.
//
// The engine never fails. Malformed input (edges to missing persons, cyclic
// parent links, unplaced nodes) degrades to documented fallbacks so every
// run terminates with a renderable layout.
package layout
