// Package render turns layout results into output artifacts.
//
// Two sinks exist: a direct SVG writer that honors every layout decision
// (handles, offsets, couple colors, forks, marker shapes), and a Graphviz
// DOT export of the raw family graph for debugging and external tooling.
// JSON output of the layout result itself also lives here so the pipeline
// has one package for all artifact formats.
package render
