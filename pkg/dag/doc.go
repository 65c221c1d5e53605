// Package dag provides the working-graph arena consumed by the layout
// pipeline: stable-handle nodes and edges, predecessor/successor iteration,
// weakly-connected components, a predicate filter, a decrease-key priority
// queue, and Fenwick-tree-based rank-crossing counting.
//
// The [transform] subpackage implements the ten-stage pipeline over a Graph.
//
// [transform]: github.com/sugilayout/sugilayout/pkg/dag/transform
package dag
