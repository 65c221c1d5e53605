// Package transform implements the ten-stage layered layout pipeline over a
// [dag.Graph]: Build, Acyclic, Rank, Normalize, Denormalize, Fixup,
// Unacyclic, and the metrics shared across stages. Order and Position are
// deliberately not implemented here - they live in
// github.com/sugilayout/sugilayout/pkg/layout/order and .../position as
// swappable collaborators, consistent with the pipeline treating them as
// external.
//
// Stages execute strictly in order and are never run concurrently with one
// another; each operates on the same *dag.Graph passed in by
// github.com/sugilayout/sugilayout/pkg/layout's Engine.
package transform
