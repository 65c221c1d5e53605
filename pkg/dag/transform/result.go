package transform

// StageResult carries metrics about the transformations a single pipeline
// stage applied to a [dag.Graph]. Engine accumulates one per stage into
// layout.Stats; this is useful for logging, debugging, and understanding
// graph complexity, mirroring the teacher's TransformResult.
type StageResult struct {
	// Stage is the pipeline stage name ("build", "acyclic", "rank", ...).
	Stage string

	// EdgesReversed is the number of edges flipped to break a cycle. Set by
	// Acyclic; zero indicates the input was already a DAG. Fixup reuses it
	// for the reversed polylines it corrects, and Unacyclic for the edges
	// it restores.
	EdgesReversed int

	// EdgesDeduped is the number of redundant mirror edges Build added for
	// undirected input, removed once Acyclic has oriented both halves of
	// the pair the same way. Set by Acyclic; zero for directed input.
	EdgesDeduped int

	// CompoundsCreated is the number of rank-group compound nodes created
	// during rank-constraint reduction. Set by Rank.
	CompoundsCreated int

	// SimplexPivots is the number of leave/enter/exchange pivots performed
	// during network-simplex refinement. Set by Rank.
	SimplexPivots int

	// DummiesAdded is the number of synthetic dummy nodes inserted to make
	// every edge span exactly one rank. Set by Normalize.
	DummiesAdded int

	// DummiesRemoved is the number of dummy nodes collapsed back into
	// polyline edges. Set by Denormalize.
	DummiesRemoved int

	// MaxRank is the highest assigned rank after the stage runs.
	MaxRank int
}
