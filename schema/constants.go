package schema

// Custom string types for type safety.
type (
	// EventKind represents the kind of a normalized activity event.
	EventKind string

	// Component represents one of the four coherence sub-scores.
	Component string

	// NodeKind represents the kind of an attribution graph node.
	NodeKind string

	// ResidueClass represents one of the fixed residue taxonomy classes.
	ResidueClass string

	// ResidueDepth represents the recursive depth of a residue instance.
	ResidueDepth string

	// ResidueValence represents the valence of a residue instance.
	ResidueValence string

	// ResidueStatus represents the lifecycle status of a residue instance.
	ResidueStatus string

	// ResidueReporter represents who reported a residue instance.
	ResidueReporter string

	// TrendDirection represents the movement of a score between periods.
	TrendDirection string

	// OutputMode represents the format of the output.
	OutputMode string

	// DatabaseBackend represents the database backend for the run ledger.
	DatabaseBackend string

	// RunStatus represents the state of a recorded engine run.
	RunStatus string

	// ExportKind represents an artifact family exportable to parquet.
	ExportKind string
)

// All event kinds produced by the ingestor. The enum is closed: the
// ingestion boundary rejects anything else.
const (
	CommitEvent       EventKind = "commit"
	IssueOpenEvent    EventKind = "issue_open"
	IssueCommentEvent EventKind = "issue_comment"
	PROpenEvent       EventKind = "pr_open"
	PRReviewEvent     EventKind = "pr_review"
	PRCommentEvent    EventKind = "pr_comment"
	PRCommitEvent     EventKind = "pr_commit"
)

// The four coherence components, in declaration order. Recommendation
// ordering follows this order, not severity.
const (
	SignalComponent   Component = "signal"
	FeedbackComponent Component = "feedback"
	BoundedComponent  Component = "bounded"
	ElasticComponent  Component = "elastic"
)

// All attribution graph node kinds.
const (
	ContributorNode NodeKind = "contributor"
	ContentNode     NodeKind = "content"
)

// The fixed residue taxonomy, in declaration order. Keyword-vote ties
// resolve toward the earlier class; an all-zero vote defaults to
// LinguisticUncertainty.
const (
	LinguisticUncertainty     ResidueClass = "linguistic_uncertainty"
	UnsupportedAssertion      ResidueClass = "unsupported_assertion"
	ArticulationGap           ResidueClass = "articulation_gap"
	ScopeBoundary             ResidueClass = "scope_boundary"
	AcknowledgedContradiction ResidueClass = "acknowledged_contradiction"
)

// All residue depths supported.
const (
	SurfaceDepth      ResidueDepth = "surface"
	IntermediateDepth ResidueDepth = "intermediate"
	DeepDepth         ResidueDepth = "deep"
)

// All residue valences supported.
const (
	NegativeValence ResidueValence = "negative"
	NeutralValence  ResidueValence = "neutral"
	PositiveValence ResidueValence = "positive"
)

// All residue statuses supported.
const (
	ActiveResidue   ResidueStatus = "active"
	PendingResidue  ResidueStatus = "pending"
	ResolvedResidue ResidueStatus = "resolved"
)

// All residue reporters supported.
const (
	AuthorReporter ResidueReporter = "author"
	SystemReporter ResidueReporter = "system"
)

// All trend directions supported.
const (
	TrendUp     TrendDirection = "up"
	TrendDown   TrendDirection = "down"
	TrendStable TrendDirection = "stable"
)

// All output modes supported.
const (
	CSVOut     OutputMode = "csv"
	TextOut    OutputMode = "text" // default
	JSONOut    OutputMode = "json"
	ParquetOut OutputMode = "parquet"
)

// All run ledger backends supported.
const (
	SQLiteBackend     DatabaseBackend = "sqlite" // default
	MySQLBackend      DatabaseBackend = "mysql"
	PostgreSQLBackend DatabaseBackend = "postgresql"
	NoneBackend       DatabaseBackend = "none"
)

// All run statuses supported.
const (
	RunningStatus   RunStatus = "running"
	CompletedStatus RunStatus = "completed"
	FailedStatus    RunStatus = "failed"
)

// All parquet export kinds supported.
const (
	HistoryExport ExportKind = "history"
	GraphExport   ExportKind = "graph"
	ResidueExport ExportKind = "residue"
)

// AllComponents returns the four components in declaration order.
var AllComponents = []Component{SignalComponent, FeedbackComponent, BoundedComponent, ElasticComponent}

// AllResidueClasses returns the taxonomy in declaration order.
var AllResidueClasses = []ResidueClass{
	LinguisticUncertainty,
	UnsupportedAssertion,
	ArticulationGap,
	ScopeBoundary,
	AcknowledgedContradiction,
}

// AllEventKinds returns every event kind the ingestor may produce.
var AllEventKinds = []EventKind{
	CommitEvent,
	IssueOpenEvent,
	IssueCommentEvent,
	PROpenEvent,
	PRReviewEvent,
	PRCommentEvent,
	PRCommitEvent,
}

// ValidEventKinds lists all valid event kinds.
var ValidEventKinds = map[EventKind]struct{}{
	CommitEvent:       {},
	IssueOpenEvent:    {},
	IssueCommentEvent: {},
	PROpenEvent:       {},
	PRReviewEvent:     {},
	PRCommentEvent:    {},
	PRCommitEvent:     {},
}

// ValidOutputModes lists all valid output modes.
var ValidOutputModes = map[OutputMode]struct{}{
	CSVOut:     {},
	TextOut:    {},
	JSONOut:    {},
	ParquetOut: {},
}

// ValidStoreBackends lists all valid run ledger backends.
var ValidStoreBackends = map[DatabaseBackend]struct{}{
	SQLiteBackend:     {},
	MySQLBackend:      {},
	PostgreSQLBackend: {},
	NoneBackend:       {},
}

// ValidExportKinds lists all valid export kinds.
var ValidExportKinds = map[ExportKind]struct{}{
	HistoryExport: {},
	GraphExport:   {},
	ResidueExport: {},
}

// ValidResidueClasses lists all valid residue classes.
var ValidResidueClasses = map[ResidueClass]struct{}{
	LinguisticUncertainty:     {},
	UnsupportedAssertion:      {},
	ArticulationGap:           {},
	ScopeBoundary:             {},
	AcknowledgedContradiction: {},
}

// LinkWeight returns the fixed link weight for an event kind. Commit
// kinds carry no fixed weight; their links are weighted by changed-line
// count at fold time, so this returns 0 for them.
func LinkWeight(kind EventKind) float64 {
	switch kind {
	case IssueOpenEvent, PROpenEvent:
		return 1.0
	case PRReviewEvent:
		return 0.8
	case IssueCommentEvent, PRCommentEvent:
		return 0.5
	default:
		return 0
	}
}
