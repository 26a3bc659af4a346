package logging

const (
	// FieldComponent is the standardized structured logging key for component names.
	FieldComponent = "component"
	// FieldRunID identifies one batch invocation.
	FieldRunID = "run_id"
	// FieldStoryID is the canonical story identifier.
	FieldStoryID = "story_id"
	// FieldChapterID is the platform chapter (part) identifier.
	FieldChapterID = "chapter_id"
	// FieldChapterIndex is the position of a chapter in the full parts sequence.
	FieldChapterIndex = "chapter_index"
	// FieldReference is the raw reference supplied by the user.
	FieldReference = "reference"
	// FieldStage is the standardized structured logging key for pipeline stage names.
	FieldStage = "stage"
	// FieldCorrelationID is the standardized structured logging key for request correlation identifiers.
	FieldCorrelationID = "correlation_id"
	// FieldEventType classifies a log line for filtering.
	FieldEventType = "event_type"
	// FieldErrorHint suggests a next step to the operator.
	FieldErrorHint = "error_hint"
	// FieldErrorKind carries services.Kind for failed items.
	FieldErrorKind = "error_kind"
	// FieldImpact is the standardized key for user-facing consequence of a warning.
	FieldImpact = "impact"
)
