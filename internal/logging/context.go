package logging

const (
	// FieldComponent is the standardized structured logging key for component names.
	FieldComponent = "component"
	// FieldCollection is the standardized structured logging key for collection names.
	FieldCollection = "collection"
	// FieldClip is the standardized structured logging key for source clip identifiers.
	FieldClip = "clip"
	// FieldAtom is the standardized structured logging key for receiver atom identifiers.
	FieldAtom = "atom"
	// FieldNode is the standardized structured logging key for receiver node identifiers.
	FieldNode = "node"
	// FieldAction is the standardized structured logging key for host action names.
	FieldAction = "action"
	// FieldTrigger is the standardized structured logging key for trigger source identifiers.
	FieldTrigger = "trigger"
	// FieldPhase is the standardized structured logging key for trigger phases.
	FieldPhase = "phase"
	// FieldEventType classifies a record for filtering (e.g. "receiver_unresolved").
	FieldEventType = "event_type"
	// FieldErrorHint carries the next step an operator should take.
	FieldErrorHint = "error_hint"
	// FieldImpact is the standardized key for user-facing consequence of a warning.
	FieldImpact = "impact"
)
