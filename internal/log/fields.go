package log

// Canonical field name constants for structured logging.
const (
	FieldService   = "service"
	FieldComponent = "component"

	// Run identity
	FieldRunID   = "run_id"
	FieldVariant = "variant"
	FieldTeam    = "team"

	// Engine progress
	FieldState  = "state"
	FieldStatus = "status"
	FieldStage  = "stage"
	FieldCell   = "cell"
	FieldKind   = "kind"
	FieldRank   = "rank"
	FieldMoves  = "moves_left"

	// Remote API
	FieldEndpoint = "endpoint"
	FieldCode     = "code"
	FieldDuration = "duration_ms"
)
