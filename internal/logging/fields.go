package logging

const (
	// FieldComponent names the subsystem that emitted the line.
	FieldComponent = "component"
	// FieldSessionID is the recording session identifier.
	FieldSessionID = "session_id"
	// FieldSentence is the corpus sentence index.
	FieldSentence = "sentence"
	// FieldEventType names the event so log lines can be filtered without parsing messages.
	FieldEventType = "event_type"
	// FieldErrorHint tells the operator what to try next.
	FieldErrorHint = "error_hint"
	// FieldImpact says what a warning means for the session.
	FieldImpact = "impact"
)
