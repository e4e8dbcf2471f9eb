package model

// DropReason says why a record produced an empty output line.
type DropReason string

const (
	DropNone           DropReason = ""
	DropBelowThreshold DropReason = "below-threshold"
	DropMissingTS      DropReason = "missing-ts"
	DropInvalidTS      DropReason = "invalid-ts"
	DropMissingSource  DropReason = "missing-source"
	DropBlank          DropReason = "blank"
	DropMalformed      DropReason = "malformed"
)

// Outcome is the per-line decision of the transformer.
// A zero Outcome is not valid; use Kept or Dropped.
type Outcome struct {
	Kept   bool
	Reason DropReason // empty when Kept
}

// KeptOutcome marks a record that was written back.
func KeptOutcome() Outcome { return Outcome{Kept: true} }

// DroppedOutcome marks a record replaced by an empty line.
func DroppedOutcome(reason DropReason) Outcome {
	return Outcome{Reason: reason}
}
