package model

// Shared defaults used by the CLI and the line transformer.
const (
	// SourceField holds the document body in a reindex record.
	SourceField = "_source"
	// TimestampField is read from SourceField to decide whether a record is kept.
	TimestampField = "ts"
	// SequenceField is overwritten in SourceField with the record's zero-based line index.
	SequenceField = "data"
	// MinTimestamp is the smallest ts value that keeps a record.
	MinTimestamp = 1
)
