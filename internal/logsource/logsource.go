package logsource

// LineSource yields input lines one at a time, in order.
type LineSource interface {
	// Next returns the next line without its terminator. ok is false at end of stream.
	Next() (line []byte, ok bool, err error)
	Name() string // "stdin", "reader"
}
