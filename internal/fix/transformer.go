package fix

import (
	"bytes"
	"errors"
	"unicode/utf8"

	"github.com/tidwall/gjson"
	"github.com/tidwall/pretty"
	"github.com/tidwall/sjson"

	"github.com/tinytelemetry/datafix/internal/model"
)

// sequencePath is the sjson path overwritten with the line counter.
const sequencePath = model.SourceField + "." + model.SequenceField

// Config controls how the transformer reacts to records it cannot judge.
type Config struct {
	OnMalformed Policy // default PolicySkip
	OnMissingTS Policy // default PolicySkip; also covers missing _source and non-numeric ts
	Debug       bool   // log every dropped record
}

// Transformer stamps each record with its line index and filters on _source.ts.
// It edits the raw JSON so key order and number spelling survive untouched.
// A Transformer holds no stream state and can be reused across Run calls.
type Transformer struct {
	cfg Config
}

// Result holds the output of transforming one line.
type Result struct {
	Line    []byte // nil for a dropped record
	Outcome model.Outcome
}

// New creates a Transformer, filling unset policies with their defaults.
func New(cfg Config) *Transformer {
	if cfg.OnMalformed == "" {
		cfg.OnMalformed = PolicySkip
	}
	if cfg.OnMissingTS == "" {
		cfg.OnMissingTS = PolicySkip
	}
	return &Transformer{cfg: cfg}
}

// Transform processes one input line carrying counter value seq.
// It returns an error only when the matching policy is PolicyFail.
func (t *Transformer) Transform(line []byte, seq int) (Result, error) {
	trimmed := bytes.TrimSpace(line)
	if len(trimmed) == 0 {
		return dropped(model.DropBlank), nil
	}

	// gjson does not check string contents, so UTF-8 is validated separately.
	doc := gjson.ParseBytes(trimmed)
	if !gjson.ValidBytes(trimmed) || !utf8.Valid(trimmed) || !doc.IsObject() {
		return t.fault(t.cfg.OnMalformed, model.DropMalformed, ErrMalformed)
	}

	source, n := lastMember(doc, model.SourceField)
	if n > 1 {
		return t.fault(t.cfg.OnMalformed, model.DropMalformed, ErrDuplicateKey)
	}
	if !source.IsObject() {
		return t.fault(t.cfg.OnMissingTS, model.DropMissingSource, ErrMissingSource)
	}
	if _, n := lastMember(source, model.SequenceField); n > 1 {
		return t.fault(t.cfg.OnMalformed, model.DropMalformed, ErrDuplicateKey)
	}

	tsField, _ := lastMember(source, model.TimestampField)
	ts, err := timestampValue(tsField)
	if err != nil {
		reason := model.DropInvalidTS
		if errors.Is(err, ErrMissingTimestamp) {
			reason = model.DropMissingTS
		}
		return t.fault(t.cfg.OnMissingTS, reason, err)
	}

	if ts < model.MinTimestamp {
		return dropped(model.DropBelowThreshold), nil
	}

	out, err := sjson.SetBytes(trimmed, sequencePath, seq)
	if err != nil {
		// Unreachable for a validated object; treated like a malformed line.
		return t.fault(t.cfg.OnMalformed, model.DropMalformed, err)
	}

	return Result{
		Line:    pretty.Ugly(out),
		Outcome: model.KeptOutcome(),
	}, nil
}

func (t *Transformer) fault(policy Policy, reason model.DropReason, err error) (Result, error) {
	if policy == PolicyFail {
		return Result{}, err
	}
	return dropped(reason), nil
}

func dropped(reason model.DropReason) Result {
	return Result{Outcome: model.DroppedOutcome(reason)}
}

// lastMember returns the last value stored under key in obj and how many times
// the key occurs. Duplicate keys resolve last-wins, like encoding/json and PHP.
func lastMember(obj gjson.Result, key string) (gjson.Result, int) {
	var last gjson.Result
	n := 0
	obj.ForEach(func(k, v gjson.Result) bool {
		if k.Str == key {
			last = v
			n++
		}
		return true
	})
	return last, n
}
