package fix

import (
	"errors"
	"testing"
	"unicode/utf8"

	"github.com/tidwall/gjson"

	"github.com/tinytelemetry/datafix/internal/model"
)

func TestNewFillsDefaultPolicies(t *testing.T) {
	t.Parallel()

	tr := New(Config{})
	if tr.cfg.OnMalformed != PolicySkip {
		t.Fatalf("OnMalformed = %q, want %q", tr.cfg.OnMalformed, PolicySkip)
	}
	if tr.cfg.OnMissingTS != PolicySkip {
		t.Fatalf("OnMissingTS = %q, want %q", tr.cfg.OnMissingTS, PolicySkip)
	}
}

func TestTransformKeptRecord(t *testing.T) {
	t.Parallel()

	res, err := New(Config{}).Transform([]byte(`{"_source":{"ts":5,"x":1}}`), 7)
	if err != nil {
		t.Fatalf("Transform returned error: %v", err)
	}
	if !res.Outcome.Kept {
		t.Fatalf("outcome = %+v, want kept", res.Outcome)
	}
	if got := string(res.Line); got != `{"_source":{"ts":5,"x":1,"data":7}}` {
		t.Fatalf("line = %q", got)
	}
	if !gjson.ValidBytes(res.Line) {
		t.Fatalf("line %q is not valid JSON", res.Line)
	}
}

func TestTransformDoesNotModifyInput(t *testing.T) {
	t.Parallel()

	in := []byte(`{"_source":{"ts":5}}`)
	if _, err := New(Config{}).Transform(in, 0); err != nil {
		t.Fatalf("Transform returned error: %v", err)
	}
	if string(in) != `{"_source":{"ts":5}}` {
		t.Fatalf("input mutated to %q", in)
	}
}

func TestTransformDropReasons(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		line string
		want model.DropReason
	}{
		{name: "below threshold", line: `{"_source":{"ts":0}}`, want: model.DropBelowThreshold},
		{name: "blank", line: "  \t", want: model.DropBlank},
		{name: "json null", line: "null", want: model.DropMalformed},
		{name: "invalid utf-8", line: "{\"_source\":{\"ts\":5,\"s\":\"\xff\"}}", want: model.DropMalformed},
		{name: "last duplicate ts wins", line: `{"_source":{"ts":5,"ts":0}}`, want: model.DropBelowThreshold},
		{name: "no source", line: `{"ts":5}`, want: model.DropMissingSource},
		{name: "source not object", line: `{"_source":"ts=5"}`, want: model.DropMissingSource},
		{name: "no ts", line: `{"_source":{}}`, want: model.DropMissingTS},
		{name: "null ts", line: `{"_source":{"ts":null}}`, want: model.DropMissingTS},
		{name: "array ts", line: `{"_source":{"ts":[5]}}`, want: model.DropInvalidTS},
		{name: "word ts", line: `{"_source":{"ts":"later"}}`, want: model.DropInvalidTS},
	}

	tr := New(Config{})
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			res, err := tr.Transform([]byte(tt.line), 0)
			if err != nil {
				t.Fatalf("Transform returned error: %v", err)
			}
			if res.Outcome.Kept {
				t.Fatal("expected record to be dropped")
			}
			if res.Outcome.Reason != tt.want {
				t.Fatalf("reason = %q, want %q", res.Outcome.Reason, tt.want)
			}
			if res.Line != nil {
				t.Fatalf("line = %q, want nil", res.Line)
			}
		})
	}
}

func TestTransformFailPolicies(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		cfg  Config
		line string
		want error
	}{
		{name: "malformed", cfg: Config{OnMalformed: PolicyFail}, line: `{"_source":{"ts":1}`, want: ErrMalformed},
		{name: "top-level array", cfg: Config{OnMalformed: PolicyFail}, line: `[{"_source":{"ts":1}}]`, want: ErrMalformed},
		{name: "trailing garbage", cfg: Config{OnMalformed: PolicyFail}, line: `{"_source":{"ts":1}} x`, want: ErrMalformed},
		{name: "invalid utf-8", cfg: Config{OnMalformed: PolicyFail}, line: "{\"_source\":{\"ts\":5,\"s\":\"\xff\"}}", want: ErrMalformed},
		{name: "duplicate source", cfg: Config{OnMalformed: PolicyFail}, line: `{"_source":{"ts":5},"_source":{}}`, want: ErrDuplicateKey},
		{name: "duplicate data", cfg: Config{OnMalformed: PolicyFail}, line: `{"_source":{"data":0,"data":1,"ts":5}}`, want: ErrDuplicateKey},
		{name: "missing source", cfg: Config{OnMissingTS: PolicyFail}, line: `{}`, want: ErrMissingSource},
		{name: "missing ts", cfg: Config{OnMissingTS: PolicyFail}, line: `{"_source":{}}`, want: ErrMissingTimestamp},
		{name: "invalid ts", cfg: Config{OnMissingTS: PolicyFail}, line: `{"_source":{"ts":"x"}}`, want: ErrInvalidTimestamp},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := New(tt.cfg).Transform([]byte(tt.line), 0)
			if !errors.Is(err, tt.want) {
				t.Fatalf("err = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestTransformBelowThresholdIgnoresPolicies(t *testing.T) {
	t.Parallel()

	tr := New(Config{OnMalformed: PolicyFail, OnMissingTS: PolicyFail})
	res, err := tr.Transform([]byte(`{"_source":{"ts":-1}}`), 0)
	if err != nil {
		t.Fatalf("Transform returned error: %v", err)
	}
	if res.Outcome.Reason != model.DropBelowThreshold {
		t.Fatalf("reason = %q, want %q", res.Outcome.Reason, model.DropBelowThreshold)
	}
}

func TestTransformKeptLineIsValidUTF8(t *testing.T) {
	t.Parallel()

	res, err := New(Config{}).Transform([]byte(`{"_source":{"ts":5,"s":"caf\u00e9 ü"}}`), 0)
	if err != nil {
		t.Fatalf("Transform returned error: %v", err)
	}
	if !res.Outcome.Kept {
		t.Fatalf("outcome = %+v, want kept", res.Outcome)
	}
	if !utf8.Valid(res.Line) || !gjson.ValidBytes(res.Line) {
		t.Fatalf("line %q is not valid UTF-8 JSON", res.Line)
	}
}
