package fix

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log"

	"github.com/tinytelemetry/datafix/internal/logsource"
	"github.com/tinytelemetry/datafix/internal/model"
)

// Run transforms src line by line into w until end of stream.
// Every input line yields exactly one output line, flushed immediately so a
// parent process waiting on each response is never stalled.
// The counter starts at 0 for each call. ctx is checked between lines.
func (t *Transformer) Run(ctx context.Context, src logsource.LineSource, w io.Writer) (model.Stats, error) {
	stats := model.NewStats()
	bw := bufio.NewWriter(w)
	seq := 0

	for {
		if err := ctx.Err(); err != nil {
			return stats, err
		}

		line, ok, err := src.Next()
		if err != nil {
			return stats, fmt.Errorf("fix: read line %d: %w", seq+1, err)
		}
		if !ok {
			return stats, nil
		}
		stats.Read++

		res, err := t.Transform(line, seq)
		seq++
		if err != nil {
			return stats, &LineError{Line: seq, Err: err}
		}
		stats.Add(res.Outcome)

		if t.cfg.Debug && !res.Outcome.Kept {
			log.Printf("fix: line %d dropped (%s)", seq, res.Outcome.Reason)
		}

		if err := writeLine(bw, res.Line); err != nil {
			return stats, fmt.Errorf("fix: write line %d: %w", seq, err)
		}
	}
}

func writeLine(bw *bufio.Writer, line []byte) error {
	if _, err := bw.Write(line); err != nil {
		return err
	}
	if err := bw.WriteByte('\n'); err != nil {
		return err
	}
	return bw.Flush()
}
