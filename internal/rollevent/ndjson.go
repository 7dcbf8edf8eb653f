package rollevent

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"iter"
	"strings"
)

// Decode reads newline-delimited JSON events. Blank lines are skipped.
func Decode(r io.Reader) iter.Seq2[RollEvent, error] {
	return func(yield func(RollEvent, error) bool) {
		sc := bufio.NewScanner(r)
		line := 0
		for sc.Scan() {
			line++
			text := strings.TrimSpace(sc.Text())
			if text == "" {
				continue
			}
			var ev RollEvent
			if err := json.Unmarshal([]byte(text), &ev); err != nil {
				yield(RollEvent{}, fmt.Errorf("line %d: %w", line, err))
				return
			}
			if !yield(ev, nil) {
				return
			}
		}
		if err := sc.Err(); err != nil {
			yield(RollEvent{}, fmt.Errorf("reading events: %w", err))
		}
	}
}

// Encoder writes one JSON event per line.
type Encoder struct {
	enc *json.Encoder
}

// NewEncoder wraps w.
func NewEncoder(w io.Writer) *Encoder {
	return &Encoder{enc: json.NewEncoder(w)}
}

// Encode writes ev followed by a newline.
func (e *Encoder) Encode(ev RollEvent) error {
	return e.enc.Encode(ev)
}
