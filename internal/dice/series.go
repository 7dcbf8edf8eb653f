package dice

import (
	"bufio"
	"fmt"
	"io"
	"iter"
	"strings"
)

// DefaultPerLine is how many rolls WriteSeries puts on a line.
const DefaultPerLine = 20

// ReadFaces yields every die face found in a plain-text roll series. Blank
// lines and lines starting with '#' are ignored; each character of every
// whitespace separated word is one face. Digits are passed through unchecked
// so that Pairs can report impossible faces.
func ReadFaces(r io.Reader) iter.Seq2[int, error] {
	return func(yield func(int, error) bool) {
		sc := bufio.NewScanner(r)
		line := 0
		for sc.Scan() {
			line++
			text := strings.TrimSpace(sc.Text())
			if text == "" || text[0] == '#' {
				continue
			}
			for _, word := range strings.Fields(text) {
				for _, c := range word {
					if c < '0' || c > '9' {
						yield(0, &ParseError{Line: line, Char: c})
						return
					}
					if !yield(int(c-'0'), nil) {
						return
					}
				}
			}
		}
		if err := sc.Err(); err != nil {
			yield(0, fmt.Errorf("reading roll series: %w", err))
		}
	}
}

// Pairs groups a face stream into rolls. Only the half-pair buffer is kept
// between items. The sequence stops at the first error.
func Pairs(faces iter.Seq2[int, error]) iter.Seq2[Roll, error] {
	return func(yield func(Roll, error) bool) {
		pending := 0
		for f, err := range faces {
			if err != nil {
				yield(Roll{}, err)
				return
			}
			if !ValidFace(f) {
				yield(Roll{}, &ImpossibleDieValueError{Value: f})
				return
			}
			if pending == 0 {
				pending = f
				continue
			}
			r := Roll{D1: pending, D2: f}
			pending = 0
			if !yield(r, nil) {
				return
			}
		}
		if pending != 0 {
			yield(Roll{}, &IncompleteRollSeriesError{Face: pending})
		}
	}
}

// ReadSeries reads a plain-text roll series as rolls.
func ReadSeries(r io.Reader) iter.Seq2[Roll, error] {
	return Pairs(ReadFaces(r))
}

// FromRolls adapts a slice to the sequence shape used by the classifier.
func FromRolls(rolls []Roll) iter.Seq2[Roll, error] {
	return func(yield func(Roll, error) bool) {
		for _, r := range rolls {
			if !yield(r, nil) {
				return
			}
		}
	}
}

// WriteSeries writes header lines (prefixed with "## ") followed by the rolls,
// perLine per line.
func WriteSeries(w io.Writer, header []string, rolls iter.Seq[Roll], perLine int) error {
	if perLine <= 0 {
		perLine = DefaultPerLine
	}
	bw := bufio.NewWriter(w)
	for _, h := range header {
		if _, err := fmt.Fprintf(bw, "## %s\n", h); err != nil {
			return err
		}
	}
	n := 0
	for r := range rolls {
		if n > 0 {
			sep := " "
			if n%perLine == 0 {
				sep = "\n"
			}
			if _, err := bw.WriteString(sep); err != nil {
				return err
			}
		}
		if _, err := bw.WriteString(r.String()); err != nil {
			return err
		}
		n++
	}
	if n > 0 {
		if err := bw.WriteByte('\n'); err != nil {
			return err
		}
	}
	return bw.Flush()
}
