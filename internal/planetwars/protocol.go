package planetwars

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"
)

// ParseError reports a malformed map line.
type ParseError struct {
	Line    int    // 1-based line number within the turn
	Message string
}

// Error implements the error interface.
func (e *ParseError) Error() string {
	return fmt.Sprintf("line %d: %s", e.Line, e.Message)
}

// ParseState parses one turn of map text (without the trailing "go").
// Blank lines are ignored and "#" starts a comment.
func ParseState(text string) (*State, error) {
	var planets []Planet
	var fleets []Fleet

	for i, raw := range strings.Split(text, "\n") {
		line := raw
		if idx := strings.IndexByte(line, '#'); idx >= 0 {
			line = line[:idx]
		}
		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}

		switch fields[0] {
		case "P":
			p, err := parsePlanet(fields[1:])
			if err != nil {
				return nil, &ParseError{Line: i + 1, Message: err.Error()}
			}
			planets = append(planets, p)
		case "F":
			f, err := parseFleet(fields[1:])
			if err != nil {
				return nil, &ParseError{Line: i + 1, Message: err.Error()}
			}
			fleets = append(fleets, f)
		default:
			return nil, &ParseError{Line: i + 1, Message: fmt.Sprintf("unknown record type %q", fields[0])}
		}
	}

	for _, f := range fleets {
		if f.Source >= len(planets) || f.Destination >= len(planets) {
			return nil, &ParseError{Message: fmt.Sprintf("fleet references unknown planet (%d -> %d)", f.Source, f.Destination)}
		}
	}

	return NewState(planets, fleets), nil
}

func parsePlanet(fields []string) (Planet, error) {
	if len(fields) != 5 {
		return Planet{}, fmt.Errorf("planet needs 5 fields, got %d", len(fields))
	}
	x, err := strconv.ParseFloat(fields[0], 64)
	if err != nil {
		return Planet{}, fmt.Errorf("planet x: %w", err)
	}
	y, err := strconv.ParseFloat(fields[1], 64)
	if err != nil {
		return Planet{}, fmt.Errorf("planet y: %w", err)
	}
	ints, err := atois(fields[2:], "owner", "ships", "growth")
	if err != nil {
		return Planet{}, fmt.Errorf("planet %w", err)
	}
	return Planet{X: x, Y: y, Owner: ints[0], NumShips: ints[1], GrowthRate: ints[2]}, nil
}

func parseFleet(fields []string) (Fleet, error) {
	if len(fields) != 6 {
		return Fleet{}, fmt.Errorf("fleet needs 6 fields, got %d", len(fields))
	}
	ints, err := atois(fields, "owner", "ships", "source", "destination", "total", "remaining")
	if err != nil {
		return Fleet{}, fmt.Errorf("fleet %w", err)
	}
	return Fleet{
		Owner:           ints[0],
		NumShips:        ints[1],
		Source:          ints[2],
		Destination:     ints[3],
		TotalTripLength: ints[4],
		TurnsRemaining:  ints[5],
	}, nil
}

func atois(fields []string, names ...string) ([]int, error) {
	out := make([]int, len(fields))
	for i, f := range fields {
		n, err := strconv.Atoi(f)
		if err != nil {
			return nil, fmt.Errorf("%s: %q is not an integer", names[i], f)
		}
		if n < 0 {
			return nil, fmt.Errorf("%s: %d is negative", names[i], n)
		}
		out[i] = n
	}
	return out, nil
}

// TurnReader splits a protocol stream into turns.
//
// Lines are scanned on a separate goroutine so Next can return as soon as
// its context is cancelled, even while the host is silent. That goroutine
// exits when the stream ends; a reader abandoned mid-stream leaves it
// blocked in Read until the underlying reader is closed.
type TurnReader struct {
	src   io.Reader
	once  sync.Once
	lines chan scanned
	done  error // sticky end-of-stream error
	turn  int
}

// scanned is one line, or the terminal scanner error (nil at clean EOF).
type scanned struct {
	text string
	err  error
	end  bool
}

// NewTurnReader reads turns from r.
func NewTurnReader(r io.Reader) *TurnReader {
	return &TurnReader{src: r, lines: make(chan scanned)}
}

func (r *TurnReader) scan() {
	sc := bufio.NewScanner(r.src)
	for sc.Scan() {
		r.lines <- scanned{text: sc.Text()}
	}
	r.lines <- scanned{err: sc.Err(), end: true}
	close(r.lines)
}

// Next reads lines up to the next "go" and parses them.
//
// It returns io.EOF when the stream ends cleanly between turns and
// io.ErrUnexpectedEOF when it ends inside one. A cancelled ctx returns
// ctx.Err() without waiting for more input.
func (r *TurnReader) Next(ctx context.Context) (*State, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if r.done != nil {
		return nil, r.done
	}
	r.once.Do(func() { go r.scan() })

	var b strings.Builder
	pending := false

	for {
		var line scanned
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case line = <-r.lines:
		}

		if line.end {
			switch {
			case line.err != nil:
				r.done = line.err
			case pending:
				r.done = fmt.Errorf("turn %d: %w", r.turn+1, io.ErrUnexpectedEOF)
			default:
				r.done = io.EOF
			}
			return nil, r.done
		}

		if strings.HasPrefix(strings.TrimSpace(line.text), "go") {
			r.turn++
			state, err := ParseState(b.String())
			if err != nil {
				return nil, fmt.Errorf("turn %d: %w", r.turn, err)
			}
			state.Turn = r.turn
			return state, nil
		}
		b.WriteString(line.text)
		b.WriteByte('\n')
		if strings.TrimSpace(line.text) != "" {
			pending = true
		}
	}
}

// WriteOrders writes orders in protocol form followed by "go". A
// *bufio.Writer is flushed so the host sees the whole turn.
func WriteOrders(w io.Writer, orders []Order) error {
	for _, o := range orders {
		if _, err := fmt.Fprintf(w, "%d %d %d\n", o.Source, o.Destination, o.NumShips); err != nil {
			return err
		}
	}
	if _, err := io.WriteString(w, "go\n"); err != nil {
		return err
	}
	if bw, ok := w.(*bufio.Writer); ok {
		return bw.Flush()
	}
	return nil
}

// IsParseError reports whether err is, or wraps, a ParseError.
func IsParseError(err error) bool {
	var pe *ParseError
	return errors.As(err, &pe)
}
