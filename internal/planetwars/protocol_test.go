package planetwars

import (
	"bufio"
	"bytes"
	"context"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseState(t *testing.T) {
	s := mustParse(t, twoPlayerMap)

	p := s.Planet(1)
	require.NotNil(t, p)
	assert.Equal(t, Planet{ID: 1, X: 3, Y: 4, Owner: 1, NumShips: 20, GrowthRate: 2}, *p)
	assert.Equal(t, Fleet{Owner: 2, NumShips: 10, Source: 2, Destination: 0, TotalTripLength: 10, TurnsRemaining: 4}, *s.Fleets()[0])
}

func TestParseState_Errors(t *testing.T) {
	tests := []struct {
		name string
		text string
		line int
		msg  string
	}{
		{"unknown record", "P 0 0 1 1 1\nX 1\n", 2, `unknown record type "X"`},
		{"short planet", "P 0 0 1 1\n", 1, "planet needs 5 fields, got 4"},
		{"bad float", "P a 0 1 1 1\n", 1, "planet x"},
		{"bad int", "P 0 0 1 many 1\n", 1, `planet ships: "many" is not an integer`},
		{"negative", "P 0 0 1 -3 1\n", 1, "planet ships: -3 is negative"},
		{"short fleet", "F 1 2 3\n", 1, "fleet needs 6 fields, got 3"},
		{"dangling fleet", "P 0 0 1 1 1\nF 1 1 0 4 2 2\n", 0, "fleet references unknown planet (0 -> 4)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseState(tt.text)
			require.Error(t, err)

			var pe *ParseError
			require.ErrorAs(t, err, &pe)
			assert.Equal(t, tt.line, pe.Line)
			assert.Contains(t, pe.Message, tt.msg)
			assert.True(t, IsParseError(err))
		})
	}
}

func TestParseState_Empty(t *testing.T) {
	s := mustParse(t, "\n# nothing here\n")
	assert.Empty(t, s.Planets())
}

func TestTurnReader_ReadsTurns(t *testing.T) {
	input := "P 0 0 1 10 1\nP 1 0 2 10 1\ngo\nP 0 0 1 12 1\nP 1 0 2 11 1\nF 1 5 0 1 1 1\ngo\n"
	r := NewTurnReader(strings.NewReader(input))
	ctx := context.Background()

	first, err := r.Next(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, first.Turn)
	assert.Len(t, first.Fleets(), 0)

	second, err := r.Next(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, second.Turn)
	assert.Equal(t, 12, second.Planet(0).NumShips)
	assert.Len(t, second.MyFleets(), 1)

	_, err = r.Next(ctx)
	assert.ErrorIs(t, err, io.EOF)
}

func TestTurnReader_TruncatedTurn(t *testing.T) {
	r := NewTurnReader(strings.NewReader("P 0 0 1 10 1\n"))

	_, err := r.Next(context.Background())
	assert.ErrorIs(t, err, io.ErrUnexpectedEOF)
}

func TestTurnReader_ParseErrorCarriesTurn(t *testing.T) {
	r := NewTurnReader(strings.NewReader("P 0 0\ngo\n"))

	_, err := r.Next(context.Background())
	require.Error(t, err)
	assert.True(t, IsParseError(err))
	assert.Contains(t, err.Error(), "turn 1: line 1")
}

func TestTurnReader_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewTurnReader(strings.NewReader("P 0 0 1 1 1\ngo\n")).Next(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestTurnReader_CancelWhileHostIdle(t *testing.T) {
	pr, pw := io.Pipe()
	defer pw.Close()

	ctx, cancel := context.WithCancel(context.Background())
	r := NewTurnReader(pr)

	errc := make(chan error, 1)
	go func() {
		_, err := r.Next(ctx)
		errc <- err
	}()

	cancel()
	select {
	case err := <-errc:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(2 * time.Second):
		t.Fatal("Next still blocked after cancel")
	}
}

func TestTurnReader_EOFIsSticky(t *testing.T) {
	r := NewTurnReader(strings.NewReader("P 0 0 1 1 1\ngo\n"))
	ctx := context.Background()

	_, err := r.Next(ctx)
	require.NoError(t, err)
	_, err = r.Next(ctx)
	assert.ErrorIs(t, err, io.EOF)
	_, err = r.Next(ctx)
	assert.ErrorIs(t, err, io.EOF)
}

func TestWriteOrders(t *testing.T) {
	var buf bytes.Buffer
	bw := bufio.NewWriter(&buf)

	err := WriteOrders(bw, []Order{{Source: 0, Destination: 2, NumShips: 50}, {Source: 1, Destination: 4, NumShips: 3}})
	require.NoError(t, err)

	assert.Equal(t, "0 2 50\n1 4 3\ngo\n", buf.String(), "buffered writer is flushed")
}

func TestWriteOrders_NoOrders(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteOrders(&buf, nil))
	assert.Equal(t, "go\n", buf.String())
}
