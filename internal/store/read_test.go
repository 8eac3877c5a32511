package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/arbor/internal/ir"
)

func TestReadSession_NotFound(t *testing.T) {
	s := createTestStore(t)

	_, err := s.ReadSession(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = s.LatestSession(context.Background())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestReadSession_RoundTrip(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()
	sess := createTestSession("s1")
	require.NoError(t, s.WriteSession(ctx, sess))

	got, err := s.ReadSession(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, sess, got)
}

func TestLatestSession_HighestID(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()
	for _, id := range []string{"01a", "01c", "01b"} {
		require.NoError(t, s.WriteSession(ctx, createTestSession(id)))
	}

	latest, err := s.LatestSession(ctx)
	require.NoError(t, err)
	assert.Equal(t, "01c", latest.ID)

	all, err := s.ReadSessions(ctx)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, []string{"01a", "01b", "01c"}, []string{all[0].ID, all[1].ID, all[2].ID})
}

func TestReadTurns_OrderedBySeq(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()
	require.NoError(t, s.WriteSession(ctx, createTestSession("s1")))

	for _, seq := range []int64{3, 1, 2} {
		turn, orders := createTestTurn("s1", seq)
		require.NoError(t, s.WriteTurn(ctx, turn, orders))
	}

	turns, err := s.ReadTurns(ctx, "s1")
	require.NoError(t, err)
	require.Len(t, turns, 3)
	for i, turn := range turns {
		assert.Equal(t, int64(i+1), turn.Seq)
		assert.Equal(t, []string{"Selector: root", "Action: attack"}, turn.Trace)
		assert.Equal(t, `{"turn":1}`, turn.Snapshot)
	}
}

func TestReadTurns_EmptyNotNil(t *testing.T) {
	s := createTestStore(t)

	turns, err := s.ReadTurns(context.Background(), "none")
	require.NoError(t, err)
	assert.NotNil(t, turns)
	assert.Empty(t, turns)

	orders, err := s.ReadOrders(context.Background(), "none")
	require.NoError(t, err)
	assert.NotNil(t, orders)
}

func TestReadTurns_EmptyTrace(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()
	require.NoError(t, s.WriteSession(ctx, createTestSession("s1")))

	turn, orders := createTestTurn("s1", 1)
	turn.Trace = nil
	require.NoError(t, s.WriteTurn(ctx, turn, orders))

	turns, err := s.ReadTurns(ctx, "s1")
	require.NoError(t, err)
	require.Len(t, turns, 1)
	assert.Equal(t, []string{}, turns[0].Trace)
}

func TestCountOrders_AcrossTurns(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()
	require.NoError(t, s.WriteSession(ctx, createTestSession("s1")))

	t1, o1 := createTestTurn("s1", 1, ir.OrderRecord{Source: 1, Destination: 2, NumShips: 1})
	t2, o2 := createTestTurn("s1", 2,
		ir.OrderRecord{Source: 1, Destination: 2, NumShips: 1},
		ir.OrderRecord{Source: 2, Destination: 3, NumShips: 4},
	)
	require.NoError(t, s.WriteTurn(ctx, t1, o1))
	require.NoError(t, s.WriteTurn(ctx, t2, o2))

	n, err := s.CountOrders(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)
}

func TestMarshalTrace_Canonical(t *testing.T) {
	out, err := marshalTrace([]string{"Check: a<b", "Action: x"})
	require.NoError(t, err)
	assert.Equal(t, `["Check: a<b","Action: x"]`, out)

	back, err := unmarshalTrace(out)
	require.NoError(t, err)
	assert.Equal(t, []string{"Check: a<b", "Action: x"}, back)
}

func TestUnmarshalTrace_Invalid(t *testing.T) {
	_, err := unmarshalTrace("{")
	assert.Error(t, err)
}
