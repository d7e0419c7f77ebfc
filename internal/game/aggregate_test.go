package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApplyFirstScore(t *testing.T) {
	agg := NewPlayerAggregate("u1")

	mode, err := agg.Apply(80, 95, 60)
	require.NoError(t, err)
	assert.Equal(t, Mode60s, mode)

	assert.Equal(t, BestScore{Wpm: 80, Accuracy: 95}, agg.Best(Mode60s))
	assert.Equal(t, Bucket{Count: 1, SumWpm: 80, SumAcc: 95, BestWpm: 80}, agg.Bucket(Mode60s))
	assert.Equal(t, Bucket{Count: 1, SumWpm: 80, SumAcc: 95, BestWpm: 80}, agg.Bucket(ModeAll))
	assert.Equal(t, 80.0, agg.BestWpm)
	assert.Equal(t, 95.0, agg.HighestAccuracy)
	assert.Equal(t, 1, agg.MatchesPlayed)
	assert.Equal(t, 1, agg.TestsCount)
}

func TestApplyKeepsBestOnLowerWpm(t *testing.T) {
	agg := NewPlayerAggregate("u1")
	_, err := agg.Apply(80, 95, 60)
	require.NoError(t, err)

	_, err = agg.Apply(70, 99, 60)
	require.NoError(t, err)

	// Le record du mode reste la paire (80, 95), mais le créneau cumule
	assert.Equal(t, BestScore{Wpm: 80, Accuracy: 95}, agg.Best(Mode60s))
	assert.Equal(t, Bucket{Count: 2, SumWpm: 150, SumAcc: 194, BestWpm: 80}, agg.Bucket(Mode60s))
	assert.Equal(t, 99.0, agg.HighestAccuracy)
	assert.Equal(t, 2, agg.MatchesPlayed)
}

func TestTieBreakIsOrderIndependent(t *testing.T) {
	a := NewPlayerAggregate("a")
	_, _ = a.Apply(100, 90, 30)
	_, _ = a.Apply(100, 97, 30)

	b := NewPlayerAggregate("b")
	_, _ = b.Apply(100, 97, 30)
	_, _ = b.Apply(100, 90, 30)

	want := BestScore{Wpm: 100, Accuracy: 97}
	assert.Equal(t, want, a.Best(Mode30s))
	assert.Equal(t, want, b.Best(Mode30s))
}

func TestBucketInvariantsOverSequence(t *testing.T) {
	agg := NewPlayerAggregate("u1")

	scores := []struct {
		wpm, acc float64
		dur      int
	}{
		{62, 91, 60}, {88, 96, 60}, {75, 100, 60},
		{110, 88, 15}, {54, 93, 120},
	}

	var sumWpm60, sumAcc60, max60 float64
	for _, s := range scores {
		_, err := agg.Apply(s.wpm, s.acc, s.dur)
		require.NoError(t, err)
		if s.dur == 60 {
			sumWpm60 += s.wpm
			sumAcc60 += s.acc
			if s.wpm > max60 {
				max60 = s.wpm
			}
		}
	}

	bucket := agg.Bucket(Mode60s)
	assert.Equal(t, 3, bucket.Count)
	assert.Equal(t, sumWpm60, bucket.SumWpm)
	assert.Equal(t, sumAcc60, bucket.SumAcc)
	assert.Equal(t, max60, bucket.BestWpm)

	all := agg.Bucket(ModeAll)
	assert.Equal(t, len(scores), all.Count)
	assert.Equal(t, 110.0, all.BestWpm)
	assert.Equal(t, len(scores), agg.MatchesPlayed)
}

func TestReplayIsNotIdempotent(t *testing.T) {
	agg := NewPlayerAggregate("u1")

	// Rejouer le même score double les compteurs : chaque appel vaut
	// un match de plus
	_, _ = agg.Apply(80, 95, 60)
	_, _ = agg.Apply(80, 95, 60)

	assert.Equal(t, 2, agg.MatchesPlayed)
	assert.Equal(t, 2, agg.Bucket(Mode60s).Count)
	assert.Equal(t, 160.0, agg.Bucket(Mode60s).SumWpm)
}

func TestApplyRejectsInvalidDuration(t *testing.T) {
	agg := NewPlayerAggregate("u1")
	_, err := agg.Apply(80, 95, 45)
	assert.Error(t, err)
	assert.Equal(t, 0, agg.MatchesPlayed)
}

func TestAverages(t *testing.T) {
	b := Bucket{Count: 2, SumWpm: 151, SumAcc: 189}
	assert.Equal(t, 76, b.AvgWpm()) // 75.5 arrondi
	assert.Equal(t, 95, b.AvgAcc()) // 94.5 arrondi
	assert.Equal(t, 0, Bucket{}.AvgWpm())
}
