package game

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func standing(uid string, wpm, acc float64, matches int) Standing {
	return Standing{
		UID:         uid,
		DisplayName: "player " + uid,
		Best:        BestScore{Wpm: wpm, Accuracy: acc},
		Bucket: Bucket{
			Count:   matches,
			SumWpm:  wpm * float64(matches),
			SumAcc:  acc * float64(matches),
			BestWpm: wpm,
		},
	}
}

func TestBoardOrderingAndDenseRanks(t *testing.T) {
	standings := []Standing{
		standing("a", 60, 95, 3),
		standing("b", 90, 92, 1),
		standing("c", 75, 98, 7),
	}

	board := Board(standings, ModeAll, 100)
	require.Len(t, board, 3)

	for i, uid := range []string{"b", "c", "a"} {
		assert.Equal(t, i+1, board[i].Rank)
		assert.Equal(t, uid, board[i].UserID)
	}
}

func TestBoardTieBrokenByAccuracy(t *testing.T) {
	standings := []Standing{
		standing("low-acc", 50, 90, 2),
		standing("high-acc", 50, 95, 2),
	}

	board := Board(standings, ModeAll, 100)
	require.Len(t, board, 2)
	assert.Equal(t, "high-acc", board[0].UserID)
	assert.Equal(t, "low-acc", board[1].UserID)
}

func TestBoardTimedModeTieBrokenByMatches(t *testing.T) {
	standings := []Standing{
		standing("few", 80, 95, 2),
		standing("many", 80, 95, 9),
	}

	board := Board(standings, Mode60s, 100)
	require.Len(t, board, 2)
	assert.Equal(t, "many", board[0].UserID)
}

func TestBoardExcludesInactivePlayers(t *testing.T) {
	standings := []Standing{
		standing("active", 40, 90, 1),
		standing("idle", 0, 0, 0),
	}

	for _, mode := range []Mode{ModeAll, Mode60s} {
		board := Board(standings, mode, 100)
		require.Len(t, board, 1, "mode %s", mode)
		assert.Equal(t, "active", board[0].UserID)
	}
}

func TestBoardClampsLimit(t *testing.T) {
	var standings []Standing
	for i := 0; i < 5; i++ {
		standings = append(standings, standing(fmt.Sprintf("u%d", i), float64(50+i), 90, 1))
	}

	assert.Len(t, Board(standings, ModeAll, 0), 1)
	assert.Len(t, Board(standings, ModeAll, -3), 1)
	assert.Len(t, Board(standings, ModeAll, 2), 2)
	assert.Len(t, Board(standings, ModeAll, 500), 5)
	assert.Equal(t, 100, ClampLimit(101))
}

func TestRankAgreesWithBoard(t *testing.T) {
	standings := []Standing{
		standing("a", 60, 95, 3),
		standing("b", 90, 92, 1),
		standing("c", 75, 98, 7),
		standing("d", 75, 98, 7), // égalité parfaite avec c sauf l'UID
		standing("idle", 0, 0, 0),
	}

	for _, mode := range []Mode{ModeAll, Mode60s} {
		board := Board(standings, mode, 100)
		for _, entry := range board {
			result, found := Rank(standings, mode, entry.UserID)
			require.True(t, found)
			assert.Equal(t, entry.Rank, result.Rank,
				"mode %s user %s", mode, entry.UserID)
		}
	}
}

func TestRankPlayerWithoutScores(t *testing.T) {
	standings := []Standing{
		standing("top", 80, 95, 4),
		standing("idle", 0, 0, 0),
	}

	result, found := Rank(standings, ModeAll, "idle")
	require.True(t, found)
	// Tous les joueurs actifs sont devant
	assert.Equal(t, 2, result.Rank)
	assert.Equal(t, 0.0, result.Wpm)
}

func TestRankUnknownUser(t *testing.T) {
	_, found := Rank([]Standing{standing("a", 60, 95, 3)}, ModeAll, "ghost")
	assert.False(t, found)
}

func TestStandingWpmUsesBucketWhenGreater(t *testing.T) {
	s := standing("a", 60, 95, 2)
	s.Bucket.BestWpm = 72
	assert.Equal(t, 72.0, s.Wpm())
}
