// Package postgres implémente storage.Store sur PostgreSQL via pgx.
//
// Les agrégats sont tenus à jour par des updates conditionnels exprimés en
// SQL (GREATEST, CASE, compteurs incrémentés en place) dans une unique
// transaction : jamais de lecture-modification-écriture côté application,
// donc pas de mise à jour perdue entre deux soumissions concurrentes du
// même joueur.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/tejas020317/KeyRushers/internal/game"
	"github.com/tejas020317/KeyRushers/internal/identity"
	model "github.com/tejas020317/KeyRushers/internal/models"
	"github.com/tejas020317/KeyRushers/internal/storage"
)

type Store struct {
	db *pgxpool.Pool
}

// NewStore prépare le schéma et retourne le store.
func NewStore(ctx context.Context, db *pgxpool.Pool) (*Store, error) {
	s := &Store{db: db}
	if err := s.createTables(ctx); err != nil {
		return nil, fmt.Errorf("could not create tables: %w", err)
	}
	return s, nil
}

func (s *Store) createTables(ctx context.Context) error {
	schema := `
	CREATE TABLE IF NOT EXISTS players (
		uid TEXT PRIMARY KEY,
		display_name TEXT NOT NULL DEFAULT 'Anonymous',
		email TEXT,
		avatar TEXT,
		bio TEXT NOT NULL DEFAULT '',
		birthdate TEXT NOT NULL DEFAULT '',
		gender TEXT NOT NULL DEFAULT '',
		best_wpm DOUBLE PRECISION NOT NULL DEFAULT 0,
		highest_accuracy DOUBLE PRECISION NOT NULL DEFAULT 0,
		matches_played INTEGER NOT NULL DEFAULT 0,
		tests_count INTEGER NOT NULL DEFAULT 0,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);

	CREATE INDEX IF NOT EXISTS idx_players_best_wpm ON players (best_wpm DESC);

	CREATE TABLE IF NOT EXISTS player_modes (
		uid TEXT NOT NULL REFERENCES players(uid),
		mode TEXT NOT NULL,
		best_wpm DOUBLE PRECISION NOT NULL DEFAULT 0,
		best_accuracy DOUBLE PRECISION NOT NULL DEFAULT 0,
		plays INTEGER NOT NULL DEFAULT 0,
		sum_wpm DOUBLE PRECISION NOT NULL DEFAULT 0,
		sum_acc DOUBLE PRECISION NOT NULL DEFAULT 0,
		top_wpm DOUBLE PRECISION NOT NULL DEFAULT 0,
		PRIMARY KEY (uid, mode)
	);

	CREATE TABLE IF NOT EXISTS scores (
		id UUID PRIMARY KEY,
		uid TEXT NOT NULL REFERENCES players(uid),
		wpm DOUBLE PRECISION NOT NULL,
		accuracy DOUBLE PRECISION NOT NULL,
		actual_accuracy DOUBLE PRECISION NOT NULL,
		duration_sec INTEGER NOT NULL,
		words INTEGER NOT NULL,
		chars INTEGER NOT NULL,
		mode TEXT NOT NULL,
		snapshot_name TEXT NOT NULL,
		snapshot_avatar TEXT,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);

	CREATE INDEX IF NOT EXISTS idx_scores_uid ON scores (uid);
	CREATE INDEX IF NOT EXISTS idx_scores_wpm_created ON scores (wpm DESC, created_at DESC);
	`

	_, err := s.db.Exec(ctx, schema)
	return err
}

const profileColumns = `uid, display_name, COALESCE(email,''), COALESCE(avatar,''),
	bio, birthdate, gender, best_wpm, tests_count, created_at`

func scanProfile(row pgx.Row) (*model.Profile, error) {
	var p model.Profile
	err := row.Scan(&p.UID, &p.DisplayName, &p.Email, &p.Avatar,
		&p.Bio, &p.Birthdate, &p.Gender, &p.BestWpm, &p.TestsCount, &p.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, storage.ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

func (s *Store) EnsureProfile(ctx context.Context, claims identity.Claims) (*model.Profile, error) {
	displayName, avatar := storage.SeedProfile(claims)

	// Ne synchroniser l'email que s'il manque sur le compte existant
	row := s.db.QueryRow(ctx, `
		INSERT INTO players (uid, display_name, email, avatar)
		VALUES ($1, $2, NULLIF($3, ''), $4)
		ON CONFLICT (uid) DO UPDATE SET
			email = COALESCE(players.email, EXCLUDED.email),
			updated_at = NOW()
		RETURNING `+profileColumns,
		claims.UID, displayName, claims.Email, avatar,
	)
	return scanProfile(row)
}

func (s *Store) Profile(ctx context.Context, uid string) (*model.Profile, error) {
	row := s.db.QueryRow(ctx,
		`SELECT `+profileColumns+` FROM players WHERE uid = $1`, uid)
	return scanProfile(row)
}

func (s *Store) UpdateProfile(ctx context.Context, uid string, upd model.ProfileUpdate) (*model.Profile, error) {
	set := []string{"updated_at = NOW()"}
	args := []interface{}{uid}

	appendSet := func(column string, value interface{}) {
		args = append(args, value)
		set = append(set, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	if upd.DisplayName != nil {
		appendSet("display_name", *upd.DisplayName)
	}
	if upd.Bio != nil {
		appendSet("bio", *upd.Bio)
	}
	if upd.Birthdate != nil {
		appendSet("birthdate", *upd.Birthdate)
	}
	if upd.Gender != nil {
		appendSet("gender", *upd.Gender)
	}
	if upd.Avatar != nil {
		appendSet("avatar", *upd.Avatar)
	}

	query := `UPDATE players SET ` + strings.Join(set, ", ") +
		` WHERE uid = $1 RETURNING ` + profileColumns
	return scanProfile(s.db.QueryRow(ctx, query, args...))
}

func (s *Store) SubmitScore(ctx context.Context, rec *model.ScoreRecord) error {
	mode, err := game.ModeForDuration(rec.DurationSec)
	if err != nil {
		return err
	}

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("could not begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	rec.ID = uuid.NewString()
	err = tx.QueryRow(ctx, `
		INSERT INTO scores (id, uid, wpm, accuracy, actual_accuracy,
			duration_sec, words, chars, mode, snapshot_name, snapshot_avatar)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, NULLIF($11, ''))
		RETURNING created_at`,
		rec.ID, rec.UID, rec.Wpm, rec.Accuracy, rec.ActualAccuracy,
		rec.DurationSec, rec.Words, rec.Chars, rec.Mode,
		rec.UserSnapshot.DisplayName, rec.UserSnapshot.Avatar,
	).Scan(&rec.CreatedAt)
	if err != nil {
		return fmt.Errorf("could not insert score: %w", err)
	}

	res, err := tx.Exec(ctx, `
		UPDATE players SET
			best_wpm = GREATEST(best_wpm, $2),
			highest_accuracy = GREATEST(highest_accuracy, $3),
			matches_played = matches_played + 1,
			tests_count = tests_count + 1,
			updated_at = NOW()
		WHERE uid = $1`,
		rec.UID, rec.Wpm, rec.Accuracy,
	)
	if err != nil {
		return fmt.Errorf("could not update player records: %w", err)
	}
	if res.RowsAffected() == 0 {
		return storage.ErrNotFound
	}

	// Créneau du mode puis créneau "all"
	if err := s.bumpMode(ctx, tx, rec.UID, mode, rec.Wpm, rec.Accuracy); err != nil {
		return err
	}
	if err := s.bumpMode(ctx, tx, rec.UID, game.ModeAll, rec.Wpm, rec.Accuracy); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("could not commit score: %w", err)
	}
	return nil
}

// bumpMode applique une soumission au créneau (uid, mode) : compteurs et
// sommes incrémentés, record du créneau remplacé seulement si la paire
// (wpm, accuracy) bat l'ancienne au tie-break.
func (s *Store) bumpMode(ctx context.Context, tx pgx.Tx, uid string, mode game.Mode, wpm, accuracy float64) error {
	_, err := tx.Exec(ctx, `
		INSERT INTO player_modes (uid, mode, best_wpm, best_accuracy, plays, sum_wpm, sum_acc, top_wpm)
		VALUES ($1, $2, $3, $4, 1, $3, $4, $3)
		ON CONFLICT (uid, mode) DO UPDATE SET
			best_accuracy = CASE
				WHEN EXCLUDED.best_wpm > player_modes.best_wpm THEN EXCLUDED.best_accuracy
				WHEN EXCLUDED.best_wpm = player_modes.best_wpm
					AND EXCLUDED.best_accuracy > player_modes.best_accuracy THEN EXCLUDED.best_accuracy
				ELSE player_modes.best_accuracy END,
			best_wpm = GREATEST(player_modes.best_wpm, EXCLUDED.best_wpm),
			plays = player_modes.plays + 1,
			sum_wpm = player_modes.sum_wpm + EXCLUDED.sum_wpm,
			sum_acc = player_modes.sum_acc + EXCLUDED.sum_acc,
			top_wpm = GREATEST(player_modes.top_wpm, EXCLUDED.top_wpm)`,
		uid, string(mode), wpm, accuracy,
	)
	if err != nil {
		return fmt.Errorf("could not bump mode %s: %w", mode, err)
	}
	return nil
}

func (s *Store) Standings(ctx context.Context, mode game.Mode) ([]game.Standing, error) {
	var rows pgx.Rows
	var err error

	if mode == game.ModeAll {
		rows, err = s.db.Query(ctx, `
			SELECT p.uid, p.display_name, COALESCE(p.avatar,''),
				p.best_wpm, p.highest_accuracy,
				COALESCE(m.plays,0), COALESCE(m.sum_wpm,0),
				COALESCE(m.sum_acc,0), COALESCE(m.top_wpm,0)
			FROM players p
			LEFT JOIN player_modes m ON m.uid = p.uid AND m.mode = 'all'
			ORDER BY p.uid`)
	} else {
		rows, err = s.db.Query(ctx, `
			SELECT p.uid, p.display_name, COALESCE(p.avatar,''),
				COALESCE(m.best_wpm,0), COALESCE(m.best_accuracy,0),
				COALESCE(m.plays,0), COALESCE(m.sum_wpm,0),
				COALESCE(m.sum_acc,0), COALESCE(m.top_wpm,0)
			FROM players p
			LEFT JOIN player_modes m ON m.uid = p.uid AND m.mode = $1
			ORDER BY p.uid`, string(mode))
	}
	if err != nil {
		return nil, fmt.Errorf("could not query standings: %w", err)
	}
	defer rows.Close()

	var standings []game.Standing
	for rows.Next() {
		var st game.Standing
		if err := rows.Scan(
			&st.UID, &st.DisplayName, &st.Avatar,
			&st.Best.Wpm, &st.Best.Accuracy,
			&st.Bucket.Count, &st.Bucket.SumWpm,
			&st.Bucket.SumAcc, &st.Bucket.BestWpm,
		); err != nil {
			return nil, fmt.Errorf("could not scan standing row: %w", err)
		}
		standings = append(standings, st)
	}
	return standings, rows.Err()
}
