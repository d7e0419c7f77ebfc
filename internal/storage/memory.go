package storage

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/tejas020317/KeyRushers/internal/game"
	"github.com/tejas020317/KeyRushers/internal/identity"
	model "github.com/tejas020317/KeyRushers/internal/models"
)

type playerState struct {
	profile model.Profile
	agg     *game.PlayerAggregate
}

// MemoryStore garde tout en mémoire sous un mutex : les soumissions sont
// appliquées en série, ce qui garantit le contrat de SubmitScore.
type MemoryStore struct {
	mu      sync.RWMutex
	players map[string]*playerState
	scores  []model.ScoreRecord
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{players: make(map[string]*playerState)}
}

func (s *MemoryStore) EnsureProfile(_ context.Context, claims identity.Claims) (*model.Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	state, ok := s.players[claims.UID]
	if !ok {
		displayName, avatar := SeedProfile(claims)
		state = &playerState{
			profile: model.Profile{
				UID:         claims.UID,
				DisplayName: displayName,
				Email:       claims.Email,
				Avatar:      avatar,
				CreatedAt:   time.Now(),
			},
			agg: game.NewPlayerAggregate(claims.UID),
		}
		s.players[claims.UID] = state
	} else if state.profile.Email == "" && claims.Email != "" {
		// Ne synchroniser l'email que s'il manque
		state.profile.Email = claims.Email
	}

	profile := state.profile
	return &profile, nil
}

func (s *MemoryStore) Profile(_ context.Context, uid string) (*model.Profile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	state, ok := s.players[uid]
	if !ok {
		return nil, ErrNotFound
	}
	profile := state.profile
	return &profile, nil
}

func (s *MemoryStore) UpdateProfile(_ context.Context, uid string, upd model.ProfileUpdate) (*model.Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	state, ok := s.players[uid]
	if !ok {
		return nil, ErrNotFound
	}

	if upd.DisplayName != nil {
		state.profile.DisplayName = *upd.DisplayName
	}
	if upd.Bio != nil {
		state.profile.Bio = *upd.Bio
	}
	if upd.Birthdate != nil {
		state.profile.Birthdate = *upd.Birthdate
	}
	if upd.Gender != nil {
		state.profile.Gender = *upd.Gender
	}
	if upd.Avatar != nil {
		state.profile.Avatar = *upd.Avatar
	}

	profile := state.profile
	return &profile, nil
}

func (s *MemoryStore) SubmitScore(_ context.Context, rec *model.ScoreRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	state, ok := s.players[rec.UID]
	if !ok {
		return ErrNotFound
	}

	if _, err := state.agg.Apply(rec.Wpm, rec.Accuracy, rec.DurationSec); err != nil {
		return err
	}

	rec.ID = uuid.NewString()
	rec.CreatedAt = time.Now()
	s.scores = append(s.scores, *rec)

	// Miroir des champs dérivés exposés par le profil
	state.profile.BestWpm = state.agg.BestWpm
	state.profile.TestsCount = state.agg.TestsCount

	return nil
}

func (s *MemoryStore) Standings(_ context.Context, mode game.Mode) ([]game.Standing, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	standings := make([]game.Standing, 0, len(s.players))
	for _, state := range s.players {
		standings = append(standings,
			game.StandingFor(state.agg, mode, state.profile.DisplayName, state.profile.Avatar))
	}

	// Ordre stable pour les tests ; le tri du classement reste dans game.
	sort.Slice(standings, func(i, j int) bool {
		return standings[i].UID < standings[j].UID
	})
	return standings, nil
}

// Scores retourne l'historique brut d'un joueur, du plus récent au plus
// ancien.
func (s *MemoryStore) Scores(uid string) []model.ScoreRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []model.ScoreRecord
	for i := len(s.scores) - 1; i >= 0; i-- {
		if s.scores[i].UID == uid {
			out = append(out, s.scores[i])
		}
	}
	return out
}

// Aggregate expose l'agrégat d'un joueur (copie), pour les tests.
func (s *MemoryStore) Aggregate(uid string) (*game.PlayerAggregate, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	state, ok := s.players[uid]
	if !ok {
		return nil, false
	}
	return state.agg.Clone(), true
}
