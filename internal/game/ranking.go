package game

import "sort"

// Standing est la ligne brute d'un joueur pour un mode donné, telle que
// remontée par le storage : identité affichable, meilleure paire et créneau.
// Pour le mode "all", Best porte (BestWpm, HighestAccuracy) du joueur et
// Bucket le créneau "all".
type Standing struct {
	UID         string
	DisplayName string
	Avatar      string
	Best        BestScore
	Bucket      Bucket
}

// Wpm retourne le wpm affiché et utilisé pour l'ordre : le plus grand entre
// le record du créneau et la meilleure paire.
func (s Standing) Wpm() float64 {
	if s.Bucket.BestWpm > s.Best.Wpm {
		return s.Bucket.BestWpm
	}
	return s.Best.Wpm
}

// StandingFor projette l'agrégat d'un joueur sur un mode.
func StandingFor(agg *PlayerAggregate, mode Mode, displayName, avatar string) Standing {
	best := agg.Best(mode)
	if mode == ModeAll {
		best = BestScore{Wpm: agg.BestWpm, Accuracy: agg.HighestAccuracy}
	}
	return Standing{
		UID:         agg.UID,
		DisplayName: displayName,
		Avatar:      avatar,
		Best:        best,
		Bucket:      agg.Bucket(mode),
	}
}

// Ahead indique si a précède b dans le classement du mode : wpm décroissant,
// puis accuracy décroissante, puis (modes chronométrés) matchs joués
// décroissants. L'UID départage les égalités parfaites pour que l'ordre soit
// total et déterministe.
func Ahead(a, b Standing, mode Mode) bool {
	if a.Wpm() != b.Wpm() {
		return a.Wpm() > b.Wpm()
	}
	if a.Best.Accuracy != b.Best.Accuracy {
		return a.Best.Accuracy > b.Best.Accuracy
	}
	if mode != ModeAll && a.Bucket.Count != b.Bucket.Count {
		return a.Bucket.Count > b.Bucket.Count
	}
	return a.UID < b.UID
}

// Entry est une ligne du leaderboard renvoyée au client.
type Entry struct {
	Rank          int     `json:"rank"`
	UserID        string  `json:"userId"`
	DisplayName   string  `json:"displayName"`
	Avatar        string  `json:"avatar,omitempty"`
	Wpm           float64 `json:"wpm"`
	AvgWpm        int     `json:"avgWpm"`
	AvgAccuracy   int     `json:"avgAccuracy"`
	MatchesPlayed int     `json:"matchesPlayed"`
}

// ClampLimit ramène la limite demandée dans [1, 100], uniformément pour
// tous les modes.
func ClampLimit(limit int) int {
	if limit < 1 {
		return 1
	}
	if limit > 100 {
		return 100
	}
	return limit
}

// Board construit le leaderboard d'un mode : les joueurs sans activité
// (wpm nul) sont exclus de toutes les vues, l'ordre suit Ahead et les rangs
// sont denses, à base 1.
func Board(standings []Standing, mode Mode, limit int) []Entry {
	limit = ClampLimit(limit)

	active := make([]Standing, 0, len(standings))
	for _, s := range standings {
		if s.Wpm() > 0 {
			active = append(active, s)
		}
	}

	sort.Slice(active, func(i, j int) bool {
		return Ahead(active[i], active[j], mode)
	})

	if len(active) > limit {
		active = active[:limit]
	}

	entries := make([]Entry, 0, len(active))
	for i, s := range active {
		entries = append(entries, Entry{
			Rank:          i + 1,
			UserID:        s.UID,
			DisplayName:   s.DisplayName,
			Avatar:        s.Avatar,
			Wpm:           s.Wpm(),
			AvgWpm:        s.Bucket.AvgWpm(),
			AvgAccuracy:   s.Bucket.AvgAcc(),
			MatchesPlayed: s.Bucket.Count,
		})
	}
	return entries
}

// RankResult est la position d'un joueur dans le classement d'un mode.
type RankResult struct {
	Rank        int     `json:"rank"`
	Wpm         float64 `json:"wpm"`
	Accuracy    float64 `json:"accuracy"`
	Matches     int     `json:"matches"`
	AvgWpm      int     `json:"avgWpm"`
	AvgAccuracy int     `json:"avgAccuracy"`
	DisplayName string  `json:"displayName"`
	Avatar      string  `json:"avatar,omitempty"`
}

// Rank calcule le rang d'un joueur : 1 + nombre de joueurs strictement
// devant lui selon Ahead. Comme Ahead est un ordre total, le rang coïncide
// avec la position du joueur dans Board quand il y figure.
func Rank(standings []Standing, mode Mode, uid string) (RankResult, bool) {
	var target Standing
	found := false
	for _, s := range standings {
		if s.UID == uid {
			target = s
			found = true
			break
		}
	}
	if !found {
		return RankResult{}, false
	}

	above := 0
	for _, s := range standings {
		if s.UID == uid || s.Wpm() <= 0 {
			continue
		}
		if Ahead(s, target, mode) {
			above++
		}
	}

	return RankResult{
		Rank:        above + 1,
		Wpm:         target.Wpm(),
		Accuracy:    target.Best.Accuracy,
		Matches:     target.Bucket.Count,
		AvgWpm:      target.Bucket.AvgWpm(),
		AvgAccuracy: target.Bucket.AvgAcc(),
		DisplayName: target.DisplayName,
		Avatar:      target.Avatar,
	}, true
}
