package game

// BestScore est la meilleure paire (wpm, accuracy) d'un joueur dans un mode.
// La comparaison suit la règle de tie-break : wpm strictement supérieur
// gagne ; à wpm égal, l'accuracy supérieure gagne.
type BestScore struct {
	Wpm      float64 `json:"wpm"`
	Accuracy float64 `json:"accuracy"`
}

// Beats indique si b bat other selon la règle de tie-break.
func (b BestScore) Beats(other BestScore) bool {
	if b.Wpm != other.Wpm {
		return b.Wpm > other.Wpm
	}
	return b.Accuracy > other.Accuracy
}

// Bucket accumule les totaux d'un créneau pour calculer les moyennes sans
// rescanner l'historique des scores.
type Bucket struct {
	Count   int     `json:"count"`
	SumWpm  float64 `json:"sumWpm"`
	SumAcc  float64 `json:"sumAcc"`
	BestWpm float64 `json:"bestWpm"`
}

// AvgWpm retourne la moyenne de wpm du créneau, arrondie.
func (b Bucket) AvgWpm() int {
	if b.Count == 0 {
		return 0
	}
	return roundToInt(b.SumWpm / float64(b.Count))
}

// AvgAcc retourne la moyenne d'accuracy du créneau, arrondie.
func (b Bucket) AvgAcc() int {
	if b.Count == 0 {
		return 0
	}
	return roundToInt(b.SumAcc / float64(b.Count))
}

// PlayerAggregate regroupe les statistiques courantes d'un joueur : records
// globaux, meilleure paire par mode et totaux par créneau (dont "all").
type PlayerAggregate struct {
	UID             string
	BestWpm         float64
	HighestAccuracy float64
	MatchesPlayed   int
	TestsCount      int
	BestScores      map[Mode]BestScore
	ModeAgg         map[Mode]Bucket
}

// NewPlayerAggregate initialise l'agrégat d'un joueur avec tous les créneaux
// à zéro, comme à la création du compte.
func NewPlayerAggregate(uid string) *PlayerAggregate {
	agg := &PlayerAggregate{
		UID:        uid,
		BestScores: make(map[Mode]BestScore, 4),
		ModeAgg:    make(map[Mode]Bucket, 5),
	}
	for _, m := range TimedModes() {
		agg.BestScores[m] = BestScore{}
		agg.ModeAgg[m] = Bucket{}
	}
	agg.ModeAgg[ModeAll] = Bucket{}
	return agg
}

// Clone retourne une copie profonde de l'agrégat.
func (a *PlayerAggregate) Clone() *PlayerAggregate {
	c := *a
	c.BestScores = make(map[Mode]BestScore, len(a.BestScores))
	for k, v := range a.BestScores {
		c.BestScores[k] = v
	}
	c.ModeAgg = make(map[Mode]Bucket, len(a.ModeAgg))
	for k, v := range a.ModeAgg {
		c.ModeAgg[k] = v
	}
	return &c
}

// Bucket retourne le créneau demandé (zéro si absent).
func (a *PlayerAggregate) Bucket(mode Mode) Bucket {
	return a.ModeAgg[mode]
}

// Best retourne la meilleure paire du mode demandé (zéro si absent).
func (a *PlayerAggregate) Best(mode Mode) BestScore {
	return a.BestScores[mode]
}

// Apply applique une soumission de score validée à l'agrégat : records
// globaux, meilleure paire du mode (tie-break), totaux du créneau et du
// créneau "all", puis compteurs de matchs.
//
// Chaque appel compte pour un match de plus : rejouer le même score n'est
// PAS idempotent. L'appelant doit appeler Apply exactement une fois par
// soumission acceptée.
func (a *PlayerAggregate) Apply(wpm, accuracy float64, durationSec int) (Mode, error) {
	mode, err := ModeForDuration(durationSec)
	if err != nil {
		return "", err
	}

	if wpm > a.BestWpm {
		a.BestWpm = wpm
	}
	if accuracy > a.HighestAccuracy {
		a.HighestAccuracy = accuracy
	}

	submitted := BestScore{Wpm: wpm, Accuracy: accuracy}
	if submitted.Beats(a.Best(mode)) {
		a.BestScores[mode] = submitted
	}

	a.bump(mode, wpm, accuracy)
	a.bump(ModeAll, wpm, accuracy)

	a.MatchesPlayed++
	a.TestsCount++

	return mode, nil
}

func (a *PlayerAggregate) bump(mode Mode, wpm, accuracy float64) {
	bucket := a.ModeAgg[mode]
	bucket.Count++
	bucket.SumWpm += wpm
	bucket.SumAcc += accuracy
	if wpm > bucket.BestWpm {
		bucket.BestWpm = wpm
	}
	a.ModeAgg[mode] = bucket
}
