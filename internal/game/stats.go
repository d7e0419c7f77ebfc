package game

import "math"

// Stats est le résumé global d'un mode.
type Stats struct {
	AvgWpm      int `json:"avgWpm"`
	HighestWpm  int `json:"highestWpm"`
	AvgAccuracy int `json:"avgAccuracy"`
}

// ComputeStats agrège les statistiques globales d'un mode.
//
// Pour "all", la moyenne porte sur le meilleur wpm de chaque joueur actif.
// Pour un mode chronométré, la moyenne porte sur la moyenne personnelle de
// chaque contributeur (créneau avec count > 0). Si aucun joueur n'a de
// créneau pour ce mode (comptes antérieurs aux agrégats), on retombe sur la
// moyenne des meilleures paires : une statistique différente, conservée
// telle quelle pour la compatibilité.
func ComputeStats(standings []Standing, mode Mode) Stats {
	if mode == ModeAll {
		return bestStats(standings)
	}

	totalAvgWpm := 0.0
	totalAvgAcc := 0.0
	contributors := 0
	highest := 0.0

	for _, s := range standings {
		if s.Bucket.Count == 0 {
			continue
		}
		totalAvgWpm += s.Bucket.SumWpm / float64(s.Bucket.Count)
		totalAvgAcc += s.Bucket.SumAcc / float64(s.Bucket.Count)
		if s.Bucket.BestWpm > highest {
			highest = s.Bucket.BestWpm
		}
		contributors++
	}

	if contributors > 0 {
		return Stats{
			AvgWpm:      roundToInt(totalAvgWpm / float64(contributors)),
			HighestWpm:  roundToInt(highest),
			AvgAccuracy: roundToInt(totalAvgAcc / float64(contributors)),
		}
	}

	return bestStats(standings)
}

// bestStats moyenne les meilleures valeurs par joueur (wpm > 0, accuracy > 0).
func bestStats(standings []Standing) Stats {
	sumWpm := 0.0
	nWpm := 0
	highest := 0.0
	sumAcc := 0.0
	nAcc := 0

	for _, s := range standings {
		if s.Best.Wpm > 0 {
			sumWpm += s.Best.Wpm
			nWpm++
			if s.Best.Wpm > highest {
				highest = s.Best.Wpm
			}
		}
		if s.Best.Accuracy > 0 {
			sumAcc += s.Best.Accuracy
			nAcc++
		}
	}

	stats := Stats{HighestWpm: roundToInt(highest)}
	if nWpm > 0 {
		stats.AvgWpm = roundToInt(sumWpm / float64(nWpm))
	}
	if nAcc > 0 {
		stats.AvgAccuracy = roundToInt(sumAcc / float64(nAcc))
	}
	return stats
}

func roundToInt(f float64) int {
	return int(math.Round(f))
}
