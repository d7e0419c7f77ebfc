// Package game contient le coeur du jeu : les modes de test, le moteur
// d'agrégation des scores et le calcul du classement.
package game

import "fmt"

// Mode identifie un créneau de durée de test ("15s", "30s", "60s", "120s")
// ou le créneau synthétique "all" qui cumule tous les tests.
type Mode string

const (
	ModeAll  Mode = "all"
	Mode15s  Mode = "15s"
	Mode30s  Mode = "30s"
	Mode60s  Mode = "60s"
	Mode120s Mode = "120s"
)

// TimedModes liste les créneaux de durée dans l'ordre canonique, sans "all".
func TimedModes() []Mode {
	return []Mode{Mode15s, Mode30s, Mode60s, Mode120s}
}

// ParseMode valide un paramètre de mode. La chaîne vide vaut "all".
func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case "", ModeAll:
		return ModeAll, nil
	case Mode15s, Mode30s, Mode60s, Mode120s:
		return Mode(s), nil
	}
	return "", fmt.Errorf("invalid mode %q", s)
}

// ModeForDuration retourne le créneau correspondant à une durée de test.
func ModeForDuration(durationSec int) (Mode, error) {
	switch durationSec {
	case 15:
		return Mode15s, nil
	case 30:
		return Mode30s, nil
	case 60:
		return Mode60s, nil
	case 120:
		return Mode120s, nil
	}
	return "", fmt.Errorf("invalid duration %d", durationSec)
}

// ValidDuration indique si une durée fait partie des créneaux acceptés.
func ValidDuration(durationSec int) bool {
	_, err := ModeForDuration(durationSec)
	return err == nil
}
