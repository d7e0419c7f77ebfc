package model

import (
	"strings"
	"time"

	"github.com/tejas020317/KeyRushers/internal/utils"
)

// Limites des champs profil. La taille d'avatar borne les octets DÉCODÉS
// d'un data URI, pas la longueur de la chaîne.
const (
	MaxDisplayNameLen = 50
	MaxBioLen         = 500
	MaxAvatarBytes    = 5 * 1024 * 1024
)

var validGenders = map[string]bool{
	"male": true, "female": true, "non-binary": true, "other": true, "": true,
}

// Profile est le profil d'un joueur tel que renvoyé par /api/me.
type Profile struct {
	UID         string    `json:"uid"`
	DisplayName string    `json:"displayName"`
	Email       string    `json:"email,omitempty"`
	Avatar      string    `json:"avatar,omitempty"`
	Bio         string    `json:"bio"`
	Birthdate   string    `json:"birthdate,omitempty"`
	Gender      string    `json:"gender,omitempty"`
	BestWpm     float64   `json:"bestWpm"`
	TestsCount  int       `json:"testsCount"`
	CreatedAt   time.Time `json:"createdAt"`
}

// ProfileUpdate est le corps partiel de PATCH /api/me : seuls les champs
// non nil sont modifiés.
type ProfileUpdate struct {
	DisplayName *string `json:"displayName,omitempty"`
	Bio         *string `json:"bio,omitempty"`
	Birthdate   *string `json:"birthdate,omitempty"`
	Gender      *string `json:"gender,omitempty"`
	Avatar      *string `json:"avatar,omitempty"`
}

// Empty indique qu'aucun champ n'est modifié.
func (u ProfileUpdate) Empty() bool {
	return u.DisplayName == nil && u.Bio == nil && u.Birthdate == nil &&
		u.Gender == nil && u.Avatar == nil
}

// Validate vérifie les champs présents et normalise les chaînes (trim).
func (u *ProfileUpdate) Validate(maxAvatarBytes int) error {
	verr := newValidationError()

	if u.DisplayName != nil {
		name := strings.TrimSpace(*u.DisplayName)
		if name == "" || len(name) > MaxDisplayNameLen {
			verr.add("displayName", "must be 1-50 characters")
		}
		u.DisplayName = &name
	}

	if u.Bio != nil {
		if len(*u.Bio) > MaxBioLen {
			verr.add("bio", "too long (max 500 characters)")
		} else {
			bio := strings.TrimSpace(*u.Bio)
			u.Bio = &bio
		}
	}

	if u.Birthdate != nil && *u.Birthdate != "" {
		if !validBirthdate(*u.Birthdate) {
			verr.add("birthdate", "expected YYYY-MM-DD")
		}
	}

	if u.Gender != nil && !validGenders[*u.Gender] {
		verr.add("gender", "invalid value")
	}

	if u.Avatar != nil && *u.Avatar != "" {
		switch {
		case !utils.IsAvatarRef(*u.Avatar):
			verr.add("avatar", "must be an https URL or data:image/* base64")
		case utils.AvatarBytes(*u.Avatar) > maxAvatarBytes:
			verr.add("avatar", "too large (max 5MB)")
		}
	}

	if verr.empty() {
		return nil
	}
	return verr
}

// validBirthdate exige le format strict YYYY-MM-DD avec une date réelle
// (02-31 est refusé, pas normalisé).
func validBirthdate(s string) bool {
	if len(s) != len("2006-01-02") {
		return false
	}
	_, err := time.Parse("2006-01-02", s)
	return err == nil
}
