package utils

import (
	"fmt"
	"net/url"
	"strings"
)

// DefaultAvatarURL génère un avatar par défaut (initiales) via l'API DiceBear
// pour les comptes dont le provider d'identité ne fournit pas de photo.
func DefaultAvatarURL(displayName string) string {
	seed := url.QueryEscape(displayName)
	return fmt.Sprintf("https://api.dicebear.com/7.x/initials/svg?seed=%s", seed)
}

// IsAvatarRef vérifie qu'une chaîne est une référence d'avatar acceptée :
// une URL http(s) ou un data URI image en base64.
func IsAvatarRef(s string) bool {
	if strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://") {
		return true
	}
	return strings.HasPrefix(s, "data:image/")
}

// AvatarBytes retourne la taille en octets du payload d'un avatar.
// Pour un data URI base64, c'est la taille DÉCODÉE qui compte, calculée
// sans décoder tout le payload.
func AvatarBytes(s string) int {
	idx := strings.Index(s, "base64,")
	if idx == -1 {
		return len(s)
	}

	b64 := s[idx+len("base64,"):]
	size := len(b64) * 3 / 4
	switch {
	case strings.HasSuffix(b64, "=="):
		size -= 2
	case strings.HasSuffix(b64, "="):
		size--
	}
	return size
}
