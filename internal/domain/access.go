package domain

import "strings"

// AccessTier is the entitlement a track requires.
type AccessTier string

const (
	TierPublic        AccessTier = "public"
	TierAuthenticated AccessTier = "authenticated"
	TierPatron        AccessTier = "patron"
)

// ContentAccess maps a track to its required tier.
type ContentAccess struct {
	TrackID      string
	RequiredTier AccessTier
}

var patronTierMarkers = []string{"patron", "supporter", "premium"}

// CanUserAccess decides whether a listener may play content of the required tier.
// Both public and authenticated content require a signed-in listener.
func CanUserAccess(userTiers []string, required AccessTier, isAuthenticated bool) bool {
	switch required {
	case TierPublic, TierAuthenticated:
		return isAuthenticated
	case TierPatron:
		if !isAuthenticated {
			return false
		}
		for _, tier := range userTiers {
			lower := strings.ToLower(tier)
			for _, marker := range patronTierMarkers {
				if strings.Contains(lower, marker) {
					return true
				}
			}
		}
		return false
	default:
		return false
	}
}

// LockMessage is the text shown on content the listener cannot play.
func LockMessage(required AccessTier) string {
	switch required {
	case TierPublic, TierAuthenticated:
		return "Sign in to listen"
	case TierPatron:
		return "Exclusive for Patreon supporters"
	default:
		return "Locked"
	}
}
