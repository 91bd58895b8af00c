package combat

// Injury is the damage level of a member derived from its HP.
type Injury int

const (
	InjuryNone Injury = iota
	InjuryMinor
	InjuryMedium
	InjurySerious
	InjuryDestroyed
)

// HP percentage thresholds at or above which a member is at most the
// given injury level.
const (
	minorThreshold   = 90
	mediumThreshold  = 65
	seriousThreshold = 31
)

// InjuryFor classifies hp out of maxHP.
func InjuryFor(hp, maxHP int) Injury {
	if hp <= 0 {
		return InjuryDestroyed
	}
	if maxHP <= 0 {
		return InjuryNone
	}
	pct := float64(hp) / float64(maxHP) * 100
	switch {
	case pct >= minorThreshold:
		return InjuryNone
	case pct >= mediumThreshold:
		return InjuryMinor
	case pct >= seriousThreshold:
		return InjuryMedium
	default:
		return InjurySerious
	}
}

// String returns the injury name.
func (i Injury) String() string {
	switch i {
	case InjuryNone:
		return "normal"
	case InjuryMinor:
		return "minor"
	case InjuryMedium:
		return "medium"
	case InjurySerious:
		return "serious"
	case InjuryDestroyed:
		return "destroyed"
	default:
		return "unknown"
	}
}

// Battleable reports whether a member with this injury can keep fighting.
func (i Injury) Battleable() bool {
	return i != InjurySerious && i != InjuryDestroyed
}
