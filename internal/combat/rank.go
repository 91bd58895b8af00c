// Package combat provides the battle rules shared by every event: report
// ranks, formation choice, injury levels and fatigue accounting.
package combat

import (
	"math/rand"
	"strconv"
)

// Rank is the overall outcome of one battle as reported by the server.
type Rank int

const (
	RankUnknown Rank = iota
	RankDuel         // one-on-one
	RankS
	RankA
	RankB
	RankC
	RankDefeat
)

// ParseRank parses the numeric rank of a battle report. Values outside
// 1..6 parse as RankUnknown.
func ParseRank(s string) Rank {
	n, err := strconv.Atoi(s)
	if err != nil {
		return RankUnknown
	}
	return RankOf(n)
}

// RankOf converts a numeric rank.
func RankOf(n int) Rank {
	if n < int(RankDuel) || n > int(RankDefeat) {
		return RankUnknown
	}
	return Rank(n)
}

// String returns the rank letter.
func (r Rank) String() string {
	switch r {
	case RankDuel:
		return "duel"
	case RankS:
		return "S"
	case RankA:
		return "A"
	case RankB:
		return "B"
	case RankC:
		return "C"
	case RankDefeat:
		return "defeat"
	default:
		return "unknown"
	}
}

// Defeated reports whether the team lost the battle.
func (r Rank) Defeated() bool { return r == RankDefeat }

// Formation is a battle formation, numbered as the server does.
type Formation int

const (
	FormationUnknown Formation = iota
	FormationFishScale
	FormationCraneWing
	FormationLine
	FormationSquare
	FormationGoose
	FormationReverse
)

// String returns the formation name.
func (f Formation) String() string {
	switch f {
	case FormationFishScale:
		return "fish scale"
	case FormationCraneWing:
		return "crane wing"
	case FormationLine:
		return "line"
	case FormationSquare:
		return "square"
	case FormationGoose:
		return "wild goose"
	case FormationReverse:
		return "reverse"
	default:
		return "unknown"
	}
}

// counters maps an enemy formation to the formation that beats it.
var counters = [...]Formation{
	FormationFishScale: FormationReverse,
	FormationCraneWing: FormationFishScale,
	FormationLine:      FormationCraneWing,
	FormationSquare:    FormationLine,
	FormationGoose:     FormationSquare,
	FormationReverse:   FormationGoose,
}

// FavorableFormation returns the formation that counters enemy. When the
// scout did not reveal the enemy formation a random one is picked.
func FavorableFormation(enemy int, rng *rand.Rand) Formation {
	if enemy < int(FormationFishScale) || enemy > int(FormationReverse) {
		return Formation(rng.Intn(int(FormationReverse)) + 1)
	}
	return counters[enemy]
}
