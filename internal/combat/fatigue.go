package combat

const (
	// SortieFatigueCost is deducted from every member when a sortie starts.
	SortieFatigueCost = 10
	// MaxFatigue is the upper fatigue bound; higher is fresher.
	MaxFatigue = 100

	mvpFatigueBonus    = 10
	leaderFatigueBonus = 3
)

// rankFatigue is the fatigue change for each rank.
var rankFatigue = [...]int{
	RankUnknown: -3,
	RankDuel:    0,
	RankS:       1,
	RankA:       0,
	RankB:       -1,
	RankC:       -2,
	RankDefeat:  -3,
}

// ClampFatigue bounds fatigue to 0..MaxFatigue.
func ClampFatigue(v int) int {
	if v < 0 {
		return 0
	}
	if v > MaxFatigue {
		return MaxFatigue
	}
	return v
}

// FatigueAtSortie returns a member's fatigue after entering a map.
func FatigueAtSortie(current int) int {
	return ClampFatigue(current - SortieFatigueCost)
}

// FatigueAfterBattle returns a member's fatigue after a battle of the given
// rank. The MVP gains 10 and the leader 3 on top of the rank change.
func FatigueAfterBattle(current int, rank Rank, leader, mvp bool) int {
	if mvp {
		current += mvpFatigueBonus
	}
	if leader {
		current += leaderFatigueBonus
	}
	if rank >= RankUnknown && int(rank) < len(rankFatigue) {
		current += rankFatigue[rank]
	}
	return ClampFatigue(current)
}

// Fatigue bands shown in party tables.
const (
	FatigueRed    = 8
	FatigueOrange = 20
	FatigueNormal = 49
)

// FatigueLabel names the band a fatigue value falls in.
func FatigueLabel(v int) string {
	switch {
	case v <= FatigueRed:
		return "exhausted"
	case v <= FatigueOrange:
		return "tired"
	case v <= FatigueNormal:
		return "normal"
	default:
		return "sparkling"
	}
}
