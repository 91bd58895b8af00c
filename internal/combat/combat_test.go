package combat

import (
	"math/rand"
	"testing"
)

func TestParseRank(t *testing.T) {
	tests := []struct {
		in   string
		want Rank
	}{
		{"1", RankDuel},
		{"2", RankS},
		{"5", RankC},
		{"6", RankDefeat},
		{"0", RankUnknown},
		{"7", RankUnknown},
		{"", RankUnknown},
		{"S", RankUnknown},
	}
	for _, tt := range tests {
		if got := ParseRank(tt.in); got != tt.want {
			t.Errorf("ParseRank(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
	if !RankDefeat.Defeated() || RankC.Defeated() {
		t.Error("only RankDefeat should report Defeated()")
	}
}

func TestFavorableFormation(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	want := map[int]Formation{
		1: FormationReverse,
		2: FormationFishScale,
		3: FormationCraneWing,
		4: FormationLine,
		5: FormationSquare,
		6: FormationGoose,
	}
	for enemy, f := range want {
		if got := FavorableFormation(enemy, rng); got != f {
			t.Errorf("FavorableFormation(%d) = %v, want %v", enemy, got, f)
		}
	}
}

func TestFavorableFormationUnknownEnemyIsRandom(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	seen := map[Formation]bool{}
	for i := 0; i < 200; i++ {
		for _, enemy := range []int{0, -1, 9} {
			f := FavorableFormation(enemy, rng)
			if f < FormationFishScale || f > FormationReverse {
				t.Fatalf("FavorableFormation(%d) = %d, outside 1..6", enemy, f)
			}
			seen[f] = true
		}
	}
	if len(seen) != 6 {
		t.Errorf("random formations covered %d of 6 values", len(seen))
	}
}

func TestFatigueAfterBattle(t *testing.T) {
	tests := []struct {
		name    string
		current int
		rank    Rank
		leader  bool
		mvp     bool
		want    int
	}{
		{"S rank", 40, RankS, false, false, 41},
		{"A rank", 40, RankA, false, false, 40},
		{"C rank", 40, RankC, false, false, 38},
		{"defeat", 40, RankDefeat, false, false, 37},
		{"leader mvp S", 40, RankS, true, true, 54},
		{"clamp low", 1, RankDefeat, false, false, 0},
		{"clamp high", 95, RankS, true, true, 100},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FatigueAfterBattle(tt.current, tt.rank, tt.leader, tt.mvp); got != tt.want {
				t.Errorf("FatigueAfterBattle() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestFatigueAtSortie(t *testing.T) {
	if got := FatigueAtSortie(49); got != 39 {
		t.Errorf("FatigueAtSortie(49) = %d, want 39", got)
	}
	if got := FatigueAtSortie(4); got != 0 {
		t.Errorf("FatigueAtSortie(4) = %d, want 0", got)
	}
}

func TestInjuryFor(t *testing.T) {
	tests := []struct {
		hp, max    int
		want       Injury
		battleable bool
	}{
		{30, 30, InjuryNone, true},
		{27, 30, InjuryNone, true},
		{26, 30, InjuryMinor, true},
		{20, 30, InjuryMinor, true},
		{19, 30, InjuryMedium, true},
		{10, 30, InjuryMedium, true},
		{9, 30, InjurySerious, false},
		{0, 30, InjuryDestroyed, false},
	}
	for _, tt := range tests {
		got := InjuryFor(tt.hp, tt.max)
		if got != tt.want {
			t.Errorf("InjuryFor(%d, %d) = %v, want %v", tt.hp, tt.max, got, tt.want)
		}
		if got.Battleable() != tt.battleable {
			t.Errorf("InjuryFor(%d, %d).Battleable() = %v, want %v", tt.hp, tt.max, got.Battleable(), tt.battleable)
		}
	}
}

func TestFatigueLabel(t *testing.T) {
	for v, want := range map[int]string{0: "exhausted", 8: "exhausted", 9: "tired", 20: "tired", 49: "normal", 50: "sparkling", 100: "sparkling"} {
		if got := FatigueLabel(v); got != want {
			t.Errorf("FatigueLabel(%d) = %q, want %q", v, got, want)
		}
	}
}
