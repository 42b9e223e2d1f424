// Package mission implements the Nimbus objective layer: a tiered queue of
// missions and an engine that turns gameplay events into mission progress.
package mission

import (
	"fmt"
	"math/rand"
)

// Type selects which gameplay events advance a mission.
type Type string

const (
	TypeScore        Type = "score"
	TypeClearBlocks  Type = "clear_blocks"
	TypeSurviveTime  Type = "survive_time"
	TypeSegment      Type = "segment"
	TypeCombo        Type = "combo"
	TypeColorClear   Type = "color_clear"
	TypeNoRotate     Type = "no_rotate"
	TypePerfection   Type = "perfection"
	TypeSurviveScore Type = "survive_score"
)

// Tier groups missions by difficulty.
type Tier int

const (
	TierEasy Tier = iota
	TierMedium
	TierHard
	TierEndless
)

func (t Tier) String() string {
	switch t {
	case TierEasy:
		return "Easy"
	case TierMedium:
		return "Medium"
	case TierHard:
		return "Hard"
	case TierEndless:
		return "Endless"
	default:
		return fmt.Sprintf("Tier(%d)", int(t))
	}
}

// Mission is one objective.
type Mission struct {
	ID     string `json:"id"`
	Type   Type   `json:"type"`
	Target int    `json:"target"`
	Desc   string `json:"desc"`
	Color  string `json:"color,omitempty"` // shape id filter for color_clear
	Tier   Tier   `json:"tier"`
}

// PerTier is how many missions each tier contributes to a queue.
const PerTier = 3

var tiers = [...][]Mission{
	TierEasy: {
		{ID: "e1", Type: TypeScore, Target: 500, Desc: "Score 500 Points"},
		{ID: "e2", Type: TypeClearBlocks, Target: 20, Desc: "Clear 20 Blocks Total"},
		{ID: "e3", Type: TypeSurviveTime, Target: 45, Desc: "Survive 45 Seconds"},
		{ID: "e4", Type: TypeSegment, Target: 3, Desc: "Clear 3 Segments"},
	},
	TierMedium: {
		{ID: "m1", Type: TypeCombo, Target: 2, Desc: "Perform a 2-Chain Combo"},
		{ID: "m2", Type: TypeScore, Target: 2000, Desc: "Score 2,000 Points"},
		{ID: "m3", Type: TypeColorClear, Target: 10, Color: "fist", Desc: "Clear 10 Fuchsia Blocks"},
		{ID: "m4", Type: TypeNoRotate, Target: 5, Desc: "Land 5 Pieces without Rotating"},
	},
	TierHard: {
		{ID: "h1", Type: TypePerfection, Target: 3, Desc: "Clear 3 Segments Perfectly (7-wide)"},
		{ID: "h2", Type: TypeSurviveScore, Target: 5000, Desc: "Score 5,000 in one run"},
		{ID: "h3", Type: TypeClearBlocks, Target: 100, Desc: "Clear 100 Blocks"},
		{ID: "h4", Type: TypeCombo, Target: 3, Desc: "Perform a 3-Chain Combo"},
	},
}

// Endless is the fallback mission served once the queue is exhausted.
var Endless = Mission{
	ID:     "endless",
	Type:   TypeScore,
	Target: 10000,
	Desc:   "Bonus: Score 10,000",
	Tier:   TierEndless,
}

// TierMissions returns the missions authored for a tier.
func TierMissions(t Tier) []Mission {
	if t < TierEasy || t > TierHard {
		return nil
	}
	out := make([]Mission, len(tiers[t]))
	copy(out, tiers[t])
	for i := range out {
		out[i].Tier = t
	}
	return out
}

// All returns every authored mission followed by the endless fallback.
func All() []Mission {
	var out []Mission
	for t := TierEasy; t <= TierHard; t++ {
		out = append(out, TierMissions(t)...)
	}
	return append(out, Endless)
}

// BuildQueue shuffles each tier and concatenates PerTier missions from
// Easy, Medium and Hard in that order.
func BuildQueue(rng *rand.Rand) []Mission {
	queue := make([]Mission, 0, 3*PerTier)
	for t := TierEasy; t <= TierHard; t++ {
		pool := TierMissions(t)
		rng.Shuffle(len(pool), func(i, j int) {
			pool[i], pool[j] = pool[j], pool[i]
		})
		queue = append(queue, pool[:min(PerTier, len(pool))]...)
	}
	return queue
}
