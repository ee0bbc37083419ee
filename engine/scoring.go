package engine

import "slices"

// RoundResult is the outcome of a Yaniv call.
type RoundResult struct {
	Caller      int
	CallerValue int
	// HandValues holds each seat's hand value at the call, 0 for eliminated seats.
	HandValues []int
	// Winners are the seats that scored nothing this round.
	Winners []int
	// Challenged is true when at least one opponent matched or beat the caller (Assaf).
	Challenged  bool
	Challengers []int
	// Deltas is what each seat added to its score, after any reduction.
	Deltas     []int
	Reduced    []int
	Eliminated []int

	NextStarter int
	GameOver    bool
	Champion    int // -1 unless GameOver
}

// resolveRound scores the round, applies reductions and eliminations, and
// moves the game to PhaseRoundOver or PhaseGameOver.
func (g *GameState) resolveRound(caller int) RoundResult {
	n := len(g.Players)
	res := RoundResult{
		Caller:      caller,
		CallerValue: g.HandValue(caller),
		HandValues:  make([]int, n),
		Deltas:      make([]int, n),
		Champion:    -1,
	}

	lowest := -1
	for i, p := range g.Players {
		if !p.Active {
			continue
		}
		v := p.Hand.Value()
		res.HandValues[i] = v
		if i == caller || v > res.CallerValue {
			continue
		}
		res.Challengers = append(res.Challengers, i)
		if lowest < 0 || v < lowest {
			lowest = v
		}
	}
	res.Challenged = len(res.Challengers) > 0

	if res.Challenged {
		for _, i := range res.Challengers {
			if res.HandValues[i] == lowest {
				res.Winners = append(res.Winners, i)
			}
		}
	} else {
		res.Winners = []int{caller}
	}

	for i, p := range g.Players {
		if !p.Active || slices.Contains(res.Winners, i) {
			continue
		}
		points := res.HandValues[i]
		if i == caller {
			points += g.Rules.AssafPenalty + g.Rules.ExtraAssafPenalty*(len(res.Challengers)-1)
		}
		p.PointsInRound = points
		res.Deltas[i] = points
	}

	for i, p := range g.Players {
		if !p.Active {
			continue
		}
		before := p.Score
		p.Score += res.Deltas[i]
		if res.Deltas[i] > 0 && g.reduce(p) {
			res.Reduced = append(res.Reduced, i)
		}
		res.Deltas[i] = p.Score - before
		if p.Score > g.Rules.ScoreLimit {
			p.Active = false
			g.ActivePlayers--
			res.Eliminated = append(res.Eliminated, i)
		}
	}

	res.NextStarter = g.pickStarter(res.Winners)
	g.pendingSlap = EmptyCard

	if g.ActivePlayers <= 1 {
		g.Phase = PhaseGameOver
		res.GameOver = true
		for i, p := range g.Players {
			if p.Active {
				res.Champion = i
			}
		}
		return res
	}
	g.Phase = PhaseRoundOver
	return res
}

// reduce applies the reduction when a score lands exactly on a positive
// multiple of ReductionMultiple. It applies at most once per round.
func (g *GameState) reduce(p *PlayerState) bool {
	m := g.Rules.ReductionMultiple
	if m <= 0 || p.Score <= 0 || p.Score%m != 0 {
		return false
	}
	if g.Rules.ReductionIsHalf {
		p.Score /= 2
	} else {
		p.Score -= m
	}
	return true
}

// pickStarter chooses next round's first player uniformly among the winners
// who are still in the game, falling back to the next active seat.
func (g *GameState) pickStarter(winners []int) int {
	live := make([]int, 0, len(winners))
	for _, w := range winners {
		if g.Players[w].Active {
			live = append(live, w)
		}
	}
	if len(live) == 0 {
		if len(winners) == 0 {
			return g.NextPlayer(g.CurrentPlayer)
		}
		return g.NextPlayer(winners[0])
	}
	return live[g.rng.IntN(len(live))]
}
