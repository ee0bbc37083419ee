package agent

import (
	"slices"

	engine "github.com/jason-s-yu/yaniv/engine"
)

// jokerBonus makes any acceptable group that takes a Joker beat every group
// that does not. The deck holds 380 points, so no natural group comes close.
const jokerBonus = 1000

// SearchOptions tunes BestDiscard.
type SearchOptions struct {
	// LowHand is the kept-hand value at or below which a 2-card run may carry
	// one Joker to make a legal straight.
	LowHand int
	// RequireMultiWhenTaking rejects taking a card only to build a 1-card group.
	RequireMultiWhenTaking bool
}

// Proposal is the outcome of a discard search.
//
// Without a take, Discard is the group to put down now. With a take (Draw !=
// EmptyCard), Discard is the group the taken card completes; its other cards
// stay in hand for a later turn.
type Proposal struct {
	Draw    engine.Card
	Discard []engine.Card
	Value   int
}

// BestDiscard finds the legal group that sheds the most points from hand.
//
// When candidates are given, each one is tried as a card taken from the
// discard window: the hand is augmented with it and only groups that use it
// are accepted. A take must shed strictly more than the plain result, except
// that taking a Joker always wins. Otherwise the plain result is returned
// with Draw == EmptyCard. The returned group is never empty for a
// non-empty hand.
func BestDiscard(hand []engine.Card, candidates []engine.Card, opts SearchOptions) Proposal {
	plain := search(hand, engine.EmptyCard, opts)
	plain.Draw = engine.EmptyCard
	if len(candidates) == 0 {
		return plain
	}

	best := plain
	bestScore := plain.Value
	for _, c := range candidates {
		aug := append(slices.Clone(hand), c)
		engine.SortHand(aug)
		p := search(aug, c, opts)
		if p.Discard == nil {
			continue
		}
		score := p.Value
		if c.IsJoker() {
			score += jokerBonus
		}
		if score > bestScore {
			best, bestScore = p, score
			best.Draw = c
		}
	}
	return best
}

// search returns the highest-value acceptable group of hand. take is the card
// being taken, or EmptyCard. A nil Discard means nothing was acceptable.
func search(hand []engine.Card, take engine.Card, opts SearchOptions) Proposal {
	var best Proposal
	bestValue := -1
	consider := func(group []engine.Card) {
		combo := engine.IdentifyCombination(group)
		if combo.Shape == engine.ShapeInvalid || !acceptable(hand, combo.Cards, take, opts) {
			return
		}
		if combo.Value > bestValue {
			best = Proposal{Discard: combo.Cards, Value: combo.Value}
			bestValue = combo.Value
		}
	}

	if len(hand) == 0 {
		return best
	}
	consider([]engine.Card{engine.HighestValue(hand)})
	for _, g := range sameRankGroups(hand, take) {
		consider(g)
	}
	for _, g := range straightGroups(hand, opts) {
		consider(g)
	}
	return best
}

// acceptable applies the taking constraints. Without a take every legal group is fine.
func acceptable(hand, group []engine.Card, take engine.Card, opts SearchOptions) bool {
	if take == engine.EmptyCard {
		return true
	}
	if opts.RequireMultiWhenTaking && len(group) < 2 {
		return false
	}
	if !slices.Contains(group, take) {
		return false
	}
	// Something other than a Joker must be left to discard this turn.
	rest := engine.RemoveCards(hand, group)
	return slices.ContainsFunc(rest, func(c engine.Card) bool { return !c.IsJoker() })
}

// sameRankGroups lists, per rank, every natural of that rank when there are at
// least two. A Joker being taken is also tried alongside each rank and alone
// with the other Jokers.
func sameRankGroups(hand []engine.Card, take engine.Card) [][]engine.Card {
	byRank := make([][]engine.Card, engine.RankKing+1)
	jokers := 0
	for _, c := range hand {
		if c.IsJoker() {
			jokers++
			continue
		}
		byRank[c.Rank()] = append(byRank[c.Rank()], c)
	}

	var groups [][]engine.Card
	for _, naturals := range byRank {
		if len(naturals) >= 2 {
			groups = append(groups, naturals)
		}
		if take.IsJoker() && len(naturals) >= 1 && len(naturals) <= 3 {
			groups = append(groups, append(slices.Clone(naturals), engine.Joker))
		}
	}
	if jokers >= 2 {
		groups = append(groups, slices.Repeat([]engine.Card{engine.Joker}, min(jokers, 4)))
	}
	return groups
}

// straightGroups greedily extends a same-suit run from every natural in hand.
// A missing step costs one Joker from the hand's budget; the run stops at King
// or when neither the card nor a Joker is left. Trailing Jokers go back to the
// kept side.
func straightGroups(hand []engine.Card, opts SearchOptions) [][]engine.Card {
	budget := engine.Hand(hand).JokerCount()
	var groups [][]engine.Card
	for _, start := range hand {
		if start.IsJoker() {
			continue
		}
		run := []engine.Card{start}
		left := budget
		cur := start
		for {
			want, ok := engine.Successor(cur)
			if !ok {
				break
			}
			switch {
			case slices.Contains(hand, want):
				run = append(run, want)
			case left > 0:
				run = append(run, engine.Joker)
				left--
			default:
				ok = false
			}
			if !ok {
				break
			}
			cur = want
		}
		for len(run) > 0 && run[len(run)-1].IsJoker() {
			run = run[:len(run)-1]
		}

		switch {
		case len(run) >= 3:
			groups = append(groups, run)
		case len(run) == 2 && budget > 0:
			kept := engine.HandValue(hand) - engine.HandValue(run)
			if kept > opts.LowHand {
				continue
			}
			// The Joker goes after the run unless the run already ends at King.
			if _, ok := engine.Successor(run[1]); ok {
				groups = append(groups, append(run, engine.Joker))
			} else {
				groups = append(groups, append([]engine.Card{engine.Joker}, run...))
			}
		}
	}
	return groups
}
