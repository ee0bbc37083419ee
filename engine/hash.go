package engine

// StateHash returns a 64-bit FNV-1a hash of the table: every hand and score,
// both piles, the window, whose turn it is and the phase. Identical states
// always hash the same, so two games replayed from one seed can be compared
// cheaply at any point.
func (g *GameState) StateHash() uint64 {
	h := uint64(14695981039346656037) // FNV-1a offset basis
	const prime = uint64(1099511628211)

	mix := func(v uint64) {
		h ^= v
		h *= prime
	}
	cards := func(cs []Card, tag uint64) {
		for _, c := range cs {
			mix(uint64(c))
		}
		mix(uint64(len(cs))<<8 | tag)
	}

	for _, p := range g.Players {
		cards(p.Hand, 1)
		cards(p.FaceUp, 2)
		mix(uint64(int64(p.Score)) << 16)
		if p.Active {
			mix(3)
		}
	}
	cards(g.Piles.Deck, 4)
	cards(g.Piles.Discard, 5)
	cards(g.Piles.Available, 6)
	cards(g.Piles.NextAvailable, 7)
	mix(uint64(g.TurnNumber) << 32)
	mix(uint64(g.CurrentPlayer) << 48)
	mix(uint64(g.Phase)<<56 | uint64(g.RoundNumber))
	return h
}
