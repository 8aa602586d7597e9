package engine

// Token point values.
const (
	WhiteTokenValue = 1
	BlackTokenValue = 10
)

// HouseRules holds the fixed construction parameters of a game.
type HouseRules struct {
	PlayerCount       uint8
	HandSize          uint8 // cards dealt to each player at round start
	CopiesPerValue    uint8
	WhiteTokens       int // initial white supply
	BlackTokens       int // initial black supply
	GameOverThreshold int // total points at which the game ends
}

// DefaultHouseRules returns the standard L.A.M.A. rules.
func DefaultHouseRules() HouseRules {
	return HouseRules{
		PlayerCount:       4,
		HandSize:          6,
		CopiesPerValue:    8,
		WhiteTokens:       50,
		BlackTokens:       20,
		GameOverThreshold: 40,
	}
}

// DeckSize returns the number of cards in a freshly built deck.
func (r HouseRules) DeckSize() int {
	return int(r.CopiesPerValue) * NumValues
}

// numPlayers returns the effective number of players, treating 0 as 4.
func (r HouseRules) numPlayers() int {
	if r.PlayerCount == 0 {
		return 4
	}
	return int(r.PlayerCount)
}
