package engine

// TokenGrant records the tokens handed to a player by DistributeTokens.
type TokenGrant struct {
	Black int `json:"black"`
	White int `json:"white"`
}

// Points returns the point value of the grant.
func (g TokenGrant) Points() int {
	return g.Black*BlackTokenValue + g.White*WhiteTokenValue
}

// TokenBank is the shared, finite token supply for one game. For each token
// type, supply plus the sum of player holdings never changes.
type TokenBank struct {
	white int
	black int
}

// NewTokenBank returns a bank holding the initial supply from rules.
func NewTokenBank(rules HouseRules) *TokenBank {
	return &TokenBank{white: rules.WhiteTokens, black: rules.BlackTokens}
}

func (b *TokenBank) WhiteSupply() int { return b.white }
func (b *TokenBank) BlackSupply() int { return b.black }

// DistributeTokens gives p tokens for points, black first, limited by supply.
// A black shortfall is not made up in white, so p may receive less than
// points when black tokens run out.
func (b *TokenBank) DistributeTokens(p *Player, points int) TokenGrant {
	if points <= 0 {
		return TokenGrant{}
	}
	black := min(points/BlackTokenValue, b.black)
	remaining := points - black*BlackTokenValue
	white := min(remaining, b.white)

	b.black -= black
	b.white -= white
	p.black += black
	p.white += white
	return TokenGrant{Black: black, White: white}
}

// ReturnToken moves one token of type t from p back to the supply.
// Reports false and changes nothing if p holds none.
func (b *TokenBank) ReturnToken(p *Player, t TokenType) bool {
	switch t {
	case TokenBlack:
		if p.black > 0 {
			p.black--
			b.black++
			return true
		}
	case TokenWhite:
		if p.white > 0 {
			p.white--
			b.white++
			return true
		}
	}
	return false
}

// ReturnBestToken returns the most valuable token p can give back:
//  1. a black token if held;
//  2. otherwise, with ≥10 white and a black in supply, exchange 10 white for
//     a black and return it;
//  3. otherwise a white token if held.
//
// Returns the type returned, or TokenNone.
func (b *TokenBank) ReturnBestToken(p *Player) TokenType {
	if p.black > 0 {
		b.ReturnToken(p, TokenBlack)
		return TokenBlack
	}
	if b.exchangeWhiteToBlack(p) {
		b.ReturnToken(p, TokenBlack)
		return TokenBlack
	}
	if p.white > 0 {
		b.ReturnToken(p, TokenWhite)
		return TokenWhite
	}
	return TokenNone
}

// Exchange converts one black token to ten white (from = TokenBlack) or ten
// white to one black (from = TokenWhite). It is all-or-nothing.
func (b *TokenBank) Exchange(p *Player, from TokenType) bool {
	switch from {
	case TokenBlack:
		return b.exchangeBlackToWhite(p)
	case TokenWhite:
		return b.exchangeWhiteToBlack(p)
	}
	return false
}

func (b *TokenBank) exchangeBlackToWhite(p *Player) bool {
	const whitePerBlack = BlackTokenValue / WhiteTokenValue
	if p.black < 1 || b.white < whitePerBlack {
		return false
	}
	p.black--
	b.black++
	p.white += whitePerBlack
	b.white -= whitePerBlack
	return true
}

func (b *TokenBank) exchangeWhiteToBlack(p *Player) bool {
	const whitePerBlack = BlackTokenValue / WhiteTokenValue
	if p.white < whitePerBlack || b.black < 1 {
		return false
	}
	p.white -= whitePerBlack
	b.white += whitePerBlack
	p.black++
	b.black--
	return true
}
