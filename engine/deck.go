package engine

import "fmt"

// ---------------------------------------------------------------------------
// xorshift64 RNG
// ---------------------------------------------------------------------------

// RNG is a small seeded xorshift64 generator. Games built from the same
// seed shuffle and pick starting players identically.
type RNG struct {
	state uint64
}

// NewRNG returns a generator for seed. Seed 0 is corrected to 1 since
// xorshift cannot start at 0.
func NewRNG(seed uint64) *RNG {
	if seed == 0 {
		seed = 1
	}
	return &RNG{state: seed}
}

func (r *RNG) next() uint64 {
	x := r.state
	x ^= x << 13
	x ^= x >> 7
	x ^= x << 17
	r.state = x
	return x
}

// IntN returns a number in [0, n). n must be positive.
func (r *RNG) IntN(n int) int {
	return int(r.next() % uint64(n))
}

// ---------------------------------------------------------------------------
// Deck
// ---------------------------------------------------------------------------

// Deck is a stack of cards; the top is the end of the slice.
type Deck struct {
	cards []Card
}

// NewDeck builds an unshuffled deck with CopiesPerValue copies of each value.
func NewDeck(rules HouseRules) *Deck {
	d := &Deck{cards: make([]Card, 0, rules.DeckSize())}
	for _, v := range AllValues {
		for i := uint8(0); i < rules.CopiesPerValue; i++ {
			d.cards = append(d.cards, v)
		}
	}
	return d
}

// Shuffle applies a Fisher-Yates shuffle in place and returns d for chaining.
func (d *Deck) Shuffle(rng *RNG) *Deck {
	for i := len(d.cards) - 1; i > 0; i-- {
		j := rng.IntN(i + 1)
		d.cards[i], d.cards[j] = d.cards[j], d.cards[i]
	}
	return d
}

// Deal removes and returns the top n cards.
func (d *Deck) Deal(n int) ([]Card, error) {
	if n < 0 || n > len(d.cards) {
		return nil, fmt.Errorf("deal %d cards with %d remaining: %w", n, len(d.cards), ErrResourceExhausted)
	}
	cut := len(d.cards) - n
	dealt := make([]Card, n)
	copy(dealt, d.cards[cut:])
	d.cards = d.cards[:cut]
	return dealt, nil
}

// Draw removes and returns the top card, or EmptyCard if the deck is empty.
func (d *Deck) Draw() Card {
	if len(d.cards) == 0 {
		return EmptyCard
	}
	top := d.cards[len(d.cards)-1]
	d.cards = d.cards[:len(d.cards)-1]
	return top
}

// Peek returns the top card without removing it, or EmptyCard.
func (d *Deck) Peek() Card {
	if len(d.cards) == 0 {
		return EmptyCard
	}
	return d.cards[len(d.cards)-1]
}

func (d *Deck) Remaining() int { return len(d.cards) }
func (d *Deck) IsEmpty() bool  { return len(d.cards) == 0 }

// Cards returns a copy of the remaining cards, bottom first.
func (d *Deck) Cards() []Card {
	out := make([]Card, len(d.cards))
	copy(out, d.cards)
	return out
}

// NewDeckFromCards builds a deck from an explicit bottom-to-top order.
// Used to stage deterministic rounds.
func NewDeckFromCards(cards []Card) *Deck {
	d := &Deck{cards: make([]Card, len(cards))}
	copy(d.cards, cards)
	return d
}
