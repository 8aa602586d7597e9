package engine

import (
	"fmt"
	"strconv"
)

// Card value constants. Values 1–6 are their own face; the llama closes the cycle.
const (
	ValueOne   uint8 = 1
	ValueTwo   uint8 = 2
	ValueThree uint8 = 3
	ValueFour  uint8 = 4
	ValueFive  uint8 = 5
	ValueSix   uint8 = 6
	ValueLlama uint8 = 7
)

// NumValues is the number of distinct card values in the cycle.
const NumValues = 7

// LlamaPenalty is the penalty carried by a llama card.
const LlamaPenalty = 10

// Card is an immutable card value. Two cards with the same value are
// interchangeable for every rule.
type Card uint8

// EmptyCard represents the absence of a card.
const EmptyCard Card = 0xFF

// AllValues lists the card values in cycle order, starting at 1.
var AllValues = [NumValues]Card{1, 2, 3, 4, 5, 6, 7}

// NewCard constructs a Card from its value. Values outside 1–7 yield EmptyCard.
func NewCard(value uint8) Card {
	if value < ValueOne || value > ValueLlama {
		return EmptyCard
	}
	return Card(value)
}

// Value returns the raw value (1–6, 7 for llama).
func (c Card) Value() uint8 { return uint8(c) }

// Valid reports whether c is a real card.
func (c Card) Valid() bool { return c >= 1 && c <= 7 }

// IsLlama reports whether c is the llama.
func (c Card) IsLlama() bool { return uint8(c) == ValueLlama }

// Next returns the successor of c in the cycle 1→2→…→6→Llama→1.
func (c Card) Next() Card {
	if !c.Valid() {
		return EmptyCard
	}
	if c.IsLlama() {
		return Card(ValueOne)
	}
	return c + 1
}

// CanPlayOn reports whether c may be placed on top: same value, or the
// next value in the cycle.
func (c Card) CanPlayOn(top Card) bool {
	if !c.Valid() || !top.Valid() {
		return false
	}
	return c == top || c == top.Next()
}

// PenaltyValue returns the points c costs if still held at round end.
//   - 1–6 → face value
//   - Llama → 10
func (c Card) PenaltyValue() int {
	switch {
	case c.IsLlama():
		return LlamaPenalty
	case c.Valid():
		return int(c)
	}
	// EmptyCard or malformed.
	return 0
}

func (c Card) String() string {
	switch {
	case c.IsLlama():
		return "Llama"
	case c.Valid():
		return strconv.Itoa(int(c))
	}
	return "?"
}

// ParseCard parses the text form produced by Card.String.
func ParseCard(s string) (Card, error) {
	switch s {
	case "Llama", "llama", "L":
		return Card(ValueLlama), nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 || n > 6 {
		return EmptyCard, fmt.Errorf("invalid card value %q", s)
	}
	return Card(n), nil
}

// ---------------------------------------------------------------------------
// Enumerations
// ---------------------------------------------------------------------------

// PlayerStatus tracks whether a player is still in the current round.
type PlayerStatus uint8

const (
	StatusActive PlayerStatus = iota
	StatusQuit
)

func (s PlayerStatus) String() string {
	if s == StatusQuit {
		return "quit"
	}
	return "active"
}

// TurnAction is one of the three things a player may do on their turn.
type TurnAction uint8

const (
	ActionPlayCard TurnAction = iota
	ActionDrawCard
	ActionQuit
)

func (a TurnAction) String() string {
	switch a {
	case ActionPlayCard:
		return "play_card"
	case ActionDrawCard:
		return "draw_card"
	case ActionQuit:
		return "quit"
	}
	return "unknown"
}

// ParseTurnAction parses the string form of a TurnAction.
func ParseTurnAction(s string) (TurnAction, error) {
	switch s {
	case "play_card":
		return ActionPlayCard, nil
	case "draw_card":
		return ActionDrawCard, nil
	case "quit":
		return ActionQuit, nil
	}
	return 0, fmt.Errorf("unknown turn action %q", s)
}

// TokenType identifies a point token. TokenNone marks "no token".
type TokenType uint8

const (
	TokenNone TokenType = iota
	TokenWhite
	TokenBlack
)

func (t TokenType) String() string {
	switch t {
	case TokenWhite:
		return "white"
	case TokenBlack:
		return "black"
	}
	return ""
}

// MarshalJSON encodes TokenNone as null and the others as their name.
func (t TokenType) MarshalJSON() ([]byte, error) {
	if t == TokenNone {
		return []byte("null"), nil
	}
	return []byte(strconv.Quote(t.String())), nil
}

// RoundEndReason explains why a round finished.
type RoundEndReason uint8

const (
	EndNone RoundEndReason = iota
	EndHandEmpty
	EndAllQuit
)

func (r RoundEndReason) String() string {
	switch r {
	case EndHandEmpty:
		return "hand_empty"
	case EndAllQuit:
		return "all_quit"
	}
	return ""
}

// GameMode selects who sits at the table.
type GameMode uint8

const (
	// ModeLocal seats four humans sharing one device.
	ModeLocal GameMode = iota
	// ModeAI seats one human at index 0 and automated players elsewhere.
	ModeAI
)

func (m GameMode) String() string {
	if m == ModeAI {
		return "ai"
	}
	return "local"
}

// ParseGameMode parses "local" or "ai".
func ParseGameMode(s string) (GameMode, error) {
	switch s {
	case "local", "":
		return ModeLocal, nil
	case "ai":
		return ModeAI, nil
	}
	return ModeLocal, fmt.Errorf("unknown game mode %q", s)
}
