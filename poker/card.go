package poker

import "fmt"

// Card is packed into a single byte.
// High 4 bits are the rank (0: 2 .. 12: A), low 4 bits are the suit.
// 0001: Spade
// 0010: Heart
// 0100: Diamond
// 1000: Club
type Card uint8

var (
	strRanks = "23456789TJQKA"

	charRankToIntRank = map[uint8]uint8{}
	charSuitToIntSuit = map[uint8]uint8{
		's': 1, // spades
		'h': 2, // hearts
		'd': 4, // diamonds
		'c': 8, // clubs
	}
	intSuitToCharSuit = "xshxdxxxc"
)

func init() {
	for i := range strRanks {
		charRankToIntRank[strRanks[i]] = uint8(i)
	}
}

func NewCard(s string) Card {
	if len(s) != 2 {
		panic(fmt.Sprintf("Invalid card string: %s", s))
	}
	rank, ok := charRankToIntRank[s[0]]
	if !ok {
		panic(fmt.Sprintf("Invalid card rank: %s", s))
	}
	suit, ok := charSuitToIntSuit[s[1]]
	if !ok {
		panic(fmt.Sprintf("Invalid card suit: %s", s))
	}
	return Card(rank<<4 | suit)
}

func (c Card) Rank() uint8 {
	return uint8(c) >> 4
}

func (c Card) Suit() uint8 {
	return uint8(c) & 0xF
}

func (c Card) String() string {
	return string(strRanks[c.Rank()]) + string(intSuitToCharSuit[c.Suit()])
}

func (c Card) MarshalJSON() ([]byte, error) {
	return []byte("\"" + c.String() + "\""), nil
}

func (c *Card) UnmarshalJSON(b []byte) error {
	*c = NewCard(string(b[1:3]))
	return nil
}

func PrintCards(cards []Card) string {
	out := ""
	for i, card := range cards {
		if i != 0 {
			out += " "
		}
		out += card.String()
	}
	return out
}
