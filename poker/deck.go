package poker

import (
	cryptorand "crypto/rand"
	"encoding/binary"
	"math/rand"
)

var fullDeck *Deck

func init() {
	fullDeck = &Deck{cards: initializeFullCards()}
}

// Deck is a non-cryptographic random permutation of the 52 cards.
// Tamper resistance of the shuffle is not a goal.
type Deck struct {
	cards []Card
}

func newSeed() rand.Source {
	var b [8]byte
	_, err := cryptorand.Read(b[:])
	if err != nil {
		panic("cannot seed math/rand package with cryptographically secure random number generator")
	}
	return rand.NewSource(int64(binary.LittleEndian.Uint64(b[:])))
}

func NewDeck() *Deck {
	deck := &Deck{}
	deck.Shuffle()
	return deck
}

func NewDeckNoShuffle() *Deck {
	deck := &Deck{}
	deck.cards = make([]Card, len(fullDeck.cards))
	copy(deck.cards, fullDeck.cards)
	return deck
}

func (deck *Deck) Shuffle() *Deck {
	deck.cards = make([]Card, len(fullDeck.cards))
	copy(deck.cards, fullDeck.cards)

	randGen := rand.New(newSeed())
	for i := range deck.cards {
		loc := randGen.Intn(len(deck.cards))
		deck.cards[i], deck.cards[loc] = deck.cards[loc], deck.cards[i]
	}

	return deck
}

// NewDeckFromCards rebuilds a deck from a persisted remainder, in
// order. Used when a table is resumed mid-hand.
func NewDeckFromCards(cards []Card) *Deck {
	deck := &Deck{cards: make([]Card, len(cards))}
	copy(deck.cards, cards)
	return deck
}

// Cards returns the remaining cards in draw order.
func (deck *Deck) Cards() []Card {
	out := make([]Card, len(deck.cards))
	copy(out, deck.cards)
	return out
}

func (deck *Deck) Draw(n int) []Card {
	cards := make([]Card, n)
	copy(cards, deck.cards[:n])
	deck.cards = deck.cards[n:]
	return cards
}

func (deck *Deck) Remaining() int {
	return len(deck.cards)
}

func (deck *Deck) Empty() bool {
	return len(deck.cards) == 0
}

func initializeFullCards() []Card {
	var cards []Card
	for i := range strRanks {
		for suitChar := range charSuitToIntSuit {
			cards = append(cards, NewCard(string(strRanks[i])+string(suitChar)))
		}
	}
	return cards
}
