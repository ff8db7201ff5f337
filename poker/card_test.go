package poker

import (
	"testing"

	jsoniter "github.com/json-iterator/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCardRoundTrip(t *testing.T) {
	for _, s := range []string{"2s", "Th", "Jd", "Qc", "Ks", "Ah"} {
		card := NewCard(s)
		assert.Equal(t, s, card.String())
	}
}

func TestCardRankSuit(t *testing.T) {
	ace := NewCard("Ah")
	assert.Equal(t, uint8(12), ace.Rank())
	assert.Equal(t, uint8(2), ace.Suit())

	deuce := NewCard("2c")
	assert.Equal(t, uint8(0), deuce.Rank())
	assert.Equal(t, uint8(8), deuce.Suit())
}

func TestCardInvalidPanics(t *testing.T) {
	assert.Panics(t, func() { NewCard("1h") })
	assert.Panics(t, func() { NewCard("Ax") })
	assert.Panics(t, func() { NewCard("Ahh") })
}

func TestCardJSON(t *testing.T) {
	board := []Card{NewCard("Ah"), NewCard("Kd"), NewCard("7c")}
	data, err := jsoniter.Marshal(board)
	require.NoError(t, err)
	assert.Equal(t, `["Ah","Kd","7c"]`, string(data))

	var decoded []Card
	require.NoError(t, jsoniter.Unmarshal(data, &decoded))
	assert.Equal(t, board, decoded)
}

func TestPrintCards(t *testing.T) {
	assert.Equal(t, "Ah Kd 7c", PrintCards([]Card{NewCard("Ah"), NewCard("Kd"), NewCard("7c")}))
	assert.Equal(t, "", PrintCards(nil))
}
