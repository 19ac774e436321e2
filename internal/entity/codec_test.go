package entity

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/rocketscienceinc/goban-backend/internal/apperror"
)

func TestEncode(t *testing.T) {
	// Given: a fresh nine line game with one black stone at (0,0)
	game, err := NewGame("abc", 9)
	require.NoError(t, err)
	require.NoError(t, game.PlaceStone(0, 0, StoneBlack))

	// When: the game is encoded
	encoded := Encode(game)

	// Then: the wire string carries id, size, row-major cells and the turn
	require.Equal(t, "abc;9;b"+strings.Repeat(".", 80)+";w", encoded)
}

func TestDecode_RoundTrip(t *testing.T) {
	// Given: games of every supported size with a few stones played
	for _, size := range []int{9, 13, 17, 19} {
		game, err := NewGame("abc", size)
		require.NoError(t, err)
		require.NoError(t, game.PlaceStone(0, 0, StoneBlack))
		require.NoError(t, game.PlaceStone(size-1, size-1, StoneWhite))
		require.NoError(t, game.PlaceStone(3, 2, StoneBlack))

		// When: the game is encoded and decoded again
		decoded, err := Decode(Encode(game))
		require.NoError(t, err)

		// Then: id, size, cells and turn survive the round trip
		require.Equal(t, game.ID, decoded.ID)
		require.Equal(t, game.Size, decoded.Size)
		require.Equal(t, game.Cells, decoded.Cells)
		require.Equal(t, game.Turn, decoded.Turn)
	}
}

func TestDecode_Malformed(t *testing.T) {
	empty81 := strings.Repeat(".", 81)

	tests := []struct {
		name string
		raw  string
	}{
		{name: "too few segments", raw: "9;" + empty81 + ";b"},
		{name: "too many segments", raw: "abc;9;" + empty81 + ";b;extra"},
		{name: "size is not a number", raw: "abc;nine;" + empty81 + ";b"},
		{name: "size is zero", raw: "abc;0;;b"},
		{name: "size is negative", raw: "abc;-9;" + empty81 + ";b"},
		{name: "too few cells", raw: "abc;9;" + strings.Repeat(".", 80) + ";b"},
		{name: "too many cells", raw: "abc;9;" + strings.Repeat(".", 82) + ";b"},
		{name: "bad cell character", raw: "abc;9;x" + strings.Repeat(".", 80) + ";b"},
		{name: "bad turn character", raw: "abc;9;" + empty81 + ";x"},
		{name: "empty turn", raw: "abc;9;" + empty81 + ";"},
		{name: "empty string", raw: ""},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			// When: a malformed wire string is decoded
			game, err := Decode(test.raw)

			// Then: decoding is rejected
			require.ErrorIs(t, err, apperror.ErrMalformedBoard)
			require.Nil(t, game)
		})
	}
}

func TestDecode_AcceptsUnclassicSizes(t *testing.T) {
	// Given: a wire string with a size outside the supported creation set;
	// the wire law only requires a positive integer
	raw := "abc;2;.bw.;w"

	// When: it is decoded
	game, err := Decode(raw)
	require.NoError(t, err)

	// Then: the fields come through as written
	require.Equal(t, 2, game.Size)
	require.Equal(t, []Stone{StoneEmpty, StoneBlack, StoneWhite, StoneEmpty}, game.Cells)
	require.Equal(t, StoneWhite, game.Turn)
}
