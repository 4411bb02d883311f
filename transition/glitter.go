package transition

import "math/rand"

// GlitterTiles and GlitterRow are the grid dimensions §4.6 names: 137
// tile groups laid out 71 wide, wrapping onto further rows.
const (
	GlitterTiles = 137
	GlitterRow   = 71
)

// glitterOrder is the deterministic reveal order: a fixed-seed
// shuffle computed once, so every animator reveals tiles in the same
// sequence and the effect is reproducible across runs.
var glitterOrder = func() [GlitterTiles]int {
	var order [GlitterTiles]int
	for i := range order {
		order[i] = i
	}
	rnd := rand.New(rand.NewSource(0x676c6974746572)) // "glitter" in hex, fixed seed
	rnd.Shuffle(GlitterTiles, func(i, j int) { order[i], order[j] = order[j], order[i] })
	return order
}()

// RevealedTiles returns the tile indices already uncovered at the
// given progress (counting down from GlitterTiles to 0, as
// Frame.Mask.GlitterProgress does): a tile is revealed once
// GlitterTiles-progress shuffle steps have passed it.
func RevealedTiles(progress int) []int {
	revealedCount := GlitterTiles - progress
	if revealedCount <= 0 {
		return nil
	}
	if revealedCount > GlitterTiles {
		revealedCount = GlitterTiles
	}
	out := make([]int, revealedCount)
	copy(out, glitterOrder[:revealedCount])
	return out
}

// TileRect returns the row/column of tile index i on the
// GlitterRow-wide grid.
func TileRect(i int) (row, col int) {
	return i / GlitterRow, i % GlitterRow
}
