package codec

// blockPositions lists, for each shuffle index, the physical slot holding
// canonical blocks 0 through 3.
var blockPositions = [24][BlockCount]uint8{
	{0, 1, 2, 3}, {0, 1, 3, 2}, {0, 2, 1, 3}, {0, 3, 1, 2},
	{0, 2, 3, 1}, {0, 3, 2, 1}, {1, 0, 2, 3}, {1, 0, 3, 2},
	{2, 0, 1, 3}, {3, 0, 1, 2}, {2, 0, 3, 1}, {3, 0, 2, 1},
	{1, 2, 0, 3}, {1, 3, 0, 2}, {2, 1, 0, 3}, {3, 1, 0, 2},
	{2, 3, 0, 1}, {3, 2, 0, 1}, {1, 2, 3, 0}, {1, 3, 2, 0},
	{2, 1, 3, 0}, {3, 1, 2, 0}, {2, 3, 1, 0}, {3, 2, 1, 0},
}

// Permutation returns a copy of the block order row for a shuffle index.
// Indexes outside 0..23 are reduced mod 24.
func Permutation(index int) [BlockCount]uint8 {
	index %= len(blockPositions)
	if index < 0 {
		index += len(blockPositions)
	}
	return blockPositions[index]
}
