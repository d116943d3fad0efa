package surfacenets

// Corners of a unit cell are indexed i = u + 2v:
//
//	0 (0,0) ── edge0 ── 1 (1,0)
//	   │                  │
//	 edge1              edge2
//	   │                  │
//	2 (0,1) ── edge3 ── 3 (1,1)
var edgeCorners = [4][2]uint8{
	{0, 1},
	{0, 2},
	{1, 3},
	{2, 3},
}

// Edge bits of an edge mask.
const (
	edgeTop    uint8 = 1 << 0 // shared with the cell above
	edgeLeft   uint8 = 1 << 1 // shared with the cell to the left
	edgeRight  uint8 = 1 << 2
	edgeBottom uint8 = 1 << 3
)

// edgeTable maps a corner mask (bit i set when corner i is outside) to the
// mask of edges whose corners differ. Built once; never written afterwards.
var edgeTable = buildEdgeTable()

func buildEdgeTable() [16]uint8 {
	var table [16]uint8
	for mask := range table {
		var edges uint8
		for j, ec := range edgeCorners {
			a := mask&(1<<ec[0]) != 0
			b := mask&(1<<ec[1]) != 0
			if a != b {
				edges |= 1 << j
			}
		}
		table[mask] = edges
	}
	return table
}

// EdgeMask returns the crossing-edge mask for a 4-bit corner mask.
// Bits above the low four are ignored.
func EdgeMask(cornerMask uint8) uint8 {
	return edgeTable[cornerMask&0xf]
}

// CornerMask classifies four corner samples, given in corner order. A corner
// is outside when its value is strictly positive, so an exact zero counts as
// inside.
func CornerMask(d [4]float32) uint8 {
	var mask uint8
	for i, v := range d {
		if v > 0 {
			mask |= 1 << i
		}
	}
	return mask
}
