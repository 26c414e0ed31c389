package layout

// Geometry holds every named spatial tunable of the engine. All tie-break
// margins and bias ratios live here rather than inline in stage logic so
// tests can tune them and renderers can read them.
type Geometry struct {
	// NodeWidth and NodeHeight are the fixed dimensions of every node box.
	NodeWidth  float64
	NodeHeight float64

	// NodeMargin is the minimum horizontal gap between neighboring nodes on
	// the same rank.
	NodeMargin float64

	// RankSep is the vertical distance between consecutive ranks.
	RankSep float64

	// RankGapTolerance is the maximum vertical distance at which two nodes
	// still count as sharing a rank during overlap resolution. Half a node
	// height absorbs the fractional y produced by partner averaging.
	RankGapTolerance float64

	// FriendOffset is the horizontal distance from the rightmost family node
	// edge to the center of the friend column.
	FriendOffset float64

	// FriendGap is the vertical gap between stacked friend nodes.
	FriendGap float64

	// SpreadSpacing is the offset step between edges sharing a node side.
	SpreadSpacing float64

	// AxisBiasRatio biases handle selection toward an edge's preferred axis.
	// At 0.7, a parent-child pair offset slightly more horizontally than
	// vertically still attaches top/bottom.
	AxisBiasRatio float64
}

// DefaultGeometry returns the standard engine geometry.
func DefaultGeometry() Geometry {
	return Geometry{
		NodeWidth:        170,
		NodeHeight:       70,
		NodeMargin:       40,
		RankSep:          90,
		RankGapTolerance: 35,
		FriendOffset:     140,
		FriendGap:        24,
		SpreadSpacing:    14,
		AxisBiasRatio:    0.7,
	}
}

// CouplePalette is the fixed color cycle for parent couples, assigned in
// first-seen order and wrapped via modulo once exhausted.
var CouplePalette = []string{
	"#e74c3c",
	"#3498db",
	"#2ecc71",
	"#9b59b6",
	"#e67e22",
	"#1abc9c",
	"#e84393",
	"#f1c40f",
}

// MarkerShapeCount is the size of the marker shape palette used for overlap
// disambiguation. Shape indices cycle via modulo once all are in use.
const MarkerShapeCount = 4

// Marker shape indices. MarkerNone marks an edge without a shape.
const (
	MarkerNone     = -1
	MarkerCircle   = 0
	MarkerSquare   = 1
	MarkerDiamond  = 2
	MarkerTriangle = 3
)
