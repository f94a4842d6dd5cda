package noc

// MeshCoordinate identifies a tile on the 2D mesh.
type MeshCoordinate struct {
	X int
	Y int
}

// ManhattanDistance returns the hop distance between two mesh coordinates.
func ManhattanDistance(a, b MeshCoordinate) int {
	dx := a.X - b.X
	if dx < 0 {
		dx = -dx
	}

	dy := a.Y - b.Y
	if dy < 0 {
		dy = -dy
	}

	return dx + dy
}

// Mesh places cores row-major on a width x height grid. The main memory
// interface is attached to the tile at (0, 0).
type Mesh struct {
	Width  int
	Height int
}

// NumTiles returns the number of tiles in the mesh.
func (m Mesh) NumTiles() int {
	return m.Width * m.Height
}

// Coord returns the coordinate of the i-th core.
func (m Mesh) Coord(i int) MeshCoordinate {
	return MeshCoordinate{X: i % m.Width, Y: i / m.Width}
}

// MaxHops returns the largest distance from the memory interface to any of
// the first n cores.
func (m Mesh) MaxHops(n int) int {
	origin := MeshCoordinate{}
	maxHops := 0

	for i := 0; i < n && i < m.NumTiles(); i++ {
		d := ManhattanDistance(origin, m.Coord(i))
		if d > maxHops {
			maxHops = d
		}
	}

	return maxHops
}

// AverageHops returns the mean distance from the memory interface to the
// first n cores.
func (m Mesh) AverageHops(n int) float64 {
	if n > m.NumTiles() {
		n = m.NumTiles()
	}

	if n <= 0 {
		return 0
	}

	origin := MeshCoordinate{}
	sum := 0

	for i := 0; i < n; i++ {
		sum += ManhattanDistance(origin, m.Coord(i))
	}

	return float64(sum) / float64(n)
}
