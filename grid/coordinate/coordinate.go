package coordinate

// Point is a generic x/y pair. The grid uses Point[int] for cell addresses
// with X the column index and Y the slot or row index.
type Point[T comparable] struct {
	X T
	Y T
}

func NewPoint[T comparable](x, y T) Point[T] {
	return Point[T]{X: x, Y: y}
}
