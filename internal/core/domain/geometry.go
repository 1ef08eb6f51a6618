package domain

// Point is a position in the map's local coordinate space (the township map
// is drawn on a 1000x800 view box).
type Point struct {
	X float64 `json:"x" bson:"x" yaml:"x"`
	Y float64 `json:"y" bson:"y" yaml:"y"`
}
