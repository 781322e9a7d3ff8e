//The package provides simple operations on 3d vectors
//required for trajectory integration
package vector

import (
	"fmt"
	"math"
)

//3D vector structure
//
//The engine uses the convention X - downrange, Y - up, Z - cross (to the right
//of the shot line), but the vector itself is frame-agnostic
type Vector struct {
	X float64 //X-coordinate
	Y float64 //Y-coordinate
	Z float64 //Z-coordinate
}

//Converts a vector into a string
func (v Vector) String() string {
	return fmt.Sprintf("[X=%f,Y=%f,Z=%f]", v.X, v.Y, v.Z)
}

//Creates a vector from its coordinates
func Create(x, y, z float64) Vector {
	return Vector{X: x, Y: y, Z: z}
}

//Create a copy of the vector
func (v Vector) Copy() Vector {
	return Vector{X: v.X, Y: v.Y, Z: v.Z}
}

//Returns the scalar (dot) product of two vectors
func (v Vector) MultiplyByVector(b Vector) float64 {
	return v.X*b.X + v.Y*b.Y + v.Z*b.Z
}

//Returns the magnitude of the vector
func (v Vector) Magnitude() float64 {
	return math.Sqrt(v.X*v.X + v.Y*v.Y + v.Z*v.Z)
}

//Returns the squared magnitude of the vector
//
//Cheaper than Magnitude when only comparisons are needed
func (v Vector) MagnitudeSquared() float64 {
	return v.X*v.X + v.Y*v.Y + v.Z*v.Z
}

//Multiplies the vector by the constant
func (v Vector) MultiplyByConst(a float64) Vector {
	return Create(a*v.X, a*v.Y, a*v.Z)
}

//Adds two vectors
func (v Vector) Add(b Vector) Vector {
	return Create(v.X+b.X, v.Y+b.Y, v.Z+b.Z)
}

//Subtracts one vector from another
func (v Vector) Subtract(b Vector) Vector {
	return Create(v.X-b.X, v.Y-b.Y, v.Z-b.Z)
}

//Returns a vector which is symmetrical to this vector vs (0,0,0) point
func (v Vector) Negate() Vector {
	return Create(-v.X, -v.Y, -v.Z)
}

//Returns a vector of magnitude one which is collinear to this vector
//
//A vector of near-zero magnitude is returned unchanged
func (v Vector) Normalize() Vector {
	magnitude := v.Magnitude()

	if math.Abs(magnitude) < 1e-10 {
		return v.Copy()
	}
	return v.MultiplyByConst(1.0 / magnitude)
}
