package models

import "math"

// Circle is a radius with its derived area and circumference.
// Area and Circumference are only ever written by Derive.
type Circle struct {
	Radius        float64 `json:"radius"`
	Area          float64 `json:"area"`
	Circumference float64 `json:"circumference"`
}

// NewCircle returns a circle with derived fields already computed.
func NewCircle(radius float64) Circle {
	c := Circle{}
	c.SetRadius(radius)
	return c
}

// SetRadius replaces the radius and recomputes the derived fields.
func (c *Circle) SetRadius(radius float64) {
	c.Radius = radius
	c.Derive()
}

// Derive recomputes area and circumference from the radius.
func (c *Circle) Derive() {
	c.Area = CircleArea(c.Radius)
	c.Circumference = CircleCircumference(c.Radius)
}

// CircleArea is π·r².
func CircleArea(radius float64) float64 {
	return math.Pi * radius * radius
}

// CircleCircumference is 2·π·r.
func CircleCircumference(radius float64) float64 {
	return 2 * math.Pi * radius
}
