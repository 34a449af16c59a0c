// Package geometry holds the collection operations of the circle calculator.
package geometry

import (
	"errors"
	"fmt"

	"irrigation_controller/internal/models"
	"irrigation_controller/internal/random"
)

// Canonical populate range.
const (
	DefaultMinRadius = 2
	DefaultMaxRadius = 100
	DefaultCount     = 10
)

var (
	ErrEmptyCollection = errors.New("no circles: populate the collection first")
	ErrInvalidRange    = errors.New("invalid radius range")
)

// Populate draws an integer radius in [low, high] for every circle. Area and
// circumference are cleared until DeriveAreas and DeriveCircumferences run.
func Populate(circles []models.Circle, src random.Source, low, high int) error {
	if low <= 0 || low > high {
		return fmt.Errorf("%w: [%d, %d]", ErrInvalidRange, low, high)
	}
	for i := range circles {
		circles[i] = models.Circle{Radius: float64(src.Intn(low, high))}
	}
	return nil
}

// DeriveAreas recomputes Area for every circle.
func DeriveAreas(circles []models.Circle) {
	for i := range circles {
		circles[i].Area = models.CircleArea(circles[i].Radius)
	}
}

// DeriveCircumferences recomputes Circumference for every circle.
func DeriveCircumferences(circles []models.Circle) {
	for i := range circles {
		circles[i].Circumference = models.CircleCircumference(circles[i].Radius)
	}
}

// MatchRadiusRange returns the indices of the circles with low <= radius <= high,
// in original order.
func MatchRadiusRange(circles []models.Circle, low, high float64) []int {
	out := make([]int, 0, len(circles))
	for i, c := range circles {
		if c.Radius >= low && c.Radius <= high {
			out = append(out, i)
		}
	}
	return out
}

// SearchByRadiusRange returns, in original order, the circles with
// low <= radius <= high. No match yields an empty, non-nil slice.
func SearchByRadiusRange(circles []models.Circle, low, high float64) []models.Circle {
	idx := MatchRadiusRange(circles, low, high)
	out := make([]models.Circle, 0, len(idx))
	for _, i := range idx {
		out = append(out, circles[i])
	}
	return out
}

// Extremes returns the indices of the largest and smallest radius.
// Ties keep the first occurrence.
func Extremes(circles []models.Circle) (largest, smallest int, err error) {
	if len(circles) == 0 {
		return 0, 0, ErrEmptyCollection
	}
	for i := 1; i < len(circles); i++ {
		if circles[i].Radius > circles[largest].Radius {
			largest = i
		}
		if circles[i].Radius < circles[smallest].Radius {
			smallest = i
		}
	}
	return largest, smallest, nil
}
