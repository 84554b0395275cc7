package entity

import (
	"fmt"
	"math"
)

// Rect is an integer pixel rectangle in workspace coordinates.
type Rect struct {
	X int `json:"x"`
	Y int `json:"y"`
	W int `json:"width"`
	H int `json:"height"`
}

// SafeRect is substituted for geometry that fails validation.
// A zero-sized surface is invisible until reconciliation pushes a real rect.
var SafeRect = Rect{}

// Center returns the center point of the rectangle.
func (r Rect) Center() (cx, cy int) {
	return r.X + r.W/2, r.Y + r.H/2
}

// Empty reports whether the rectangle has no area.
func (r Rect) Empty() bool {
	return r.W <= 0 || r.H <= 0
}

// Contains reports whether p lies inside r.
func (r Rect) Contains(p Point) bool {
	return p.X >= float64(r.X) && p.X < float64(r.X+r.W) &&
		p.Y >= float64(r.Y) && p.Y < float64(r.Y+r.H)
}

// Inset shrinks the rectangle by n on every side, never below zero size.
func (r Rect) Inset(n int) Rect {
	out := Rect{X: r.X + n, Y: r.Y + n, W: r.W - 2*n, H: r.H - 2*n}
	if out.W < 0 {
		out.W = 0
	}
	if out.H < 0 {
		out.H = 0
	}
	return out
}

// Extent returns the rectangle's size along axis.
func (r Rect) Extent(axis Axis) int {
	if axis == AxisHorizontal {
		return r.W
	}
	return r.H
}

func (r Rect) String() string {
	return fmt.Sprintf("{%d,%d %dx%d}", r.X, r.Y, r.W, r.H)
}

// Point is a pointer position in workspace coordinates.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// RawRect is a rectangle as it arrives over the wire, before validation.
type RawRect struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	W float64 `json:"width"`
	H float64 `json:"height"`
}

// Raw converts r to its wire form.
func (r Rect) Raw() RawRect {
	return RawRect{X: float64(r.X), Y: float64(r.Y), W: float64(r.W), H: float64(r.H)}
}

// Rect validates the raw rectangle. Every field must be an integer within
// int32 range and the dimensions must not be negative.
func (r RawRect) Rect() (Rect, error) {
	for _, v := range []float64{r.X, r.Y, r.W, r.H} {
		if math.IsNaN(v) || math.IsInf(v, 0) || v != math.Trunc(v) {
			return SafeRect, fmt.Errorf("%w: non-integer value %v", ErrInvalidGeometry, v)
		}
		if v < math.MinInt32 || v > math.MaxInt32 {
			return SafeRect, fmt.Errorf("%w: value %v out of range", ErrInvalidGeometry, v)
		}
	}
	if r.W < 0 || r.H < 0 {
		return SafeRect, fmt.Errorf("%w: negative size %vx%v", ErrInvalidGeometry, r.W, r.H)
	}
	return Rect{X: int(r.X), Y: int(r.Y), W: int(r.W), H: int(r.H)}, nil
}

// Axis is the main axis of a container.
type Axis int

const (
	AxisHorizontal Axis = iota // Row: children laid out left to right
	AxisVertical               // Column: children laid out top to bottom
)

func (a Axis) String() string {
	if a == AxisHorizontal {
		return "horizontal"
	}
	return "vertical"
}

// Direction is a split gesture direction.
type Direction string

const (
	DirectionLeft  Direction = "left"
	DirectionRight Direction = "right"
	DirectionUp    Direction = "up"
	DirectionDown  Direction = "down"
)

// Axis returns the axis the direction runs along.
func (d Direction) Axis() Axis {
	switch d {
	case DirectionUp, DirectionDown:
		return AxisVertical
	default:
		return AxisHorizontal
	}
}

// TowardStart reports whether the new pane goes before the target.
func (d Direction) TowardStart() bool {
	return d == DirectionLeft || d == DirectionUp
}

// Valid reports whether d is one of the four known directions.
func (d Direction) Valid() bool {
	switch d {
	case DirectionLeft, DirectionRight, DirectionUp, DirectionDown:
		return true
	}
	return false
}

// DisplayMetrics describes the host display the workspace lives on.
type DisplayMetrics struct {
	Bounds      Rect    `json:"bounds"`
	WorkArea    Rect    `json:"workArea"`
	ScaleFactor float64 `json:"scaleFactor"`
}
