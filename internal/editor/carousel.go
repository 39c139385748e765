package editor

import "math"

const (
	// SwipeClaimThreshold is the horizontal travel after which a touch
	// gesture is treated as a horizontal swipe.
	SwipeClaimThreshold = 10
	// SwipeThreshold is the horizontal travel a finished gesture needs to
	// change slides.
	SwipeThreshold = 50
)

type Direction int

const (
	DirectionBackward Direction = -1
	DirectionNone     Direction = 0
	DirectionForward  Direction = 1
)

type Touch struct {
	StartX   float64 `json:"startX"`
	StartY   float64 `json:"startY"`
	CurrentX float64 `json:"currentX"`
	CurrentY float64 `json:"currentY"`
	Swiping  bool    `json:"swiping"`
}

// Carousel is the transient navigation state of the carousel under edit. It is
// never persisted and is reset whenever the selected section changes.
type Carousel struct {
	Active    int       `json:"activeSlide"`
	Direction Direction `json:"direction"`
	Animating bool      `json:"animating"`
	Touch     Touch     `json:"touch"`
}

func (c *Carousel) Reset() {
	*c = Carousel{}
}

// Next advances one slide, wrapping to the first. It reports whether a
// transition started.
func (c *Carousel) Next(slides int) bool {
	if c.Animating || slides <= 0 {
		return false
	}
	c.Direction = DirectionForward
	c.Active = (c.clamp(slides) + 1) % slides
	c.Animating = true
	return true
}

// Prev retreats one slide, wrapping to the last.
func (c *Carousel) Prev(slides int) bool {
	if c.Animating || slides <= 0 {
		return false
	}
	c.Direction = DirectionBackward
	c.Active = (c.clamp(slides) - 1 + slides) % slides
	c.Animating = true
	return true
}

// GoTo jumps directly to index.
func (c *Carousel) GoTo(index, slides int) bool {
	if c.Animating || index < 0 || index >= slides || index == c.Active {
		return false
	}
	if index > c.Active {
		c.Direction = DirectionForward
	} else {
		c.Direction = DirectionBackward
	}
	c.Active = index
	c.Animating = true
	return true
}

func (c *Carousel) AnimationDone() bool {
	if !c.Animating {
		return false
	}
	c.Animating = false
	return true
}

// TouchStart begins a gesture. The current point starts at the origin so a
// tap without movement never counts as a swipe.
func (c *Carousel) TouchStart(x, y float64) {
	c.Touch = Touch{StartX: x, StartY: y, CurrentX: x, CurrentY: y, Swiping: true}
}

// TouchMove records the pointer and reports whether the gesture is claimed
// as horizontal.
func (c *Carousel) TouchMove(x, y float64) bool {
	if !c.Touch.Swiping {
		return false
	}
	c.Touch.CurrentX = x
	c.Touch.CurrentY = y
	dx, dy := c.delta()
	return math.Abs(dx) > math.Abs(dy) && math.Abs(dx) > SwipeClaimThreshold
}

// TouchEnd finishes the gesture and navigates when it was a horizontal swipe
// past SwipeThreshold. Touch state is cleared either way.
func (c *Carousel) TouchEnd(slides int) Direction {
	if !c.Touch.Swiping {
		return DirectionNone
	}
	dx, dy := c.delta()
	c.Touch = Touch{}

	if math.Abs(dx) <= math.Abs(dy) || math.Abs(dx) <= SwipeThreshold {
		return DirectionNone
	}
	if dx > 0 {
		if c.Next(slides) {
			return DirectionForward
		}
		return DirectionNone
	}
	if c.Prev(slides) {
		return DirectionBackward
	}
	return DirectionNone
}

// delta is measured from the current point back to the start, so a leftward
// swipe is positive and means "next".
func (c *Carousel) delta() (float64, float64) {
	return c.Touch.StartX - c.Touch.CurrentX, c.Touch.StartY - c.Touch.CurrentY
}

func (c *Carousel) clamp(slides int) int {
	if c.Active < 0 {
		return 0
	}
	if c.Active >= slides {
		return slides - 1
	}
	return c.Active
}
