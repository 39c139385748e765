package editor

import "time"

// Carousel returns the navigation state of the selected carousel.
func (s *Store) Carousel() Carousel {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.carousel
}

func (s *Store) Next() bool {
	return s.navigate(func(c *Carousel, slides int) bool { return c.Next(slides) })
}

func (s *Store) Prev() bool {
	return s.navigate(func(c *Carousel, slides int) bool { return c.Prev(slides) })
}

func (s *Store) GoTo(index int) bool {
	return s.navigate(func(c *Carousel, slides int) bool { return c.GoTo(index, slides) })
}

func (s *Store) AnimationDone() bool {
	return s.apply(func() (Event, bool) {
		if !s.carousel.AnimationDone() {
			return Event{}, false
		}
		s.stopTransitionLocked()
		return s.event(EventCarouselChanged), true
	})
}

func (s *Store) TouchStart(x, y float64) bool {
	return s.apply(func() (Event, bool) {
		if s.slideCountLocked() == 0 {
			return Event{}, false
		}
		s.carousel.TouchStart(x, y)
		return s.event(EventCarouselChanged), true
	})
}

// TouchMove reports whether the gesture is claimed as horizontal.
func (s *Store) TouchMove(x, y float64) bool {
	var claimed bool
	s.apply(func() (Event, bool) {
		if !s.carousel.Touch.Swiping {
			return Event{}, false
		}
		claimed = s.carousel.TouchMove(x, y)
		return s.event(EventCarouselChanged), true
	})
	return claimed
}

// TouchEnd finishes the gesture and returns the direction navigated, if any.
func (s *Store) TouchEnd() Direction {
	direction := DirectionNone
	s.apply(func() (Event, bool) {
		if !s.carousel.Touch.Swiping {
			return Event{}, false
		}
		direction = s.carousel.TouchEnd(s.slideCountLocked())
		if direction != DirectionNone {
			s.armTransitionLocked()
		}
		return s.event(EventCarouselChanged), true
	})
	return direction
}

// AutoAdvance moves the carousel of sectionID forward unless a gesture or a
// transition is in flight or the selection has moved on.
func (s *Store) AutoAdvance(sectionID string) bool {
	return s.apply(func() (Event, bool) {
		if sectionID != s.selectedID || s.carousel.Touch.Swiping || s.carousel.Animating {
			return Event{}, false
		}
		if !s.carousel.Next(s.slideCountLocked()) {
			return Event{}, false
		}
		s.armTransitionLocked()
		return s.event(EventCarouselChanged), true
	})
}

type autoplaySettings struct {
	sectionID string
	interval  time.Duration
	enabled   bool
}

func (s *Store) autoplaySettings() autoplaySettings {
	s.mu.Lock()
	defer s.mu.Unlock()

	carousel, section := s.selectedCarouselLocked()
	if carousel == nil || s.closed {
		return autoplaySettings{}
	}
	return autoplaySettings{
		sectionID: section.ID,
		interval:  time.Duration(carousel.Interval) * time.Millisecond,
		enabled:   carousel.Autoplay && carousel.Interval > 0,
	}
}

func (s *Store) navigate(step func(c *Carousel, slides int) bool) bool {
	return s.apply(func() (Event, bool) {
		if !step(&s.carousel, s.slideCountLocked()) {
			return Event{}, false
		}
		s.armTransitionLocked()
		return s.event(EventCarouselChanged), true
	})
}

func (s *Store) slideCountLocked() int {
	carousel, _ := s.selectedCarouselLocked()
	if carousel == nil {
		return 0
	}
	return len(carousel.Slides)
}

func (s *Store) clampActiveLocked() {
	slides := s.slideCountLocked()
	if slides == 0 {
		return
	}
	if s.carousel.Active >= slides {
		s.carousel.Active = slides - 1
	}
}

func (s *Store) resetCarouselLocked() {
	s.carousel.Reset()
	s.stopTransitionLocked()
}

// armTransitionLocked schedules the automatic end of the transition that
// just started. Each arm bumps the generation so older timers become inert.
func (s *Store) armTransitionLocked() {
	if s.transition <= 0 || s.closed {
		return
	}
	s.stopTransitionLocked()
	gen := s.transitionGen
	s.transitionTimer = time.AfterFunc(s.transition, func() {
		s.finishTransition(gen)
	})
}

func (s *Store) stopTransitionLocked() {
	s.transitionGen++
	if s.transitionTimer != nil {
		s.transitionTimer.Stop()
		s.transitionTimer = nil
	}
}

func (s *Store) finishTransition(gen uint64) {
	s.apply(func() (Event, bool) {
		if gen != s.transitionGen {
			return Event{}, false
		}
		s.transitionTimer = nil
		if !s.carousel.AnimationDone() {
			return Event{}, false
		}
		return s.event(EventCarouselChanged), true
	})
}
