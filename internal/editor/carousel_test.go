package editor

import (
	"testing"
	"time"

	"kirin-dashboard/internal/models"
)

func TestNextWrapsAround(t *testing.T) {
	const slides = 4
	var c Carousel

	for i := 0; i < slides; i++ {
		if !c.Next(slides) {
			t.Fatalf("expected step %d to navigate", i)
		}
		c.AnimationDone()
	}
	if c.Active != 0 {
		t.Fatalf("expected to wrap back to 0, got %d", c.Active)
	}
}

func TestPrevFromFirstGoesToLast(t *testing.T) {
	var c Carousel
	c.Prev(3)
	if c.Active != 2 || c.Direction != DirectionBackward {
		t.Fatalf("expected last slide going backwards, got %+v", c)
	}
}

func TestNavigationIsDroppedWhileAnimating(t *testing.T) {
	var c Carousel
	c.Next(3)

	if c.Next(3) || c.Prev(3) || c.GoTo(2, 3) {
		t.Fatalf("expected navigation to be dropped while animating")
	}
	if c.Active != 1 {
		t.Fatalf("expected active slide to stay at 1, got %d", c.Active)
	}
}

func TestGoTo(t *testing.T) {
	var c Carousel

	if c.GoTo(0, 3) {
		t.Fatalf("expected jump to the active slide to be a no-op")
	}
	if c.GoTo(5, 3) {
		t.Fatalf("expected out of range jump to be a no-op")
	}
	if !c.GoTo(2, 3) || c.Active != 2 || c.Direction != DirectionForward {
		t.Fatalf("expected forward jump to 2, got %+v", c)
	}
	c.AnimationDone()
	if !c.GoTo(1, 3) || c.Direction != DirectionBackward {
		t.Fatalf("expected backward jump, got %+v", c)
	}
}

func TestHorizontalSwipeTriggersNext(t *testing.T) {
	var c Carousel
	c.TouchStart(200, 100)
	if !c.TouchMove(140, 105) {
		t.Fatalf("expected horizontal move to be claimed")
	}

	if got := c.TouchEnd(3); got != DirectionForward {
		t.Fatalf("expected next, got %d", got)
	}
	if c.Active != 1 {
		t.Fatalf("expected slide 1, got %d", c.Active)
	}
	if c.Touch != (Touch{}) {
		t.Fatalf("expected touch state to be cleared, got %+v", c.Touch)
	}
}

func TestRightwardSwipeTriggersPrev(t *testing.T) {
	var c Carousel
	c.TouchStart(100, 100)
	c.TouchMove(170, 90)

	if got := c.TouchEnd(3); got != DirectionBackward || c.Active != 2 {
		t.Fatalf("expected prev to slide 2, got %d at %d", got, c.Active)
	}
}

func TestVerticalSwipeDoesNotNavigate(t *testing.T) {
	var c Carousel
	c.TouchStart(200, 100)
	if c.TouchMove(140, 170) {
		t.Fatalf("expected vertical move not to be claimed")
	}

	if got := c.TouchEnd(3); got != DirectionNone {
		t.Fatalf("expected no navigation, got %d", got)
	}
	if c.Active != 0 || c.Touch.Swiping {
		t.Fatalf("expected unchanged carousel with touch reset, got %+v", c)
	}
}

func TestTapDoesNotNavigate(t *testing.T) {
	var c Carousel
	c.TouchStart(200, 100)

	if got := c.TouchEnd(3); got != DirectionNone {
		t.Fatalf("expected tap not to navigate, got %d", got)
	}
}

func TestShortSwipeDoesNotNavigate(t *testing.T) {
	var c Carousel
	c.TouchStart(200, 100)
	c.TouchMove(170, 100)

	if got := c.TouchEnd(3); got != DirectionNone {
		t.Fatalf("expected swipe under the threshold to be ignored, got %d", got)
	}
}

func TestStoreSwipeThroughSelectedCarousel(t *testing.T) {
	store := newTestStore(t, section("A", models.SectionTypeCarousel))
	store.SelectSection("A")
	store.AddSlide()
	store.GoTo(0)
	store.AnimationDone()

	store.TouchStart(300, 50)
	store.TouchMove(240, 55)
	if got := store.TouchEnd(); got != DirectionForward {
		t.Fatalf("expected next from the store, got %d", got)
	}
	if c := store.Carousel(); c.Active != 1 || !c.Animating {
		t.Fatalf("unexpected carousel state %+v", c)
	}
}

func TestNavigationWithoutCarouselIsNoOp(t *testing.T) {
	store := newTestStore(t, section("A", models.SectionTypeText))
	store.SelectSection("A")

	if store.Next() || store.Prev() || store.GoTo(1) || store.TouchStart(0, 0) {
		t.Fatalf("expected navigation on a text section to be a no-op")
	}
}

func TestTransitionCompletesAutomatically(t *testing.T) {
	store := NewStore(10 * time.Millisecond)
	t.Cleanup(store.Close)
	store.SelectPage("home")
	store.SetSections("home", []models.Section{section("A", models.SectionTypeCarousel)})
	store.SelectSection("A")
	store.AddSlide()
	store.GoTo(0)

	deadline := time.Now().Add(2 * time.Second)
	for store.Carousel().Animating {
		if time.Now().After(deadline) {
			t.Fatalf("expected transition to complete on its own")
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestStaleTransitionTimerIsIgnored(t *testing.T) {
	store := NewStore(time.Hour)
	t.Cleanup(store.Close)
	store.SelectPage("home")
	store.SetSections("home", []models.Section{section("A", models.SectionTypeCarousel)})
	store.SelectSection("A")
	store.AddSlide()
	store.AddSlide()

	store.GoTo(0)
	store.mu.Lock()
	stale := store.transitionGen
	store.mu.Unlock()

	store.AnimationDone()
	store.Next()
	store.finishTransition(stale)

	if !store.Carousel().Animating {
		t.Fatalf("expected a stale timer not to finish the current transition")
	}
}
