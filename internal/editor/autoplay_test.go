package editor

import (
	"testing"
	"time"

	"kirin-dashboard/internal/models"
)

func waitFor(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatalf("timed out waiting for %s", what)
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func carouselStore(t *testing.T, transition time.Duration) *Store {
	t.Helper()
	store := NewStore(transition)
	t.Cleanup(store.Close)
	store.SelectPage("home")
	store.SetSections("home", []models.Section{
		section("A", models.SectionTypeCarousel),
		section("B", models.SectionTypeText),
	})
	return store
}

func TestAutoplayAdvancesSelectedCarousel(t *testing.T) {
	store := carouselStore(t, time.Millisecond)
	autoplay := NewAutoplayer(store)
	t.Cleanup(autoplay.Close)

	store.SelectSection("A")
	store.AddSlide()
	store.AddSlide()
	store.UpdateField("interval", 20)

	if id, running := autoplay.Running(); !running || id != "A" {
		t.Fatalf("expected autoplay to run for A, got %q %v", id, running)
	}

	start := store.Carousel().Active
	waitFor(t, "autoplay to advance", func() bool {
		return store.Carousel().Active != start
	})
}

func TestAutoplayStopsWhenDisabledOrDeselected(t *testing.T) {
	store := carouselStore(t, 0)
	autoplay := NewAutoplayer(store)
	t.Cleanup(autoplay.Close)

	store.SelectSection("A")
	if _, running := autoplay.Running(); !running {
		t.Fatalf("expected default carousel to autoplay")
	}

	store.UpdateField("autoplay", false)
	if _, running := autoplay.Running(); running {
		t.Fatalf("expected autoplay to stop when disabled")
	}

	store.UpdateField("autoplay", true)
	store.SelectSection("B")
	if _, running := autoplay.Running(); running {
		t.Fatalf("expected autoplay to stop for a text section")
	}

	store.SelectSection("A")
	store.ChangeSectionType(models.SectionTypeGallery)
	if _, running := autoplay.Running(); running {
		t.Fatalf("expected autoplay to stop after a type change")
	}
}

func TestAutoplaySkipsTicksWhileAnimating(t *testing.T) {
	store := carouselStore(t, 0)
	store.SelectSection("A")
	store.AddSlide()
	store.GoTo(0)

	if store.AutoAdvance("A") {
		t.Fatalf("expected tick during a transition to be skipped")
	}

	store.AnimationDone()
	store.TouchStart(10, 10)
	if store.AutoAdvance("A") {
		t.Fatalf("expected tick during a swipe to be skipped")
	}

	store.TouchEnd()
	if !store.AutoAdvance("A") {
		t.Fatalf("expected idle tick to advance")
	}
	if store.AutoAdvance("B") {
		t.Fatalf("expected tick for a deselected section to be skipped")
	}
}

func TestAutoplayCloseStopsTicker(t *testing.T) {
	store := carouselStore(t, 0)
	autoplay := NewAutoplayer(store)
	store.SelectSection("A")
	store.UpdateField("interval", 5)

	autoplay.Close()
	autoplay.Close()

	if _, running := autoplay.Running(); running {
		t.Fatalf("expected autoplay to be stopped after close")
	}
	store.SelectSection("B")
	store.SelectSection("A")
	if _, running := autoplay.Running(); running {
		t.Fatalf("expected closed autoplayer to ignore store events")
	}
}
