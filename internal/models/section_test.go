package models

import (
	"encoding/json"
	"testing"
)

func TestSectionUnmarshalUsesTypeDiscriminant(t *testing.T) {
	payload := `{"id":7,"title":"Hero","type":"HERO","content":{"title":"Top","headline":"Hi","overlayOpacity":20}}`

	var section Section
	if err := json.Unmarshal([]byte(payload), &section); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if section.ID != "7" {
		t.Fatalf("expected numeric id to decode as string, got %q", section.ID)
	}

	hero, ok := section.Content.(*HeroContent)
	if !ok {
		t.Fatalf("expected hero content, got %T", section.Content)
	}
	if hero.Headline != "Hi" || hero.OverlayOpacity != 20 {
		t.Fatalf("unexpected hero content: %+v", hero)
	}
	if hero.ButtonStyle != ButtonGradient {
		t.Fatalf("expected omitted fields to keep defaults, got %q", hero.ButtonStyle)
	}
}

func TestSectionUnmarshalAcceptsEncodedContent(t *testing.T) {
	payload := `{"id":"a","title":"Text","type":"text","content":"{\"title\":\"Intro\",\"text\":\"Body\"}"}`

	var section Section
	if err := json.Unmarshal([]byte(payload), &section); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	text, ok := section.Content.(*TextContent)
	if !ok {
		t.Fatalf("expected text content, got %T", section.Content)
	}
	if text.Title != "Intro" || text.Text != "Body" {
		t.Fatalf("unexpected text content: %+v", text)
	}
}

func TestSectionUnmarshalUnknownTypeBecomesText(t *testing.T) {
	var section Section
	if err := json.Unmarshal([]byte(`{"id":"x","type":"VIDEO","content":{"title":"Clip"}}`), &section); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if section.Type != SectionTypeText {
		t.Fatalf("expected TEXT, got %s", section.Type)
	}
	if section.Content.ContentTitle() != "Clip" {
		t.Fatalf("expected title to survive, got %q", section.Content.ContentTitle())
	}
}

func TestCarouselDecodeDoesNotMergeDefaultSlide(t *testing.T) {
	raw := json.RawMessage(`{"slides":[{"id":"one","imageUrl":"/a.jpg","caption":"A"}]}`)

	content, err := DecodeContent(SectionTypeCarousel, raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	carousel := content.(*CarouselContent)
	if len(carousel.Slides) != 1 {
		t.Fatalf("expected one slide, got %d", len(carousel.Slides))
	}
	if carousel.Slides[0].Subtitle != "" || carousel.Slides[0].URL != "" {
		t.Fatalf("default slide leaked into decoded slide: %+v", carousel.Slides[0])
	}
}

func TestCarouselDecodeRestoresMinimumSlide(t *testing.T) {
	content, err := DecodeContent(SectionTypeCarousel, json.RawMessage(`{"slides":[]}`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n := len(content.(*CarouselContent).Slides); n != 1 {
		t.Fatalf("expected empty slides to be restored to one, got %d", n)
	}
}

func TestSectionMarshalReplacesMismatchedContent(t *testing.T) {
	section := Section{ID: "a", Type: SectionTypeGallery, Content: &TextContent{}}

	encoded, err := json.Marshal(section)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var decoded Section
	if err := json.Unmarshal(encoded, &decoded); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := decoded.Content.(*GalleryContent); !ok {
		t.Fatalf("expected gallery content, got %T", decoded.Content)
	}
}

func TestDraftSectionsScanAndValue(t *testing.T) {
	sections := DraftSections{NewSection("One", SectionTypeCard)}

	value, err := sections.Value()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var scanned DraftSections
	if err := scanned.Scan(value); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(scanned) != 1 || scanned[0].Type != SectionTypeCard {
		t.Fatalf("unexpected scanned sections: %+v", scanned)
	}

	var empty DraftSections
	if err := empty.Scan(nil); err != nil || empty == nil {
		t.Fatalf("expected nil scan to produce an empty list")
	}
}
