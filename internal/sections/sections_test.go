package sections

import (
	"errors"
	"strings"
	"testing"

	"kirin-dashboard/internal/models"
)

type stubContext struct{}

func (stubContext) SanitizeHTML(input string) string   { return input }
func (stubContext) RenderMarkdown(input string) string { return "<p>" + input + "</p>" }

func TestDefaultRegistryCoversEveryType(t *testing.T) {
	reg := DefaultRegistry()
	for _, st := range models.SectionTypes {
		if _, ok := reg.Get(st); !ok {
			t.Fatalf("expected renderer for %s", st)
		}
	}

	types := reg.Types()
	if len(types) != len(models.SectionTypes) || types[0].Type != models.SectionTypeText || types[4].Type != models.SectionTypeHero {
		t.Fatalf("unexpected type order %+v", types)
	}
}

func TestRegisterRejectsUnknownType(t *testing.T) {
	reg := NewRegistry()
	if err := reg.Register(Metadata{Type: "VIDEO"}, renderText); err == nil {
		t.Fatalf("expected error for unknown type")
	}
	if err := reg.Register(Metadata{Type: models.SectionTypeText}, nil); err == nil {
		t.Fatalf("expected error for nil renderer")
	}
}

func TestRenderNilSectionRendersNothing(t *testing.T) {
	html, err := Render(DefaultRegistry(), stubContext{}, nil, State{})
	if err != nil || html != "" {
		t.Fatalf("expected empty output, got %q %v", html, err)
	}
}

func TestRenderMissingRenderer(t *testing.T) {
	section := models.NewSection("x", models.SectionTypeCard)
	_, err := Render(NewRegistry(), stubContext{}, &section, State{})
	if !errors.Is(err, ErrNoRenderer) {
		t.Fatalf("expected ErrNoRenderer, got %v", err)
	}
}

func TestCarouselRendersActiveSlideAndDots(t *testing.T) {
	section := models.NewSection("Slides", models.SectionTypeCarousel)
	carousel := section.Content.(*models.CarouselContent)
	carousel.AddSlide()
	carousel.Slides[1].ImageURL = "/two.jpg"

	html, err := Render(DefaultRegistry(), stubContext{}, &section, State{ActiveSlide: 1})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(html, `src="/two.jpg"`) || !strings.Contains(html, "Slide 2") {
		t.Fatalf("expected second slide, got %s", html)
	}
	if strings.Count(html, "data-index=") != 2 || !strings.Contains(html, `dot--active" data-index="1"`) {
		t.Fatalf("expected two dots with the second active, got %s", html)
	}
	if !strings.Contains(html, `href="/slide-2"`) {
		t.Fatalf("expected link click action, got %s", html)
	}
}

func TestHeroEscapesUnsafeURL(t *testing.T) {
	section := models.NewSection("Hero", models.SectionTypeHero)
	hero := section.Content.(*models.HeroContent)
	hero.ButtonURL = "javascript:alert(1)"
	hero.BackgroundURL = "/bg.jpg"

	html, _ := Render(DefaultRegistry(), stubContext{}, &section, State{})
	if strings.Contains(html, "javascript:") {
		t.Fatalf("expected unsafe url to be dropped, got %s", html)
	}
	if !strings.Contains(html, `opacity:0.50`) {
		t.Fatalf("expected overlay opacity, got %s", html)
	}
}

func TestGalleryUsesColumns(t *testing.T) {
	section := models.NewSection("Gallery", models.SectionTypeGallery)
	gallery := section.Content.(*models.GalleryContent)
	gallery.Columns = 2
	gallery.AddImage("/a.jpg", "A")

	html, _ := Render(DefaultRegistry(), stubContext{}, &section, State{})
	if !strings.Contains(html, "repeat(2,") || !strings.Contains(html, `src="/a.jpg"`) {
		t.Fatalf("unexpected gallery html %s", html)
	}
}

func TestTextRendersMarkdownAndSanitises(t *testing.T) {
	section := models.NewSection("Text", models.SectionTypeText)
	section.Content.(*models.TextContent).Text = "**bold** <script>alert(1)</script>"

	html, _ := Render(DefaultRegistry(), NewHTMLContext(), &section, State{})
	if !strings.Contains(html, "<strong>bold</strong>") {
		t.Fatalf("expected markdown output, got %s", html)
	}
	if strings.Contains(html, "<script>") {
		t.Fatalf("expected script to be removed, got %s", html)
	}
}

func TestRenderPageKeepsOrder(t *testing.T) {
	first := models.NewSection("One", models.SectionTypeCard)
	first.Content.(*models.CardContent).Heading = "First"
	second := models.NewSection("Two", models.SectionTypeCard)
	second.Content.(*models.CardContent).Heading = "Second"

	html := RenderPage(DefaultRegistry(), stubContext{}, []models.Section{first, second})
	if strings.Index(html, "First") > strings.Index(html, "Second") {
		t.Fatalf("expected sections in order, got %s", html)
	}
}
