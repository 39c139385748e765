package models

import (
	"fmt"

	"github.com/google/uuid"
)

const (
	DefaultSectionTitle     = "New Section"
	DefaultCarouselInterval = 15000
	DefaultGalleryColumns   = 3
	DefaultOverlayOpacity   = 50
)

// DefaultContent returns a fully populated default payload for t. Values
// outside the enum fall back to the TEXT default instead of failing, so a
// section decoded from an unexpected payload still renders as plain text.
func DefaultContent(t SectionType) Content {
	switch t {
	case SectionTypeText:
		return defaultText()
	case SectionTypeCarousel:
		return &CarouselContent{
			Base:         Base{Title: "Carousel Section"},
			Slides:       []Slide{NewSlide(1)},
			Autoplay:     true,
			Interval:     DefaultCarouselInterval,
			ShowArrows:   true,
			ShowDots:     true,
			Animation:    AnimationSlide,
			ClickAction:  ClickLink,
			Height:       HeightMedium,
			CaptionStyle: CaptionWhiteBox,
		}
	case SectionTypeGallery:
		return &GalleryContent{
			Base:    Base{Title: "Gallery Section"},
			Images:  []GalleryImage{},
			Columns: DefaultGalleryColumns,
		}
	case SectionTypeCard:
		return &CardContent{
			Base: Base{Title: "Card Section"},
		}
	case SectionTypeHero:
		return &HeroContent{
			Base:           Base{Title: "Hero Section"},
			BackgroundType: BackgroundImage,
			OverlayOpacity: DefaultOverlayOpacity,
			Headline:       "Welcome to Our Website",
			Subtext:        "Discover our amazing products and services",
			ButtonText:     "Get Started",
			ButtonURL:      "/contact",
			ButtonStyle:    ButtonGradient,
			TextAlignment:  AlignCenter,
			FullHeight:     true,
		}
	default:
		return defaultText()
	}
}

func defaultText() Content {
	return &TextContent{Base: Base{Title: "Text Section"}}
}

// NewSection builds a section of type t with default content and a fresh id.
func NewSection(title string, t SectionType) Section {
	content := DefaultContent(t)
	return Section{
		ID:      NewSectionID(),
		Title:   title,
		Type:    content.Type(),
		Content: content,
	}
}

func NewSectionID() string {
	return "s-" + uuid.NewString()
}

// NewSlide builds the placeholder slide shown as the n-th slide (1-based).
func NewSlide(n int) Slide {
	return Slide{
		ID:       "slide-" + uuid.NewString(),
		Caption:  fmt.Sprintf("Slide %d", n),
		Subtitle: fmt.Sprintf("Subtitle for slide %d", n),
		URL:      fmt.Sprintf("/slide-%d", n),
	}
}

func NewGalleryImage(imageURL, caption string) GalleryImage {
	return GalleryImage{
		ID:       "img-" + uuid.NewString(),
		ImageURL: imageURL,
		Caption:  caption,
	}
}
