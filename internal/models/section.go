package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// SectionType discriminates the content variant carried by a Section.
type SectionType string

const (
	SectionTypeText     SectionType = "TEXT"
	SectionTypeCarousel SectionType = "CAROUSEL"
	SectionTypeGallery  SectionType = "GALLERY"
	SectionTypeCard     SectionType = "CARD"
	SectionTypeHero     SectionType = "HERO"
)

// SectionTypes lists every variant in the order the type selector shows them.
var SectionTypes = []SectionType{
	SectionTypeText,
	SectionTypeCarousel,
	SectionTypeGallery,
	SectionTypeCard,
	SectionTypeHero,
}

// ParseSectionType normalises value and reports whether it names a variant.
func ParseSectionType(value string) (SectionType, bool) {
	t := SectionType(strings.ToUpper(strings.TrimSpace(value)))
	return t, t.Valid()
}

func (t SectionType) Valid() bool {
	switch t {
	case SectionTypeText, SectionTypeCarousel, SectionTypeGallery, SectionTypeCard, SectionTypeHero:
		return true
	default:
		return false
	}
}

// Section is one typed content block on a page. Content always matches Type.
type Section struct {
	ID      string      `json:"id"`
	Title   string      `json:"title"`
	Type    SectionType `json:"type"`
	Content Content     `json:"content"`
}

// Clone returns a deep copy of the section.
func (s Section) Clone() Section {
	cp := s
	if s.Content != nil {
		cp.Content = s.Content.Clone()
	}
	return cp
}

type sectionWire struct {
	ID      ID              `json:"id"`
	Title   string          `json:"title"`
	Type    string          `json:"type"`
	Content json.RawMessage `json:"content"`
}

func (s Section) MarshalJSON() ([]byte, error) {
	content := s.Content
	if content == nil || content.Type() != s.Type {
		content = DefaultContent(s.Type)
	}
	return json.Marshal(struct {
		ID      string      `json:"id"`
		Title   string      `json:"title"`
		Type    SectionType `json:"type"`
		Content Content     `json:"content"`
	}{s.ID, s.Title, content.Type(), content})
}

// UnmarshalJSON decodes content using type as the discriminant. Unknown types
// decode as TEXT. Content may arrive as an object or as a JSON-encoded string.
func (s *Section) UnmarshalJSON(data []byte) error {
	var wire sectionWire
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}

	t, ok := ParseSectionType(wire.Type)
	if !ok {
		t = SectionTypeText
	}

	content, err := DecodeContent(t, wire.Content)
	if err != nil {
		return fmt.Errorf("section %s: %w", wire.ID, err)
	}

	s.ID = string(wire.ID)
	s.Title = wire.Title
	s.Type = t
	s.Content = content
	return nil
}

// DecodeContent decodes raw over the default content for t, so fields the
// payload omits keep their defaults.
func DecodeContent(t SectionType, raw json.RawMessage) (Content, error) {
	content := DefaultContent(t)

	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return content, nil
	}

	if raw[0] == '"' {
		var encoded string
		if err := json.Unmarshal(raw, &encoded); err != nil {
			return nil, err
		}
		raw = []byte(strings.TrimSpace(encoded))
		if len(raw) == 0 {
			return content, nil
		}
	}

	// Slices decode element-wise into existing values, so the default
	// slide must not bleed into decoded slides.
	if carousel, ok := content.(*CarouselContent); ok {
		carousel.Slides = nil
	}

	if err := json.Unmarshal(raw, content); err != nil {
		return nil, fmt.Errorf("decode %s content: %w", strings.ToLower(string(t)), err)
	}

	normalize(content)
	return content, nil
}

// normalize restores structural invariants on decoded content.
func normalize(c Content) {
	switch v := c.(type) {
	case *CarouselContent:
		if len(v.Slides) == 0 {
			v.Slides = []Slide{NewSlide(1)}
		}
	case *GalleryContent:
		if v.Images == nil {
			v.Images = []GalleryImage{}
		}
	}
}

// ID is an identifier that the CMS back-end may send as a string or a number.
type ID string

func (id *ID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*id = ""
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = ID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("invalid id %s", string(data))
	}
	*id = ID(n.String())
	return nil
}

func (id ID) String() string {
	return string(id)
}
