package models

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

var (
	ErrNilContent      = errors.New("content is nil")
	ErrUnknownField    = errors.New("unknown content field")
	ErrInvalidValue    = errors.New("invalid value for content field")
	ErrLastSlide       = errors.New("carousel must keep at least one slide")
	ErrIndexOutOfRange = errors.New("index out of range")
)

// WithField returns a copy of c with a single top-level field replaced. The
// variant is kept; field names use the JSON spelling ("showArrows").
func WithField(c Content, field string, value any) (Content, error) {
	if c == nil {
		return nil, ErrNilContent
	}

	names, err := fieldNames(c)
	if err != nil {
		return nil, err
	}
	if _, ok := names[field]; !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownField, field)
	}

	encoded, err := json.Marshal(value)
	if err != nil || bytes.Equal(encoded, []byte("null")) {
		return nil, fmt.Errorf("%w: %s", ErrInvalidValue, field)
	}

	patch, err := json.Marshal(map[string]json.RawMessage{field: encoded})
	if err != nil {
		return nil, err
	}

	next := c.Clone()
	switch v := next.(type) {
	case *CarouselContent:
		if field == "slides" {
			v.Slides = nil
		}
	case *GalleryContent:
		if field == "images" {
			v.Images = nil
		}
	}

	decoder := json.NewDecoder(bytes.NewReader(patch))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(next); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrInvalidValue, field, err)
	}

	if v, ok := next.(*CarouselContent); ok && len(v.Slides) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrLastSlide, field)
	}
	normalize(next)

	return next, nil
}

// Fields lists the JSON field names accepted by WithField for c.
func Fields(c Content) []string {
	names, err := fieldNames(c)
	if err != nil {
		return nil
	}
	out := make([]string, 0, len(names))
	for name := range names {
		out = append(out, name)
	}
	return out
}

func fieldNames(c Content) (map[string]struct{}, error) {
	if c == nil {
		return nil, ErrNilContent
	}
	encoded, err := json.Marshal(c)
	if err != nil {
		return nil, err
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(encoded, &fields); err != nil {
		return nil, err
	}
	names := make(map[string]struct{}, len(fields))
	for name := range fields {
		names[name] = struct{}{}
	}
	return names, nil
}

// AddSlide appends a placeholder slide and returns its index.
func (c *CarouselContent) AddSlide() int {
	c.Slides = append(c.Slides, NewSlide(len(c.Slides)+1))
	return len(c.Slides) - 1
}

// UpdateSlide sets one string field of the slide at index.
func (c *CarouselContent) UpdateSlide(index int, field, value string) error {
	if index < 0 || index >= len(c.Slides) {
		return ErrIndexOutOfRange
	}
	slide := &c.Slides[index]
	switch field {
	case "imageUrl":
		slide.ImageURL = value
	case "caption":
		slide.Caption = value
	case "subtitle":
		slide.Subtitle = value
	case "url":
		slide.URL = value
	default:
		return fmt.Errorf("%w: slide.%s", ErrUnknownField, field)
	}
	return nil
}

// RemoveSlide deletes the slide at index. The last remaining slide is kept.
func (c *CarouselContent) RemoveSlide(index int) error {
	if len(c.Slides) <= 1 {
		return ErrLastSlide
	}
	if index < 0 || index >= len(c.Slides) {
		return ErrIndexOutOfRange
	}
	c.Slides = append(c.Slides[:index:index], c.Slides[index+1:]...)
	return nil
}

func (c *GalleryContent) AddImage(imageURL, caption string) GalleryImage {
	image := NewGalleryImage(imageURL, caption)
	c.Images = append(c.Images, image)
	return image
}

// RemoveImage deletes the image with the given id and reports whether it existed.
func (c *GalleryContent) RemoveImage(id string) bool {
	for i, image := range c.Images {
		if image.ID == id {
			c.Images = append(c.Images[:i:i], c.Images[i+1:]...)
			return true
		}
	}
	return false
}
