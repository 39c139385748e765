package models

// Content is the type-specific payload of a Section. The set of
// implementations is closed: TextContent, CarouselContent, GalleryContent,
// CardContent and HeroContent.
type Content interface {
	// Type reports the variant discriminant.
	Type() SectionType
	// ContentTitle returns the shared content-level title.
	ContentTitle() string
	SetContentTitle(title string)
	// Clone returns a deep copy.
	Clone() Content

	sectionContent()
}

// Base holds the fields shared by every content variant.
type Base struct {
	Title string `json:"title" validate:"max=200"`
}

func (b *Base) ContentTitle() string {
	return b.Title
}

func (b *Base) SetContentTitle(title string) {
	b.Title = title
}

type CarouselAnimation string

const (
	AnimationSlide CarouselAnimation = "slide"
	AnimationFade  CarouselAnimation = "fade"
)

type ClickAction string

const (
	ClickNone  ClickAction = "none"
	ClickLink  ClickAction = "link"
	ClickModal ClickAction = "modal"
)

type CarouselHeight string

const (
	HeightSmall  CarouselHeight = "small"
	HeightMedium CarouselHeight = "medium"
	HeightLarge  CarouselHeight = "large"
)

type CaptionStyle string

const (
	CaptionOverlay  CaptionStyle = "overlay"
	CaptionBelow    CaptionStyle = "below"
	CaptionWhiteBox CaptionStyle = "white-box"
)

type BackgroundType string

const (
	BackgroundImage BackgroundType = "image"
	BackgroundVideo BackgroundType = "video"
)

type ButtonStyle string

const (
	ButtonPrimary   ButtonStyle = "primary"
	ButtonSecondary ButtonStyle = "secondary"
	ButtonOutline   ButtonStyle = "outline"
	ButtonGradient  ButtonStyle = "gradient"
)

type TextAlignment string

const (
	AlignLeft   TextAlignment = "left"
	AlignCenter TextAlignment = "center"
	AlignRight  TextAlignment = "right"
)

type TextContent struct {
	Base
	Text string `json:"text"`
}

type Slide struct {
	ID       string `json:"id"`
	ImageURL string `json:"imageUrl" validate:"media_url"`
	Caption  string `json:"caption" validate:"max=200"`
	Subtitle string `json:"subtitle,omitempty" validate:"max=300"`
	URL      string `json:"url,omitempty" validate:"media_url"`
}

type CarouselContent struct {
	Base
	Slides       []Slide           `json:"slides" validate:"min=1,dive"`
	Autoplay     bool              `json:"autoplay"`
	Interval     int               `json:"interval" validate:"min=1000,max=120000"`
	ShowArrows   bool              `json:"showArrows"`
	ShowDots     bool              `json:"showDots"`
	Animation    CarouselAnimation `json:"animation" validate:"oneof=slide fade"`
	ClickAction  ClickAction       `json:"clickAction" validate:"oneof=none link modal"`
	Height       CarouselHeight    `json:"height" validate:"oneof=small medium large"`
	CaptionStyle CaptionStyle      `json:"captionStyle" validate:"oneof=overlay below white-box"`
}

type GalleryImage struct {
	ID       string `json:"id"`
	ImageURL string `json:"imageUrl" validate:"media_url"`
	Caption  string `json:"caption" validate:"max=200"`
}

type GalleryContent struct {
	Base
	Images  []GalleryImage `json:"images" validate:"dive"`
	Columns int            `json:"columns" validate:"min=1,max=4"`
}

type CardContent struct {
	Base
	ImageURL   string `json:"imageUrl" validate:"media_url"`
	Heading    string `json:"heading" validate:"max=200"`
	Text       string `json:"text"`
	ButtonText string `json:"buttonText" validate:"max=60"`
	ButtonURL  string `json:"buttonUrl" validate:"media_url"`
}

type HeroContent struct {
	Base
	BackgroundType BackgroundType `json:"backgroundType" validate:"oneof=image video"`
	BackgroundURL  string         `json:"backgroundUrl" validate:"media_url"`
	OverlayOpacity int            `json:"overlayOpacity" validate:"min=0,max=100"`
	Headline       string         `json:"headline" validate:"max=200"`
	Subtext        string         `json:"subtext" validate:"max=500"`
	ButtonText     string         `json:"buttonText" validate:"max=60"`
	ButtonURL      string         `json:"buttonUrl" validate:"media_url"`
	ButtonStyle    ButtonStyle    `json:"buttonStyle" validate:"oneof=primary secondary outline gradient"`
	TextAlignment  TextAlignment  `json:"textAlignment" validate:"oneof=left center right"`
	FullHeight     bool           `json:"fullHeight"`
}

func (*TextContent) Type() SectionType     { return SectionTypeText }
func (*CarouselContent) Type() SectionType { return SectionTypeCarousel }
func (*GalleryContent) Type() SectionType  { return SectionTypeGallery }
func (*CardContent) Type() SectionType     { return SectionTypeCard }
func (*HeroContent) Type() SectionType     { return SectionTypeHero }

func (*TextContent) sectionContent()     {}
func (*CarouselContent) sectionContent() {}
func (*GalleryContent) sectionContent()  {}
func (*CardContent) sectionContent()     {}
func (*HeroContent) sectionContent()     {}

func (c *TextContent) Clone() Content {
	cp := *c
	return &cp
}

func (c *CarouselContent) Clone() Content {
	cp := *c
	cp.Slides = make([]Slide, len(c.Slides))
	copy(cp.Slides, c.Slides)
	return &cp
}

func (c *GalleryContent) Clone() Content {
	cp := *c
	cp.Images = make([]GalleryImage, len(c.Images))
	copy(cp.Images, c.Images)
	return &cp
}

func (c *CardContent) Clone() Content {
	cp := *c
	return &cp
}

func (c *HeroContent) Clone() Content {
	cp := *c
	return &cp
}

// newContent returns an empty value of the variant for t, or nil.
func newContent(t SectionType) Content {
	switch t {
	case SectionTypeText:
		return &TextContent{}
	case SectionTypeCarousel:
		return &CarouselContent{}
	case SectionTypeGallery:
		return &GalleryContent{}
	case SectionTypeCard:
		return &CardContent{}
	case SectionTypeHero:
		return &HeroContent{}
	default:
		return nil
	}
}
