package sections

import (
	"fmt"
	"html/template"
	"strings"

	"kirin-dashboard/internal/models"
)

func RegisterCarousel(reg *Registry) {
	if reg == nil {
		return
	}
	reg.MustRegister(Metadata{
		Type:        models.SectionTypeCarousel,
		Name:        "Carousel",
		Description: "Rotating slides with captions, arrows and dots",
		Icon:        "images",
	}, renderCarousel)
}

// renderCarousel renders only the active slide; navigation is driven
// through the editor API.
func renderCarousel(ctx RenderContext, prefix string, section models.Section, state State) string {
	content, ok := section.Content.(*models.CarouselContent)
	if !ok || len(content.Slides) == 0 {
		return ""
	}

	active := state.ActiveSlide % len(content.Slides)
	if active < 0 {
		active += len(content.Slides)
	}
	slide := content.Slides[active]

	carouselClass := fmt.Sprintf("%s__carousel", prefix)
	classes := strings.Join([]string{
		carouselClass,
		carouselClass + "--" + string(content.Height),
		carouselClass + "--" + string(content.Animation),
		carouselClass + "--caption-" + string(content.CaptionStyle),
	}, " ")

	var sb strings.Builder
	sb.WriteString(`<section class="` + template.HTMLEscapeString(classes) + `" data-active="` + fmt.Sprint(active) + `" data-direction="` + fmt.Sprint(state.Direction) + `">`)

	sb.WriteString(`<div class="` + carouselClass + `-slide">`)
	link := content.ClickAction == models.ClickLink && strings.TrimSpace(slide.URL) != ""
	if link {
		sb.WriteString(`<a class="` + carouselClass + `-link" href="` + safeURL(slide.URL) + `">`)
	}
	if url := strings.TrimSpace(slide.ImageURL); url != "" {
		sb.WriteString(`<img class="` + carouselClass + `-img" src="` + safeURL(url) + `" alt="` + template.HTMLEscapeString(slide.Caption) + `" />`)
	} else {
		sb.WriteString(`<div class="` + carouselClass + `-placeholder"></div>`)
	}
	writeCaption(&sb, ctx, carouselClass, slide)
	if link {
		sb.WriteString(`</a>`)
	}
	sb.WriteString(`</div>`)

	if content.ShowArrows && len(content.Slides) > 1 {
		sb.WriteString(`<button class="` + carouselClass + `-arrow ` + carouselClass + `-arrow--prev" data-action="prev" aria-label="Previous slide"></button>`)
		sb.WriteString(`<button class="` + carouselClass + `-arrow ` + carouselClass + `-arrow--next" data-action="next" aria-label="Next slide"></button>`)
	}

	if content.ShowDots && len(content.Slides) > 1 {
		sb.WriteString(`<div class="` + carouselClass + `-dots">`)
		for i := range content.Slides {
			dotClass := carouselClass + "-dot"
			if i == active {
				dotClass += " " + carouselClass + "-dot--active"
			}
			sb.WriteString(fmt.Sprintf(`<button class="%s" data-index="%d" aria-label="Go to slide %d"></button>`, dotClass, i, i+1))
		}
		sb.WriteString(`</div>`)
	}

	sb.WriteString(`</section>`)
	return sb.String()
}

func writeCaption(sb *strings.Builder, ctx RenderContext, carouselClass string, slide models.Slide) {
	if strings.TrimSpace(slide.Caption) == "" && strings.TrimSpace(slide.Subtitle) == "" {
		return
	}
	sb.WriteString(`<div class="` + carouselClass + `-caption">`)
	if slide.Caption != "" {
		sb.WriteString(`<h3>` + ctx.SanitizeHTML(slide.Caption) + `</h3>`)
	}
	if slide.Subtitle != "" {
		sb.WriteString(`<p>` + ctx.SanitizeHTML(slide.Subtitle) + `</p>`)
	}
	sb.WriteString(`</div>`)
}
