package sections

import (
	"fmt"
	"html/template"
	"strings"

	"kirin-dashboard/internal/models"
)

// RegisterHero registers the hero section renderer.
func RegisterHero(reg *Registry) {
	if reg == nil {
		return
	}
	reg.MustRegister(Metadata{
		Type:        models.SectionTypeHero,
		Name:        "Hero",
		Description: "Full-width banner with background media, headline and call-to-action button",
		Icon:        "sparkles",
	}, renderHero)
}

func renderHero(ctx RenderContext, prefix string, section models.Section, _ State) string {
	content, ok := section.Content.(*models.HeroContent)
	if !ok {
		return ""
	}

	heroClass := fmt.Sprintf("%s__hero", prefix)
	classes := []string{heroClass, heroClass + "--" + string(content.TextAlignment)}
	if content.FullHeight {
		classes = append(classes, heroClass+"--full")
	}
	opacity := fmt.Sprintf("%.2f", float64(clamp(content.OverlayOpacity, 0, 100))/100)

	var sb strings.Builder
	sb.WriteString(`<section class="` + template.HTMLEscapeString(strings.Join(classes, " ")) + `">`)

	if url := strings.TrimSpace(content.BackgroundURL); url != "" {
		mediaClass := fmt.Sprintf("%s__hero-media", prefix)
		if content.BackgroundType == models.BackgroundVideo {
			sb.WriteString(`<video class="` + mediaClass + `" src="` + safeURL(url) + `" autoplay muted loop playsinline style="opacity:` + opacity + `"></video>`)
		} else {
			sb.WriteString(`<img class="` + mediaClass + `" src="` + safeURL(url) + `" alt="" style="opacity:` + opacity + `" />`)
		}
	} else {
		sb.WriteString(`<div class="` + prefix + `__hero-overlay" style="opacity:` + opacity + `"></div>`)
	}

	sb.WriteString(`<div class="` + prefix + `__hero-content">`)
	sb.WriteString(`<h1 class="` + prefix + `__hero-headline">` + ctx.SanitizeHTML(content.Headline) + `</h1>`)
	if strings.TrimSpace(content.Subtext) != "" {
		sb.WriteString(`<p class="` + prefix + `__hero-subtext">` + ctx.SanitizeHTML(content.Subtext) + `</p>`)
	}
	if strings.TrimSpace(content.ButtonText) != "" {
		buttonClass := fmt.Sprintf("%s__button %s__button--%s", prefix, prefix, content.ButtonStyle)
		sb.WriteString(`<a class="` + template.HTMLEscapeString(buttonClass) + `" href="` + safeURL(content.ButtonURL) + `">`)
		sb.WriteString(template.HTMLEscapeString(content.ButtonText))
		sb.WriteString(`</a>`)
	}
	sb.WriteString(`</div>`)

	sb.WriteString(`</section>`)
	return sb.String()
}
