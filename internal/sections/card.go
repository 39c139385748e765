package sections

import (
	"fmt"
	"html/template"
	"strings"

	"kirin-dashboard/internal/models"
)

func RegisterCard(reg *Registry) {
	if reg == nil {
		return
	}
	reg.MustRegister(Metadata{
		Type:        models.SectionTypeCard,
		Name:        "Card",
		Description: "Image, heading, text and a button",
		Icon:        "credit-card",
	}, renderCard)
}

func renderCard(ctx RenderContext, prefix string, section models.Section, _ State) string {
	content, ok := section.Content.(*models.CardContent)
	if !ok {
		return ""
	}

	cardClass := fmt.Sprintf("%s__card", prefix)

	var sb strings.Builder
	sb.WriteString(`<article class="` + cardClass + `">`)
	if url := strings.TrimSpace(content.ImageURL); url != "" {
		sb.WriteString(`<img class="` + cardClass + `-img" src="` + safeURL(url) + `" alt="` + template.HTMLEscapeString(content.Heading) + `" />`)
	}
	sb.WriteString(`<div class="` + cardClass + `-body">`)
	sb.WriteString(`<h3 class="` + cardClass + `-heading">` + ctx.SanitizeHTML(content.Heading) + `</h3>`)
	sb.WriteString(`<p class="` + cardClass + `-text">` + ctx.SanitizeHTML(content.Text) + `</p>`)
	if strings.TrimSpace(content.ButtonText) != "" {
		sb.WriteString(`<a class="` + prefix + `__button" href="` + safeURL(content.ButtonURL) + `">` + template.HTMLEscapeString(content.ButtonText) + `</a>`)
	}
	sb.WriteString(`</div>`)
	sb.WriteString(`</article>`)
	return sb.String()
}
