package sections

import (
	"fmt"
	"strings"

	"kirin-dashboard/internal/models"
)

// RegisterText registers the text section renderer.
func RegisterText(reg *Registry) {
	if reg == nil {
		return
	}
	reg.MustRegister(Metadata{
		Type:        models.SectionTypeText,
		Name:        "Text",
		Description: "Heading with a Markdown body",
		Icon:        "type",
	}, renderText)
}

func renderText(ctx RenderContext, prefix string, section models.Section, _ State) string {
	content, ok := section.Content.(*models.TextContent)
	if !ok {
		return ""
	}

	textClass := fmt.Sprintf("%s__text", prefix)

	var sb strings.Builder
	sb.WriteString(`<section class="` + textClass + `">`)
	if title := strings.TrimSpace(content.Title); title != "" {
		sb.WriteString(`<h3 class="` + textClass + `-title">` + ctx.SanitizeHTML(title) + `</h3>`)
	}
	if strings.TrimSpace(content.Text) == "" {
		sb.WriteString(`<p class="` + textClass + `-empty">No content yet</p>`)
	} else {
		sb.WriteString(`<div class="` + textClass + `-body">` + ctx.RenderMarkdown(content.Text) + `</div>`)
	}
	sb.WriteString(`</section>`)
	return sb.String()
}
