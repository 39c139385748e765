package sections

import (
	"fmt"
	"html/template"
	"strings"

	"kirin-dashboard/internal/models"
)

// RegisterGallery registers the gallery renderer on the provided registry.
func RegisterGallery(reg *Registry) {
	if reg == nil {
		return
	}
	reg.MustRegister(Metadata{
		Type:        models.SectionTypeGallery,
		Name:        "Gallery",
		Description: "Grid of images with captions",
		Icon:        "image",
	}, renderGallery)
}

func renderGallery(ctx RenderContext, prefix string, section models.Section, _ State) string {
	content, ok := section.Content.(*models.GalleryContent)
	if !ok {
		return ""
	}

	groupClass := fmt.Sprintf("%s__gallery", prefix)
	columns := clamp(content.Columns, 1, 4)

	var sb strings.Builder
	sb.WriteString(`<section class="` + groupClass + `">`)
	if title := strings.TrimSpace(content.Title); title != "" {
		sb.WriteString(`<h3 class="` + groupClass + `-title">` + ctx.SanitizeHTML(title) + `</h3>`)
	}

	if len(content.Images) == 0 {
		sb.WriteString(`<p class="` + groupClass + `-empty">No images in this gallery</p>`)
		sb.WriteString(`</section>`)
		return sb.String()
	}

	sb.WriteString(fmt.Sprintf(`<div class="%s-grid" style="grid-template-columns:repeat(%d,minmax(0,1fr))">`, groupClass, columns))
	for _, image := range content.Images {
		if strings.TrimSpace(image.ImageURL) == "" {
			continue
		}
		sb.WriteString(`<figure class="` + groupClass + `-item">`)
		sb.WriteString(`<img class="` + groupClass + `-img" src="` + safeURL(image.ImageURL) + `" alt="` + template.HTMLEscapeString(image.Caption) + `" />`)
		if caption := strings.TrimSpace(image.Caption); caption != "" {
			sb.WriteString(`<figcaption class="` + groupClass + `-caption">` + ctx.SanitizeHTML(caption) + `</figcaption>`)
		}
		sb.WriteString(`</figure>`)
	}
	sb.WriteString(`</div>`)

	sb.WriteString(`</section>`)
	return sb.String()
}
