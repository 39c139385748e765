package sections

import (
	"errors"
	"fmt"
	"strings"

	"kirin-dashboard/internal/models"
)

const DefaultPrefix = "preview"

var ErrNoRenderer = errors.New("no renderer registered")

// Render renders a single section with the renderer registered for its type.
// A nil section renders nothing.
func Render(reg *Registry, ctx RenderContext, section *models.Section, state State) (string, error) {
	if section == nil {
		return "", nil
	}
	renderer, ok := reg.Get(section.Type)
	if !ok {
		return "", fmt.Errorf("%w for %s", ErrNoRenderer, section.Type)
	}

	current := *section
	if current.Content == nil || current.Content.Type() != current.Type {
		current.Content = models.DefaultContent(current.Type)
	}
	return renderer(ctx, DefaultPrefix, current, state), nil
}

// RenderPage renders every section in order. Sections without a renderer are skipped.
func RenderPage(reg *Registry, ctx RenderContext, sections []models.Section) string {
	var sb strings.Builder
	for i := range sections {
		html, err := Render(reg, ctx, &sections[i], State{})
		if err != nil {
			continue
		}
		sb.WriteString(html)
	}
	return sb.String()
}
