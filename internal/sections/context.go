package sections

import (
	"bytes"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"

	"kirin-dashboard/pkg/validator"
)

// HTMLContext renders Markdown with goldmark and sanitises through the
// shared bluemonday policy.
type HTMLContext struct {
	md goldmark.Markdown
}

func NewHTMLContext() *HTMLContext {
	return &HTMLContext{
		md: goldmark.New(
			goldmark.WithExtensions(extension.GFM),
			goldmark.WithRendererOptions(html.WithHardWraps()),
		),
	}
}

func (c *HTMLContext) SanitizeHTML(input string) string {
	return validator.SanitizeHTML(input)
}

func (c *HTMLContext) RenderMarkdown(input string) string {
	var buf bytes.Buffer
	if err := c.md.Convert([]byte(input), &buf); err != nil {
		return validator.SanitizeHTML(input)
	}
	return validator.SanitizeHTML(buf.String())
}
