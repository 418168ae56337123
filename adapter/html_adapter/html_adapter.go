package html_adapter

import (
	"context"
	"errors"
	"html"
	"log/slog"
	"sort"
	"strings"

	"thumbcache/domain"
	apperrors "thumbcache/utils/errors"
	"thumbcache/utils/logger"
)

// URLResolver is the part of the thumbnail usecase the emitters need.
type URLResolver interface {
	ResolveURL(ctx context.Context, source string, width, height int, opts domain.ThumbnailOptions) (string, error)
}

// Attributes are extra HTML attributes. They are emitted in sorted order.
type Attributes map[string]string

// PictureOptions configures the two halves of a <picture> element.
type PictureOptions struct {
	Source   domain.ThumbnailOptions
	Img      domain.ThumbnailOptions
	ImgAttrs Attributes
}

// HTMLAdapter renders thumbnails as HTML fragments. Resolution failures are
// rendered inline instead of being returned.
type HTMLAdapter struct {
	resolver      URLResolver
	pictureFormat string
	log           *slog.Logger
}

// NewHTMLAdapter creates an adapter. pictureFormat is the <source> format
// used when the request does not set one.
func NewHTMLAdapter(resolver URLResolver, pictureFormat string) *HTMLAdapter {
	if pictureFormat == "" {
		pictureFormat = "png"
	}
	return &HTMLAdapter{
		resolver:      resolver,
		pictureFormat: strings.ToLower(strings.TrimPrefix(pictureFormat, ".")),
		log:           logger.Logger,
	}
}

// Img renders <img src="..."> for the thumbnail.
func (a *HTMLAdapter) Img(ctx context.Context, source string, width, height int, opts domain.ThumbnailOptions, attrs Attributes) string {
	url, err := a.resolver.ResolveURL(ctx, source, width, height, opts)
	if err != nil {
		return a.renderError(ctx, source, err)
	}

	all := Attributes{"alt": ""}
	for k, v := range attrs {
		all[k] = v
	}
	all["src"] = url
	return tag("img", all)
}

// Source renders <source srcset="..." type="..."> for use inside <picture>.
func (a *HTMLAdapter) Source(ctx context.Context, source string, width, height int, opts domain.ThumbnailOptions) string {
	if opts.Format == "" {
		opts.Format = a.pictureFormat
	}
	mime, err := domain.MimeType(domain.FormatOf(opts.Format))
	if err != nil {
		return a.renderError(ctx, source, apperrors.NewAppContextError(apperrors.CodeInvalidOption, err.Error(),
			"adapter", "HTMLAdapter", "source", err, map[string]interface{}{"format": opts.Format}))
	}

	url, err := a.resolver.ResolveURL(ctx, source, width, height, opts)
	if err != nil {
		return a.renderError(ctx, source, err)
	}
	return tag("source", Attributes{"srcset": url, "type": mime})
}

// Picture renders a <picture> with one <source> and a fallback <img>.
func (a *HTMLAdapter) Picture(ctx context.Context, source string, width, height int, opts PictureOptions) string {
	var b strings.Builder
	b.WriteString(`<picture data-cache="hit">`)
	b.WriteString("\n\t")
	b.WriteString(a.Source(ctx, source, width, height, opts.Source))
	b.WriteString("\n\t")
	b.WriteString(a.Img(ctx, source, width, height, opts.Img, opts.ImgAttrs))
	b.WriteString("\n</picture>")
	return b.String()
}

// renderError shows not-found messages to the reader and hides everything
// else behind its error code.
func (a *HTMLAdapter) renderError(ctx context.Context, source string, err error) string {
	if apperrors.IsSourceNotFound(err) {
		var appErr *apperrors.AppContextError
		if errors.As(err, &appErr) {
			return html.EscapeString(appErr.Message)
		}
		return html.EscapeString(err.Error())
	}

	code := apperrors.CodeOf(err)
	a.log.WarnContext(ctx, "thumbnail rendering failed",
		"source", source,
		"code", code,
		"error", err,
	)
	return "Error " + code
}

func tag(name string, attrs Attributes) string {
	keys := make([]string, 0, len(attrs))
	for k := range attrs {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	b.WriteString("<" + name)
	for _, k := range keys {
		b.WriteString(" " + html.EscapeString(k) + `="` + html.EscapeString(attrs[k]) + `"`)
	}
	b.WriteString(">")
	return b.String()
}
