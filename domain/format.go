package domain

import (
	"fmt"
	"net/url"
	"path"
	"path/filepath"
	"sort"
	"strings"

	apperrors "thumbcache/utils/errors"
)

var mimeTypes = map[string]string{
	"jpeg": "image/jpeg",
	"jpg":  "image/jpeg",
	"gif":  "image/gif",
	"png":  "image/png",
	"wbmp": "image/vnd.wap.wbmp",
	"xbm":  "image/xbm",
	"webp": "image/webp",
	"bmp":  "image/bmp",
}

// SupportedFormats lists the known format names in sorted order.
func SupportedFormats() []string {
	formats := make([]string, 0, len(mimeTypes))
	for f := range mimeTypes {
		formats = append(formats, f)
	}
	sort.Strings(formats)
	return formats
}

// MimeType maps a format name to its mime type.
func MimeType(format string) (string, error) {
	mime, ok := mimeTypes[strings.ToLower(format)]
	if !ok {
		return "", fmt.Errorf("%w: unsupported format %q, only %s are supported",
			apperrors.ErrInvalidOption, format, strings.Join(SupportedFormats(), ", "))
	}
	return mime, nil
}

// ResolveExtension picks the cache file extension (with the leading dot):
// the explicit format when set, otherwise the suffix of the source name.
func ResolveExtension(format, source string) (string, error) {
	if format != "" {
		f := strings.ToLower(strings.TrimPrefix(format, "."))
		if _, err := MimeType(f); err != nil {
			return "", err
		}
		return "." + f, nil
	}

	ext := sourceSuffix(source)
	if ext == "" {
		return "", fmt.Errorf("%w: cannot determine output format for %q, set a format", apperrors.ErrInvalidOption, source)
	}
	if _, err := MimeType(strings.TrimPrefix(ext, ".")); err != nil {
		return "", err
	}
	return ext, nil
}

// FormatOf turns ".JPG" into "jpg".
func FormatOf(ext string) string {
	return strings.ToLower(strings.TrimPrefix(ext, "."))
}

func sourceSuffix(source string) string {
	if IsRemoteSource(source) {
		if u, err := url.Parse(source); err == nil {
			return strings.ToLower(path.Ext(u.Path))
		}
	}
	return strings.ToLower(filepath.Ext(source))
}
