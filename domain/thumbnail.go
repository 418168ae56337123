package domain

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	apperrors "thumbcache/utils/errors"
)

const (
	// DefaultQuality is the encoder quality used when a request does not set one.
	DefaultQuality = 60

	// CacheDirMode is the permission used for the cache root and shard directories.
	CacheDirMode = 0o755
)

// ResizeMode selects how a source is fitted into the target box.
type ResizeMode string

const (
	// ModeOutbound scales to cover the box and crops the overflow symmetrically.
	ModeOutbound ResizeMode = "outbound"
	// ModeInset fits inside the box keeping the aspect ratio, without padding.
	ModeInset ResizeMode = "inset"
	// ModeInsetBox fits inside the box, then pads to exactly the box size.
	ModeInsetBox ResizeMode = "inset_box"
)

// ParseResizeMode accepts the canonical names and a few spellings used in configs.
func ParseResizeMode(s string) (ResizeMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "outbound":
		return ModeOutbound, nil
	case "inset":
		return ModeInset, nil
	case "inset_box", "inset-box", "inset-with-padding", "inset_with_padding":
		return ModeInsetBox, nil
	default:
		return "", fmt.Errorf("%w: unknown resize mode %q", apperrors.ErrInvalidOption, s)
	}
}

// Valid reports whether m is one of the known modes.
func (m ResizeMode) Valid() bool {
	switch m {
	case ModeOutbound, ModeInset, ModeInsetBox:
		return true
	}
	return false
}

// StalenessPolicy decides how a remote source is checked for changes.
// Values match the numeric cache modes accepted on the wire.
type StalenessPolicy int

const (
	StalenessNone     StalenessPolicy = 1
	StalenessChecksum StalenessPolicy = 2
	StalenessHeader   StalenessPolicy = 3
)

func (p StalenessPolicy) String() string {
	switch p {
	case StalenessNone:
		return "none"
	case StalenessChecksum:
		return "checksum"
	case StalenessHeader:
		return "header"
	default:
		return "unknown(" + strconv.Itoa(int(p)) + ")"
	}
}

// Valid reports whether p is one of the known policies.
func (p StalenessPolicy) Valid() bool {
	return p == StalenessNone || p == StalenessChecksum || p == StalenessHeader
}

// ParseStalenessPolicy accepts names and the numeric forms 1-3.
func ParseStalenessPolicy(s string) (StalenessPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "none", "1":
		return StalenessNone, nil
	case "checksum", "crc", "crc32", "2":
		return StalenessChecksum, nil
	case "header", "last-modified", "last_modified", "3":
		return StalenessHeader, nil
	default:
		return 0, fmt.Errorf("%w: unknown cache mode %q", apperrors.ErrInvalidOption, s)
	}
}

// ThumbnailOptions are the per-request knobs. Zero values mean "use the default".
type ThumbnailOptions struct {
	Format    string
	Mode      ResizeMode
	Quality   *int
	CacheMode StalenessPolicy
}

// NewThumbnailOptions returns options with every default applied.
func NewThumbnailOptions() ThumbnailOptions {
	return ThumbnailOptions{
		Mode:      ModeOutbound,
		CacheMode: StalenessNone,
	}
}

// WithDefaults fills unset fields.
func (o ThumbnailOptions) WithDefaults() ThumbnailOptions {
	if o.Mode == "" {
		o.Mode = ModeOutbound
	}
	if o.CacheMode == 0 {
		o.CacheMode = StalenessNone
	}
	o.Format = strings.ToLower(strings.TrimPrefix(strings.TrimSpace(o.Format), "."))
	return o
}

// ResolvedQuality returns the explicit quality or DefaultQuality.
func (o ThumbnailOptions) ResolvedQuality() int {
	if o.Quality == nil {
		return DefaultQuality
	}
	return *o.Quality
}

// Quality is a helper for building ThumbnailOptions literals.
func Quality(q int) *int {
	return &q
}

// ThumbnailRequest is one resolve call.
type ThumbnailRequest struct {
	Source  string
	Width   int
	Height  int
	Options ThumbnailOptions
}

// Validate checks dimensions and options. All failures wrap ErrInvalidOption.
func (r ThumbnailRequest) Validate() error {
	if strings.TrimSpace(r.Source) == "" {
		return fmt.Errorf("%w: source must not be empty", apperrors.ErrInvalidOption)
	}
	if r.Width <= 0 || r.Height <= 0 {
		return fmt.Errorf("%w: width and height must be positive, got %dx%d", apperrors.ErrInvalidOption, r.Width, r.Height)
	}
	if !r.Options.Mode.Valid() {
		return fmt.Errorf("%w: unknown resize mode %q", apperrors.ErrInvalidOption, r.Options.Mode)
	}
	if !r.Options.CacheMode.Valid() {
		return fmt.Errorf("%w: unknown cache mode %s", apperrors.ErrInvalidOption, r.Options.CacheMode)
	}
	if q := r.Options.ResolvedQuality(); q < 0 || q > 100 {
		return fmt.Errorf("%w: quality must be within 0-100, got %d", apperrors.ErrInvalidOption, q)
	}
	return nil
}

var remotePattern = regexp.MustCompile(`^https?://`)

// IsRemoteSource reports whether the identifier is an http(s) URL.
func IsRemoteSource(source string) bool {
	return remotePattern.MatchString(source)
}

// SourceReference is a resolved source: an absolute local path or a URL.
type SourceReference struct {
	Raw      string
	Path     string // absolute path, local sources only
	IsRemote bool
	ModTime  time.Time // local sources only
}

// Identity is the string that feeds the cache key.
func (s SourceReference) Identity() string {
	if s.IsRemote {
		return s.Raw
	}
	return s.Path
}

// ParseThumbnailOptions builds options from their string forms as they arrive
// on a query string or the command line. Empty strings stay unset so
// configured defaults can apply later.
func ParseThumbnailOptions(format, mode, cacheMode, quality string) (ThumbnailOptions, error) {
	var opts ThumbnailOptions
	opts.Format = format

	if strings.TrimSpace(mode) != "" {
		m, err := ParseResizeMode(mode)
		if err != nil {
			return opts, err
		}
		opts.Mode = m
	}

	if strings.TrimSpace(cacheMode) != "" {
		p, err := ParseStalenessPolicy(cacheMode)
		if err != nil {
			return opts, err
		}
		opts.CacheMode = p
	}

	if strings.TrimSpace(quality) != "" {
		q, err := strconv.Atoi(strings.TrimSpace(quality))
		if err != nil {
			return opts, fmt.Errorf("%w: quality must be an integer, got %q", apperrors.ErrInvalidOption, quality)
		}
		opts.Quality = &q
	}
	return opts, nil
}
