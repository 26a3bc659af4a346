package document

import (
	"fmt"
	"io"
	"strings"

	"storydl/internal/config"
	"storydl/internal/services"
)

// Serializer renders a Story into one output format.
type Serializer interface {
	// Format is the config name of the format, for example "txt".
	Format() string
	// Extension is the file extension without the leading dot.
	Extension() string
	// WantsCover reports whether the cover image should be downloaded.
	WantsCover() bool
	// PrepareBody converts raw chapter HTML into the stored body form.
	PrepareBody(html string) (string, error)
	Write(w io.Writer, story *Story) error
}

// ForFormat returns the serializer for a configured format name.
func ForFormat(format string, cfg config.EPUB) (Serializer, error) {
	switch config.NormalizeFormat(format) {
	case config.FormatText:
		return TextSerializer{}, nil
	case config.FormatEPUB:
		return NewEpubSerializer(cfg.Language), nil
	default:
		return nil, services.Wrap(
			services.ErrConfiguration,
			"document",
			"select format",
			fmt.Sprintf("unsupported format %q (want %s)", format, strings.Join([]string{config.FormatText, config.FormatEPUB}, " or ")),
			nil,
		)
	}
}
