package document

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"storydl/internal/config"
	"storydl/internal/markup"
)

// TextSerializer writes a flat UTF-8 text file.
type TextSerializer struct{}

func (TextSerializer) Format() string    { return config.FormatText }
func (TextSerializer) Extension() string { return config.FormatText }
func (TextSerializer) WantsCover() bool  { return false }

// PrepareBody strips markup down to plain text.
func (TextSerializer) PrepareBody(html string) (string, error) {
	return markup.PlainText(html)
}

// Write renders the header block followed by every chapter unit.
func (TextSerializer) Write(w io.Writer, story *Story) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "%s\n\n", story.Title)
	fmt.Fprintf(bw, "Create: %s\n", story.Created)
	fmt.Fprintf(bw, "Modified: %s\n", story.Modified)
	fmt.Fprintf(bw, "Author: %s\n", story.Author)
	fmt.Fprintf(bw, "Category: %s\n", strings.Join(story.Categories, ", "))
	fmt.Fprintf(bw, "Rating: %d\n", story.Rating)
	fmt.Fprintf(bw, "Source: %s\n\n\n", story.SourceURL)
	for _, chapter := range story.Chapters {
		fmt.Fprintf(bw, "Chapter %d %s %s\n\n%s\n\n\n\n", chapter.Index, chapter.Title, chapter.Modified, chapter.Body)
	}
	return bw.Flush()
}
