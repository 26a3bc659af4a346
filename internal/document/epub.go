package document

import (
	"encoding/base64"
	"fmt"
	"html"
	"io"
	"net/http"
	"strings"

	epub "github.com/go-shiori/go-epub"

	"storydl/internal/config"
	"storydl/internal/markup"
)

const (
	epubTitlePage = "title.xhtml"
	epubCoverName = "cover"
)

// EpubSerializer packages the story as an EPUB book.
type EpubSerializer struct {
	language string
}

// NewEpubSerializer returns an EPUB serializer tagging books with language.
func NewEpubSerializer(language string) EpubSerializer {
	language = strings.TrimSpace(language)
	if language == "" {
		language = "en"
	}
	return EpubSerializer{language: language}
}

func (EpubSerializer) Format() string    { return config.FormatEPUB }
func (EpubSerializer) Extension() string { return config.FormatEPUB }
func (EpubSerializer) WantsCover() bool  { return true }

// Language reports the language tag written into the package metadata.
func (s EpubSerializer) Language() string { return s.language }

// PrepareBody sanitizes chapter HTML into an XHTML fragment.
func (EpubSerializer) PrepareBody(body string) (string, error) {
	return markup.SanitizeHTML(body)
}

// Write builds the book in memory and streams the archive to w.
func (s EpubSerializer) Write(w io.Writer, story *Story) error {
	book, err := epub.NewEpub(story.Title)
	if err != nil {
		return fmt.Errorf("create epub: %w", err)
	}
	book.SetAuthor(story.Author)
	book.SetLang(s.language)
	if story.SourceURL != "" {
		book.SetIdentifier(story.SourceURL)
	}
	description, err := markup.PlainText(story.Description)
	if err != nil {
		return fmt.Errorf("description: %w", err)
	}
	book.SetDescription(description)

	if story.Cover != nil && len(story.Cover.Data) > 0 {
		if err := addCover(book, story.Cover); err != nil {
			return err
		}
	}

	titlePage, err := titlePageBody(story)
	if err != nil {
		return err
	}
	if _, err := book.AddSection(titlePage, story.Title, epubTitlePage, ""); err != nil {
		return fmt.Errorf("add title page: %w", err)
	}

	for _, chapter := range story.Chapters {
		body := "<h1>" + html.EscapeString(chapter.Title) + "</h1>\n" + chapter.Body
		filename := fmt.Sprintf("chapter-%04d.xhtml", chapter.Position+1)
		if _, err := book.AddSection(body, chapter.Title, filename, ""); err != nil {
			return fmt.Errorf("add chapter %d: %w", chapter.Index, err)
		}
	}

	if _, err := book.WriteTo(w); err != nil {
		return fmt.Errorf("write epub: %w", err)
	}
	return nil
}

func addCover(book *epub.Epub, cover *Image) error {
	contentType := cover.ContentType
	if contentType == "" || contentType == "application/octet-stream" {
		contentType = http.DetectContentType(cover.Data)
	}
	if i := strings.Index(contentType, ";"); i >= 0 {
		contentType = strings.TrimSpace(contentType[:i])
	}
	source := "data:" + contentType + ";base64," + base64.StdEncoding.EncodeToString(cover.Data)
	imagePath, err := book.AddImage(source, epubCoverName+imageExtension(contentType))
	if err != nil {
		return fmt.Errorf("add cover image: %w", err)
	}
	if err := book.SetCover(imagePath, ""); err != nil {
		return fmt.Errorf("set cover: %w", err)
	}
	return nil
}

func imageExtension(contentType string) string {
	switch contentType {
	case "image/png":
		return ".png"
	case "image/gif":
		return ".gif"
	case "image/webp":
		return ".webp"
	default:
		return ".jpg"
	}
}

func titlePageBody(story *Story) (string, error) {
	var b strings.Builder
	b.WriteString("<h1>" + html.EscapeString(story.Title) + "</h1>\n")
	if story.Author != "" {
		b.WriteString("<p>" + html.EscapeString(story.Author) + "</p>\n")
	}
	if len(story.Categories) > 0 {
		b.WriteString("<p>" + html.EscapeString(strings.Join(story.Categories, ", ")) + "</p>\n")
	}
	description, err := markup.DescriptionHTML(story.Description)
	if err != nil {
		return "", fmt.Errorf("render description: %w", err)
	}
	if description != "" {
		b.WriteString("<div>" + description + "</div>\n")
	}
	return b.String(), nil
}
