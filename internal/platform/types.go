package platform

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// ID is a platform identifier. The API emits some ids as JSON strings and
// others as numbers; both decode to the same decimal string.
type ID string

// UnmarshalJSON accepts either a JSON string or a JSON number.
func (id *ID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*id = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = ID(strings.TrimSpace(s))
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("id must be a string or number: %w", err)
	}
	*id = ID(n.String())
	return nil
}

func (id ID) String() string { return string(id) }

// User is the story author.
type User struct {
	Name string `json:"name"`
}

// Part is one chapter reference in a story's ordered parts list.
type Part struct {
	ID         ID     `json:"id"`
	Title      string `json:"title"`
	ModifyDate string `json:"modifyDate"`
	Draft      bool   `json:"draft"`
	Deleted    bool   `json:"deleted,omitempty"`
}

// Eligible reports whether the part belongs in an assembled document.
func (p Part) Eligible() bool {
	return !p.Draft && !p.Deleted
}

// Story is the metadata snapshot returned by the story endpoint.
type Story struct {
	ID          ID
	Title       string
	Description string
	CreateDate  string
	ModifyDate  string
	Author      string
	Categories  []int
	Rating      int
	Cover       string
	URL         string
	Parts       []Part
}

// storyPayload mirrors the wire format. Pointer fields mark the values whose
// absence makes the response unusable.
type storyPayload struct {
	ID          ID      `json:"id"`
	Title       *string `json:"title"`
	Description string  `json:"description"`
	CreateDate  string  `json:"createDate"`
	ModifyDate  string  `json:"modifyDate"`
	User        *User   `json:"user"`
	Categories  []int   `json:"categories"`
	Rating      int     `json:"rating"`
	Cover       string  `json:"cover"`
	URL         string  `json:"url"`
	Parts       *[]Part `json:"parts"`
}

func (p storyPayload) missingFields() []string {
	var missing []string
	if p.Title == nil {
		missing = append(missing, "title")
	}
	if p.User == nil {
		missing = append(missing, "user")
	}
	if p.Parts == nil {
		missing = append(missing, "parts")
	}
	return missing
}

func (p storyPayload) story() *Story {
	return &Story{
		ID:          p.ID,
		Title:       *p.Title,
		Description: p.Description,
		CreateDate:  p.CreateDate,
		ModifyDate:  p.ModifyDate,
		Author:      p.User.Name,
		Categories:  p.Categories,
		Rating:      p.Rating,
		Cover:       p.Cover,
		URL:         p.URL,
		Parts:       *p.Parts,
	}
}

// ChapterInfo is the subset of the chapter info response storydl reads.
type ChapterInfo struct {
	ID    ID     `json:"id"`
	Title string `json:"title"`
	// URL is the canonical URL of the parent story.
	URL string `json:"url"`
}

type storyTextPayload struct {
	Text *string `json:"text"`
}
