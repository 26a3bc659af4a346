package document

import (
	"bytes"
	"testing"
)

func sampleStory() *Story {
	return &Story{
		ID:          "20738183",
		Title:       "Expiration Date Duology",
		Description: "Two books.\nOne story.",
		Created:     "2014-08-01T00:00:00Z",
		Modified:    "2015-01-02T00:00:00Z",
		Author:      "writer",
		Categories:  []string{"Romance", "Humor"},
		Rating:      3,
		SourceURL:   "https://www.wattpad.com/story/20738183-expiration-date-duology",
		Chapters: []Chapter{
			{ID: "1", Title: "One", Modified: "2014-08-02", Index: 0, Position: 0, Body: "first"},
			{ID: "3", Title: "Three", Modified: "2014-08-04", Index: 2, Position: 1, Body: "third"},
		},
	}
}

func TestTextSerializerLayout(t *testing.T) {
	var buf bytes.Buffer
	if err := (TextSerializer{}).Write(&buf, sampleStory()); err != nil {
		t.Fatalf("write: %v", err)
	}
	want := "Expiration Date Duology\n\n" +
		"Create: 2014-08-01T00:00:00Z\n" +
		"Modified: 2015-01-02T00:00:00Z\n" +
		"Author: writer\n" +
		"Category: Romance, Humor\n" +
		"Rating: 3\n" +
		"Source: https://www.wattpad.com/story/20738183-expiration-date-duology\n\n\n" +
		"Chapter 0 One 2014-08-02\n\nfirst\n\n\n\n" +
		"Chapter 2 Three 2014-08-04\n\nthird\n\n\n\n"
	if got := buf.String(); got != want {
		t.Fatalf("unexpected layout\n got: %q\nwant: %q", got, want)
	}
}

func TestTextSerializerWithoutChapters(t *testing.T) {
	story := sampleStory()
	story.Chapters = nil
	story.Categories = nil

	var buf bytes.Buffer
	if err := (TextSerializer{}).Write(&buf, story); err != nil {
		t.Fatalf("write: %v", err)
	}
	want := "Expiration Date Duology\n\n" +
		"Create: 2014-08-01T00:00:00Z\n" +
		"Modified: 2015-01-02T00:00:00Z\n" +
		"Author: writer\n" +
		"Category: \n" +
		"Rating: 3\n" +
		"Source: https://www.wattpad.com/story/20738183-expiration-date-duology\n\n\n"
	if got := buf.String(); got != want {
		t.Fatalf("unexpected layout\n got: %q\nwant: %q", got, want)
	}
}

func TestTextSerializerPrepareBody(t *testing.T) {
	body, err := (TextSerializer{}).PrepareBody("<p>Hello<br/>there</p>")
	if err != nil {
		t.Fatalf("prepare: %v", err)
	}
	if body != "Hello\nthere" {
		t.Fatalf("unexpected body %q", body)
	}
}
