package document

// Story is a fully assembled document ready for serialization. Parts is the
// length of the full part list, ineligible parts included.
type Story struct {
	ID          string
	Title       string
	Description string
	Created     string
	Modified    string
	Author      string
	Categories  []string
	Rating      int
	SourceURL   string
	Cover       *Image
	Parts       int
	Chapters    []Chapter
}

// Chapter is one eligible chapter with its prepared body.
type Chapter struct {
	ID       string
	Title    string
	Modified string
	Index    int
	Position int
	Body     string
}

// Image is a downloaded binary asset.
type Image struct {
	Data        []byte
	ContentType string
}
