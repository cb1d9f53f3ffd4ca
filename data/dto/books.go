package dto

// BookForm holds the raw book fields as submitted. Genre may repeat.
type BookForm struct {
	Title   string   `json:"title"`
	Author  string   `json:"author"`
	Summary string   `json:"summary"`
	ISBN    string   `json:"isbn"`
	Genre   []string `json:"genre"`
}

// The OpenLibISBNResponse struct contains the expected JSON data returned by
// the Open Library ISBN endpoint.
type OpenLibISBNResponse struct {
	Title       string   `json:"title"`
	Subtitle    string   `json:"subtitle"`
	Publishers  []string `json:"publishers"`
	Isbn10      []string `json:"isbn_10"`
	Isbn13      []string `json:"isbn_13"`
	PublishDate string   `json:"publish_date"`
}
