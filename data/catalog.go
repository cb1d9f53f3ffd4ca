package data

// CatalogSummary holds the record counts shown on the catalog home page.
type CatalogSummary struct {
	BookCount                  int `json:"book_count"`
	BookInstanceCount          int `json:"book_instance_count"`
	BookInstanceAvailableCount int `json:"book_instance_available_count"`
	AuthorCount                int `json:"author_count"`
	GenreCount                 int `json:"genre_count"`
}
