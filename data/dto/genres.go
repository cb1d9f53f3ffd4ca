package dto

// GenreForm holds the raw genre fields as submitted.
type GenreForm struct {
	Name string `json:"name"`
}
