package dto

// BookInstanceForm holds the raw book copy fields as submitted.
type BookInstanceForm struct {
	Book    string `json:"book"`
	Imprint string `json:"imprint"`
	Status  string `json:"status"`
	DueBack string `json:"due_back"`
}
