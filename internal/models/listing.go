package models

// ListFilter narrows a submission listing. Nil and empty fields are ignored.
type ListFilter struct {
	ID            *int64
	Name          string
	GenreID       *int64
	LanguageID    *int64
	CreatedByID   string
	PublishedOnly bool
}

// Page selects a window of a listing. Page numbers start at 1.
type Page struct {
	Page  int
	Limit int
}

func (p Page) Offset() int {
	return (p.Page - 1) * p.Limit
}

type ListMetadata struct {
	Count int `json:"count"`
	Page  int `json:"page"`
	Limit int `json:"limit"`
}

// ListResult is one page of rows plus the size of the whole filtered set.
type ListResult[T any] struct {
	Data     []T          `json:"data"`
	Metadata ListMetadata `json:"metadata"`
}
