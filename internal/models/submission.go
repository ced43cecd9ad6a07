package models

import "time"

// Submission is a lyrics entry with its translation and review state.
// Approved is nil while the entry is pending review.
type Submission struct {
	ID                    int64      `json:"id" db:"id"`
	CreatedAt             time.Time  `json:"created_at" db:"created_at"`
	PublishedAt           *time.Time `json:"published_at" db:"published_at"`
	Name                  string     `json:"name" db:"name"`
	NameTranslation       *string    `json:"name_translation" db:"name_translation"`
	GenreID               int64      `json:"genre_id" db:"genre_id"`
	LanguageID            int64      `json:"language_id" db:"language_id"`
	LanguageTranslationID int64      `json:"language_translation_id" db:"language_translation_id"`
	ArtistName            string     `json:"artist_name" db:"artist_name"`
	Lyrics                string     `json:"lyrics" db:"lyrics"`
	LyricsTranslation     string     `json:"lyrics_translation" db:"lyrics_translation"`
	Approved              *bool      `json:"approved" db:"approved"`
	Note                  *string    `json:"note" db:"note"`
	CreatedByID           string     `json:"created_by_id" db:"created_by_id"`
}

// IsPublished reports whether the submission is publicly visible.
func (s *Submission) IsPublished() bool {
	return s.PublishedAt != nil
}

// SubmissionDetail is a submission with its reference rows resolved.
type SubmissionDetail struct {
	Submission
	Genre               *Reference `json:"genre"`
	Language            *Reference `json:"language"`
	TranslationLanguage *Reference `json:"translation_language"`
	UploaderEmail       *string    `json:"uploader_email,omitempty"`
}

// Reference is a row of a lookup table such as genres or languages.
type Reference struct {
	ID   int64  `json:"id" db:"id"`
	Name string `json:"name" db:"name"`
}

// CreateSubmissionRequest is the payload of the submission form.
type CreateSubmissionRequest struct {
	Name                string  `json:"name"`
	NameTranslation     *string `json:"nameTranslation,omitempty"`
	Genre               int64   `json:"genre"`
	Language            int64   `json:"language"`
	LanguageTranslation int64   `json:"languageTranslation"`
	ArtistName          string  `json:"artistName"`
	Lyrics              string  `json:"lyrics"`
	LyricsTranslation   string  `json:"lyricsTranslation"`
}

// Validate returns every missing required field.
func (r *CreateSubmissionRequest) Validate() []ValidationError {
	var errs []ValidationError
	required := []struct {
		field string
		empty bool
	}{
		{"name", r.Name == ""},
		{"genre", r.Genre <= 0},
		{"language", r.Language <= 0},
		{"languageTranslation", r.LanguageTranslation <= 0},
		{"artistName", r.ArtistName == ""},
		{"lyrics", r.Lyrics == ""},
		{"lyricsTranslation", r.LyricsTranslation == ""},
	}
	for _, f := range required {
		if f.empty {
			errs = append(errs, ValidationError{Field: f.field, Message: "is required"})
		}
	}
	return errs
}

// Decision is the outcome an administrator picks for a submission.
type Decision string

const (
	DecisionApprove Decision = "APPROVE"
	DecisionReject  Decision = "REJECT"
)

// DecisionRequest is the body of the decide endpoint.
type DecisionRequest struct {
	ID       int64    `json:"id"`
	Decision Decision `json:"decision"`
	Note     *string  `json:"note,omitempty"`
}
