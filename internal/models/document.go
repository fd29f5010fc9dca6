package models

import (
	"time"

	"github.com/google/uuid"
)

// Document is a resume kept in the pool. Its text is extracted once at upload
// time so later matches never re-read the file.
type Document struct {
	ID               uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	Filename         string    `gorm:"type:text" json:"filename"`
	OriginalFileName string    `gorm:"type:text" json:"original_filename"`
	Format           string    `gorm:"type:text" json:"format"`
	Size             int64     `json:"size"`
	Text             string    `gorm:"type:text" json:"-"`
	ExtractionError  *string   `gorm:"type:text" json:"extraction_error,omitempty"`
	CreatedAt        time.Time `gorm:"type:timestamp;default:now()" json:"created_at"`
	UpdatedAt        time.Time `gorm:"type:timestamp;default:now()" json:"updated_at"`
}

func (d *Document) TableName() string {
	return "documents"
}

// Extracted reports whether text extraction succeeded for this document.
func (d *Document) Extracted() bool {
	return d.ExtractionError == nil
}
