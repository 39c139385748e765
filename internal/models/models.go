package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"

	"gorm.io/gorm"
)

// User is the dashboard user profile returned by the CMS /api/me endpoint.
type User struct {
	ID    ID     `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

type Page struct {
	ID    ID     `json:"id"`
	Title string `json:"title"`
	Slug  string `json:"slug,omitempty"`
}

const (
	MediaTypeImage = "image"
	MediaTypeText  = "text"
)

// Media is a media library record. Text records back read-only editor fields
// looked up by title.
type Media struct {
	ID      ID     `json:"id"`
	Title   string `json:"title"`
	FileURL string `json:"file_url"`
	Type    string `json:"type"`
	Text    string `json:"text"`
	AltText string `json:"alt_text,omitempty"`
}

func (m Media) IsImage() bool {
	return m.Type == MediaTypeImage && m.FileURL != ""
}

// Draft is a locally saved copy of a page's sections.
type Draft struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	UserID   string        `gorm:"size:64;not null;uniqueIndex:idx_drafts_user_page,priority:1" json:"user_id"`
	PageID   string        `gorm:"size:64;not null;uniqueIndex:idx_drafts_user_page,priority:2" json:"page_id"`
	Sections DraftSections `gorm:"type:jsonb" json:"sections"`
}

type DraftSections []Section

func (ds *DraftSections) Scan(value interface{}) error {
	if value == nil {
		*ds = DraftSections{}
		return nil
	}

	var data []byte
	switch v := value.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return errors.New("failed to scan DraftSections")
	}

	return json.Unmarshal(data, ds)
}

func (ds DraftSections) Value() (driver.Value, error) {
	if len(ds) == 0 {
		return "[]", nil
	}
	encoded, err := json.Marshal(ds)
	if err != nil {
		return nil, err
	}
	return string(encoded), nil
}
