package models

import "gorm.io/datatypes"

type AudioFile struct {
	BaseModel

	Name      string `gorm:"size:255;not null"` // original filename as uploaded
	Path      string `gorm:"size:255;not null"` // where the blob store put it
	ProjectID uint   `gorm:"not null;index"`

	// Filled in by analysis tooling, never by upload.
	Duration   *float64
	SampleRate *int
	Channels   *int

	Metadata datatypes.JSON

	// Relationships
	Project Project `gorm:"foreignKey:ProjectID" json:"-"`
}

// AudioFileMetadata is what upload records in AudioFile.Metadata.
type AudioFileMetadata struct {
	ContentType string `json:"content_type,omitempty"`
	Size        int64  `json:"size"`
	StorageName string `json:"storage_name"`
}
