package models

type Project struct {
	BaseModel

	Name    string `gorm:"size:100;not null"`
	OwnerID uint   `gorm:"not null;index"`

	// Relationships
	Owner          User            `gorm:"foreignKey:OwnerID"`
	Files          []AudioFile     `gorm:"foreignKey:ProjectID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
	Collaborations []Collaboration `gorm:"foreignKey:ProjectID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}
