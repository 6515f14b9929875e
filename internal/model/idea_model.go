package model

import (
	"time"

	"github.com/lib/pq"
	"gorm.io/datatypes"
)

type Idea struct {
	Id                   string         `gorm:"type:text;primaryKey"`
	UserId               string         `gorm:"type:uuid;not null;index:idx_ideas_user_created,priority:1"`
	Title                string         `gorm:"type:text;not null;default:''"`
	RawIdea              string         `gorm:"type:text;not null"`
	Problem              string         `gorm:"type:text;not null;default:''"`
	Solution             string         `gorm:"type:text;not null;default:''"`
	Features             pq.StringArray `gorm:"type:text[];not null;default:'{}'"`
	Status               string         `gorm:"type:varchar(20);not null;default:'draft'"`
	CreatedAt            time.Time      `gorm:"not null;index:idx_ideas_user_created,priority:2,sort:desc"`
	Analysis             datatypes.JSON `gorm:"type:jsonb"`
	Improvements         datatypes.JSON `gorm:"type:jsonb"`
	AcceptedImprovements pq.StringArray `gorm:"type:text[];not null;default:'{}'"`
	Srs                  *string        `gorm:"type:text"`
}

func (Idea) TableName() string {
	return "ideas"
}
