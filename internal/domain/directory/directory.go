package directory

import (
	"time"

	"github.com/google/uuid"

	"github.com/medibook/medibook/internal/domain"
)

// Provider is directory metadata about a service provider. The booking core
// reads this only to enrich listings; it never writes here.
type Provider struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`

	UserID uuid.UUID `gorm:"column:user_id;type:uuid;not null;uniqueIndex"`

	Specialization  string `gorm:"column:specialization;type:varchar(100);not null;index"`
	Region          string `gorm:"column:region;type:varchar(100);index"`
	ExperienceYears int    `gorm:"column:experience_years"`
	Qualification   string `gorm:"column:qualification;type:varchar(255)"`
	Description     string `gorm:"column:description;type:text"`
}

func (Provider) TableName() string {
	return "directory.providers"
}

// Identity is the minimal human-readable record joined into booking
// listings. Kept separate from Provider so patients resolve too.
type Identity struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CreatedAt time.Time `gorm:"autoCreateTime"`

	Name  string      `gorm:"column:name;type:varchar(200);not null"`
	Email string      `gorm:"column:email;type:varchar(255);uniqueIndex;not null"`
	Role  domain.Role `gorm:"column:role;type:varchar(30);not null;index"`
}

func (Identity) TableName() string {
	return "directory.identities"
}
