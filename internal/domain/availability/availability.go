package availability

import (
	"time"

	"github.com/google/uuid"

	"github.com/medibook/medibook/internal/domain/slot"
)

// Entry is the set of open time labels one provider has declared for one
// date. There is at most one Entry per (provider, date); repeated additions
// merge by set union. An Entry with no labels is equivalent to no Entry and
// gets pruned.
type Entry struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`

	ProviderID uuid.UUID `gorm:"column:provider_id;type:uuid;not null;uniqueIndex:idx_availability_provider_date"`
	Date       slot.Date `gorm:"column:date;type:varchar(10);not null;uniqueIndex:idx_availability_provider_date"`

	Labels []slot.TimeLabel `gorm:"column:labels;serializer:json;not null"`
}

func (Entry) TableName() string {
	return "scheduling.availability_entries"
}

// Has reports whether the entry holds the given label.
func (e *Entry) Has(label slot.TimeLabel) bool {
	for _, l := range e.Labels {
		if l == label {
			return true
		}
	}
	return false
}

type AddSlotsCommand struct {
	ProviderID uuid.UUID
	Date       slot.Date
	Labels     []slot.TimeLabel
}
