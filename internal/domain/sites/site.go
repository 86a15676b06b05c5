package sites

import (
	"time"

	"github.com/google/uuid"
)

type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "pending"
	PaymentSubmitted PaymentStatus = "submitted"
	PaymentApproved  PaymentStatus = "approved"
	PaymentRejected  PaymentStatus = "rejected"
)

type Site struct {
	ID                string        `gorm:"primaryKey;size:32;column:id" json:"id"`
	OwnerUserID       uuid.UUID     `gorm:"type:uuid;not null;index;column:owner_user_id" json:"owner_user_id"`
	StoragePath       string        `gorm:"not null;column:html_path" json:"html_path"`
	Paid              bool          `gorm:"not null;default:false;column:paid" json:"paid"`
	Price             float64       `gorm:"type:numeric(10,2);not null;column:price" json:"price"`
	Currency          string        `gorm:"size:8;not null;default:'USD';column:currency" json:"currency"`
	Name              string        `gorm:"not null;column:name" json:"name"`
	Mode              string        `gorm:"size:16;column:mode" json:"mode"`
	Style             string        `gorm:"size:32;column:style" json:"style"`
	Lang              string        `gorm:"size:8;column:lang" json:"lang"`
	PaymentStatus     PaymentStatus `gorm:"size:16;not null;default:'pending';index;column:payment_status" json:"payment_status"`
	PaymentMethod     string        `gorm:"size:32;column:payment_method" json:"payment_method,omitempty"`
	PaymentIdentifier string        `gorm:"column:payment_identifier" json:"payment_identifier,omitempty"`
	PaymentID         string        `gorm:"column:payment_id" json:"payment_id,omitempty"`

	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime" json:"updated_at"`
}

func (Site) TableName() string { return "website" }

// StoragePathFor is the object key of a site's document.
func StoragePathFor(owner uuid.UUID, siteID string) string {
	return owner.String() + "/" + siteID + "/index.html"
}
