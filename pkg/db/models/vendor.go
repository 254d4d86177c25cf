package models

import "github.com/caffeinepub/sajavathub-com-sub000/pkg/enums"

type Vendor struct {
	ID           string `gorm:"column:id;primaryKey" json:"id"`
	Name         string `gorm:"column:name;not null" json:"name"`
	GSTNumber    string `gorm:"column:gst_number;not null;uniqueIndex:uq_vendors_gst_number" json:"gstNumber"`
	MobileNumber string `gorm:"column:mobile_number;not null;uniqueIndex:uq_vendors_mobile_number" json:"mobileNumber"`
	Verified     bool   `gorm:"column:verified;not null;default:false" json:"verified"`
	CreatedAt    int64  `gorm:"column:created_at;not null;autoCreateTime:false" json:"createdAt"`
}

// OtpChallenge is the single live challenge for a mobile number. Only the
// argon2id hash of the code is stored.
type OtpChallenge struct {
	MobileNumber string          `gorm:"column:mobile_number;primaryKey"`
	CodeHash     string          `gorm:"column:code_hash;not null"`
	Status       enums.OtpStatus `gorm:"column:status;not null"`
	IssuedAt     int64           `gorm:"column:issued_at;not null"`
	ExpiresAt    int64           `gorm:"column:expires_at;not null"`
	VerifiedAt   *int64          `gorm:"column:verified_at"`
}
