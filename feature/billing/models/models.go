package models

import (
	"time"
)

// Patient is a synced patient row. The external id is the reconciliation
// key supplied by the upstream source; the surrogate id is never reused and
// is what payments reference.
type Patient struct {
	ID          int       `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	Created     time.Time `gorm:"column:created;autoCreateTime" json:"created"`
	Updated     time.Time `gorm:"column:updated;autoUpdateTime" json:"updated"`
	Deleted     bool      `gorm:"column:deleted;default:false" json:"deleted"`
	ExternalID  string    `gorm:"column:external_id;index" json:"external_id"`
	FirstName   string    `gorm:"column:first_name;not null" json:"first_name"`
	LastName    string    `gorm:"column:last_name;not null" json:"last_name"`
	MiddleName  string    `gorm:"column:middle_name" json:"middle_name,omitempty"`
	DateOfBirth time.Time `gorm:"column:date_of_birth;type:date" json:"date_of_birth"`
}

// TableName overrides the table name.
func (Patient) TableName() string {
	return "patients"
}

// Payment is a synced payment row. PatientID references the patient's
// surrogate id, as delivered by the upstream payload.
type Payment struct {
	ID         int       `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	Created    time.Time `gorm:"column:created;autoCreateTime" json:"created"`
	Updated    time.Time `gorm:"column:updated;autoUpdateTime" json:"updated"`
	Deleted    bool      `gorm:"column:deleted;default:false" json:"deleted"`
	ExternalID string    `gorm:"column:external_id;index" json:"external_id"`
	Amount     float64   `gorm:"column:amount;not null" json:"amount"`
	PatientID  int       `gorm:"column:patient_id;not null" json:"patient_id"`

	// Patient declares the foreign key so migration creates the constraint.
	Patient *Patient `gorm:"foreignKey:PatientID" json:"-"`
}

// TableName overrides the table name.
func (Payment) TableName() string {
	return "payments"
}
