package datalogger

import (
	"time"

	"github.com/google/uuid"
)

// Conversion is a stored extraction result addressed by its session ID.
type Conversion struct {
	ID        uuid.UUID    `json:"id" db:"id"`
	Filename  string       `json:"filename" db:"filename"`
	Layout    LayoutTag    `json:"layout" db:"layout"`
	Table     *ResultTable `json:"table" db:"-"`
	CreatedAt time.Time    `json:"created_at" db:"created_at"`
	ExpiresAt time.Time    `json:"expires_at" db:"expires_at"`
}

// Expired reports whether the conversion is past its expiry at now.
func (c *Conversion) Expired(now time.Time) bool {
	return !c.ExpiresAt.IsZero() && !now.Before(c.ExpiresAt)
}

// ReportMetadata carries the letterhead fields printed on the PDF report.
type ReportMetadata struct {
	Formulation     string `json:"formulation" form:"param1"`
	Revision        string `json:"revision" form:"param2"`
	Status          string `json:"status" form:"param3"`
	ReportDate      string `json:"report_date" form:"param4"`
	StudyNumber     string `json:"study_number" form:"param5"`
	EquipmentCode   string `json:"equipment_code" form:"param6"`
	TestNumber      string `json:"test_number" form:"param7"`
	ReadingLocation string `json:"reading_location" form:"param8"`
}
