package models

import (
	"time"

	"aeroportal/internal/events"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ReportCategory is the fixed category label supervision reports carry in
// the merged file listing.
const ReportCategory = "Laporan Hasil Pengawasan"

type Contact struct {
	Base
	Name           string `gorm:"not null" json:"name" validate:"required,max=255"`
	Position       string `gorm:"not null" json:"position" validate:"required,max=255"`
	Phone          string `gorm:"not null" json:"phone" validate:"required,max=20"`
	Email          string `json:"email" validate:"omitempty,email,max=255"`
	Department     string `json:"department" validate:"omitempty,max=255"`
	EmployeeID     string `json:"employeeId" validate:"omitempty,max=50"`
	Bio            string `json:"bio"`
	Certifications string `json:"certifications"`
	PhotoPath      string `json:"photoPath"`
}

type Link struct {
	Base
	Title       string `gorm:"not null" json:"title" validate:"required,max=255"`
	URL         string `gorm:"not null" json:"url" validate:"required,url"`
	Category    string `gorm:"not null" json:"category" validate:"required,max=255"`
	Icon        string `json:"icon"`
	IconPath    string `json:"iconPath"`
	Description string `json:"description"`
}

type File struct {
	Base
	DisplayName string  `gorm:"not null" json:"displayName" validate:"required,max=255"`
	Category    string  `gorm:"not null" json:"category" validate:"required,max=255"`
	Description string  `json:"description"`
	FilePath    string  `gorm:"not null" json:"filePath"`
	Size        int64   `gorm:"not null" json:"size"`
	IsSecure    bool    `gorm:"not null;default:false" json:"isSecure"`
	Password    *string `json:"-"` // non-nil iff IsSecure
	PublicURL   string  `gorm:"-" json:"url,omitempty"` // Virtual field
}

func (f *File) AfterCreate(tx *gorm.DB) error {
	events.Emit("files.created", f)
	return nil
}

func (f *File) AfterFind(tx *gorm.DB) error {
	f.PublicURL = resolveArtifactURL(tx.Statement.Context, f.FilePath)
	return nil
}

type Announcement struct {
	Base
	Content  string `gorm:"not null" json:"content" validate:"required"`
	IsActive bool   `gorm:"not null;default:true" json:"isActive"`
}

type SupervisionReport struct {
	Base
	Name      string                    `gorm:"not null" json:"name" validate:"required,max=255"`
	FilePath  string                    `gorm:"not null" json:"filePath"`
	FileSize  int64                     `gorm:"not null" json:"fileSize"`
	StartDate time.Time                 `gorm:"not null" json:"startDate"`
	EndDate   time.Time                 `gorm:"not null" json:"endDate"`
	IsSecure  bool                      `gorm:"not null;default:false" json:"isSecure"`
	Password  *string                   `json:"-"` // non-nil iff IsSecure
	UserID    string                    `gorm:"type:uuid;not null" json:"userId"`
	User      *User                     `json:"user,omitempty"`
	Details   []SupervisionReportDetail `gorm:"foreignKey:SupervisionReportID;constraint:OnDelete:CASCADE" json:"details,omitempty"`
	PublicURL string                    `gorm:"-" json:"url,omitempty"` // Virtual field
}

func (r *SupervisionReport) AfterCreate(tx *gorm.DB) error {
	events.Emit("supervision_reports.created", r)
	return nil
}

func (r *SupervisionReport) AfterFind(tx *gorm.DB) error {
	r.PublicURL = resolveArtifactURL(tx.Statement.Context, r.FilePath)
	return nil
}

// SupervisionReportDetail is one (airport, airline) pairing attached to a
// report. Duplicate (report, airport) rows represent multiple airlines
// visited at the same location.
type SupervisionReportDetail struct {
	Base
	SupervisionReportID string   `gorm:"type:uuid;not null;index" json:"supervisionReportId"`
	AirportID           string   `gorm:"type:uuid;not null;index" json:"airportId"`
	Airport             *Airport `json:"airport,omitempty"`
	AirlineID           string   `gorm:"type:uuid;not null;index" json:"airlineId"`
	Airline             *Airline `json:"airline,omitempty"`
}

func (d *SupervisionReportDetail) BeforeCreate(tx *gorm.DB) error {
	if d.ID == "" {
		d.ID = uuid.New().String()
	}
	return nil
}

type Airport struct {
	Base
	Name string `gorm:"uniqueIndex;not null" json:"name" validate:"required"`
}

type Airline struct {
	Base
	Name  string `gorm:"uniqueIndex;not null" json:"name" validate:"required"`
	Color string `json:"color"`
}
