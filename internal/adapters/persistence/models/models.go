package models

import (
	"strings"
	"time"

	"ninawa-bookdesk/internal/core/domain"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// ============================================================
// Auth Tables
// ============================================================

// User represents admin operator accounts (users table)
type User struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	Username  string         `gorm:"uniqueIndex;size:50;not null" json:"username"`
	Email     string         `gorm:"uniqueIndex;size:100;not null" json:"email"`
	Password  string         `gorm:"size:255;not null" json:"-"`
	Role      string         `gorm:"size:20;default:'ADMIN'" json:"role"`
	IsActive  bool           `gorm:"default:true" json:"is_active"`
	CreatedAt time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (User) TableName() string {
	return "users"
}

// UserResponse DTO
type UserResponse struct {
	ID        uint      `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
}

func (u *User) ToResponse() *UserResponse {
	return &UserResponse{
		ID:        u.ID,
		Username:  u.Username,
		Email:     u.Email,
		Role:      u.Role,
		IsActive:  u.IsActive,
		CreatedAt: u.CreatedAt,
	}
}

// RefreshToken represents refresh_tokens table.
// ActorType + ActorID scope a token to either an admin user or an office login.
type RefreshToken struct {
	ID        uint       `gorm:"primaryKey" json:"id"`
	ActorType string     `gorm:"size:20;not null;index:idx_refresh_actor" json:"actor_type"`
	ActorID   uint       `gorm:"not null;index:idx_refresh_actor" json:"actor_id"`
	TokenHash string     `gorm:"size:255;not null;index" json:"-"`
	ExpiresAt time.Time  `gorm:"not null" json:"expires_at"`
	CreatedAt time.Time  `gorm:"autoCreateTime" json:"created_at"`
	RevokedAt *time.Time `gorm:"index" json:"revoked_at"`
}

func (RefreshToken) TableName() string {
	return "refresh_tokens"
}

func (rt *RefreshToken) IsRevoked() bool {
	return rt.RevokedAt != nil
}

func (rt *RefreshToken) IsExpired() bool {
	return time.Now().After(rt.ExpiresAt)
}

// ============================================================
// Price-List Entities
// ============================================================

// Office represents an intermediary brokerage office (offices table).
// Carries its own login identity, a current price list per circle type,
// and cooperative presence fields.
type Office struct {
	ID         uint   `gorm:"primaryKey" json:"id"`
	OfficeName string `gorm:"uniqueIndex;size:100;not null" json:"office_name"`
	Username   string `gorm:"uniqueIndex;size:50;not null" json:"username"`
	Password   string `gorm:"size:255;not null" json:"-"`
	Phone      string `gorm:"size:20" json:"phone"`

	// Current price list. Changing these affects only future bookings;
	// frozen prices on already-booked records are never recalculated.
	PriceRightMosul   float64 `gorm:"type:decimal(15,2);default:0" json:"price_right_mosul"`
	PriceLeftMosul    float64 `gorm:"type:decimal(15,2);default:0" json:"price_left_mosul"`
	PriceHammamAlalil float64 `gorm:"type:decimal(15,2);default:0" json:"price_hammam_alalil"`
	PriceAlShoura     float64 `gorm:"type:decimal(15,2);default:0" json:"price_alshoura"`
	PriceBaaj         float64 `gorm:"type:decimal(15,2);default:0" json:"price_baaj"`
	PriceOthers       float64 `gorm:"type:decimal(15,2);default:0" json:"price_others"`

	LastSeen    *time.Time `json:"last_seen"`
	ForceLogout bool       `gorm:"default:false" json:"force_logout"`

	CreatedAt time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Office) TableName() string {
	return "offices"
}

// PriceFor selects the current price-list value for a circle type.
// Unknown circle types fall through to the OTHERS price.
func (o *Office) PriceFor(ct domain.CircleType) float64 {
	switch ct {
	case domain.CircleRightMosul:
		return o.PriceRightMosul
	case domain.CircleLeftMosul:
		return o.PriceLeftMosul
	case domain.CircleHammamAlalil:
		return o.PriceHammamAlalil
	case domain.CircleAlShoura:
		return o.PriceAlShoura
	case domain.CircleBaaj:
		return o.PriceBaaj
	default:
		return o.PriceOthers
	}
}

// OfficeResponse DTO
type OfficeResponse struct {
	ID                uint       `json:"id"`
	OfficeName        string     `json:"office_name"`
	Username          string     `json:"username"`
	Phone             string     `json:"phone"`
	PriceRightMosul   float64    `json:"price_right_mosul"`
	PriceLeftMosul    float64    `json:"price_left_mosul"`
	PriceHammamAlalil float64    `json:"price_hammam_alalil"`
	PriceAlShoura     float64    `json:"price_alshoura"`
	PriceBaaj         float64    `json:"price_baaj"`
	PriceOthers       float64    `json:"price_others"`
	LastSeen          *time.Time `json:"last_seen"`
	Online            bool       `json:"online"`
	ForceLogout       bool       `json:"force_logout"`
	CreatedAt         time.Time  `json:"created_at"`
}

// PresenceWindow is how recent a heartbeat must be for an office to count as online
const PresenceWindow = 5 * time.Minute

func (o *Office) ToResponse() *OfficeResponse {
	online := o.LastSeen != nil && time.Since(*o.LastSeen) < PresenceWindow
	return &OfficeResponse{
		ID:                o.ID,
		OfficeName:        o.OfficeName,
		Username:          o.Username,
		Phone:             o.Phone,
		PriceRightMosul:   o.PriceRightMosul,
		PriceLeftMosul:    o.PriceLeftMosul,
		PriceHammamAlalil: o.PriceHammamAlalil,
		PriceAlShoura:     o.PriceAlShoura,
		PriceBaaj:         o.PriceBaaj,
		PriceOthers:       o.PriceOthers,
		LastSeen:          o.LastSeen,
		Online:            online,
		ForceLogout:       o.ForceLogout,
		CreatedAt:         o.CreatedAt,
	}
}

// BookingSource represents an external financier/demand source (booking_sources table).
// Structurally parallel to Office but not a login identity. Records from both
// person collections can link to a source via booked_source_id.
type BookingSource struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	SourceName  string `gorm:"uniqueIndex;size:100;not null" json:"source_name"`
	PhoneNumber string `gorm:"size:20" json:"phone_number"`

	PriceRightMosul   float64 `gorm:"type:decimal(15,2);default:0" json:"price_right_mosul"`
	PriceLeftMosul    float64 `gorm:"type:decimal(15,2);default:0" json:"price_left_mosul"`
	PriceHammamAlalil float64 `gorm:"type:decimal(15,2);default:0" json:"price_hammam_alalil"`
	PriceAlShoura     float64 `gorm:"type:decimal(15,2);default:0" json:"price_alshoura"`
	PriceBaaj         float64 `gorm:"type:decimal(15,2);default:0" json:"price_baaj"`
	PriceOthers       float64 `gorm:"type:decimal(15,2);default:0" json:"price_others"`

	CreatedAt time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (BookingSource) TableName() string {
	return "booking_sources"
}

// PriceFor selects the current price-list value for a circle type.
func (s *BookingSource) PriceFor(ct domain.CircleType) float64 {
	switch ct {
	case domain.CircleRightMosul:
		return s.PriceRightMosul
	case domain.CircleLeftMosul:
		return s.PriceLeftMosul
	case domain.CircleHammamAlalil:
		return s.PriceHammamAlalil
	case domain.CircleAlShoura:
		return s.PriceAlShoura
	case domain.CircleBaaj:
		return s.PriceBaaj
	default:
		return s.PriceOthers
	}
}

// ============================================================
// Person Records
// ============================================================

// Reviewer represents a person record owned by the operator directly (reviewers table)
type Reviewer struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	FullName    string     `gorm:"size:100;not null" json:"full_name"`
	Surname     string     `gorm:"size:100" json:"surname"`
	MotherName  string     `gorm:"size:100" json:"mother_name"`
	DateOfBirth *time.Time `gorm:"type:date" json:"date_of_birth"`
	Phone       string     `gorm:"size:20" json:"phone"`
	CircleType  string     `gorm:"size:30;not null;index" json:"circle_type"`

	// Booking state. BookingDate is the represented real-world date;
	// BookingCreatedAt is when the booking was recorded in the system.
	IsBooked         bool       `gorm:"default:false;index" json:"is_booked"`
	BookingImage     string     `gorm:"size:500" json:"booking_image"`
	BookingDate      *time.Time `gorm:"type:date" json:"booking_date"`
	BookingCreatedAt *time.Time `json:"booking_created_at"`
	BookedSourceID   *uint      `gorm:"index" json:"booked_source_id"`

	// Frozen at booking time from the financing entity's price list,
	// never recalculated afterward.
	BookedPrice float64 `gorm:"type:decimal(15,2);default:0" json:"booked_price"`

	// Upload workflow flag, independent of settlement
	IsUploaded       bool  `gorm:"default:false" json:"is_uploaded"`
	UploadedSourceID *uint `json:"uploaded_source_id"`

	IsArchived bool `gorm:"default:false;index" json:"is_archived"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	// Relations
	BookedSource  *BookingSource `gorm:"foreignKey:BookedSourceID" json:"booked_source,omitempty"`
	FamilyMembers []FamilyMember `gorm:"polymorphic:Record;polymorphicValue:reviewer" json:"family_members,omitempty"`
}

func (Reviewer) TableName() string {
	return "reviewers"
}

// HasBookingEvidence reports whether the record carries a booking image
func (r *Reviewer) HasBookingEvidence() bool {
	return strings.TrimSpace(r.BookingImage) != ""
}

// OfficeRecord represents a person record owned via an intermediary office
// (office_records table). Same shape as Reviewer plus the owning office and
// a batch label.
type OfficeRecord struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	OfficeID    uint       `gorm:"not null;index" json:"office_id"`
	Affiliation string     `gorm:"size:100;index" json:"affiliation"` // denormalized office name for display
	TableNumber string     `gorm:"size:50" json:"table_number"`
	FullName    string     `gorm:"size:100;not null" json:"full_name"`
	Surname     string     `gorm:"size:100" json:"surname"`
	MotherName  string     `gorm:"size:100" json:"mother_name"`
	DateOfBirth *time.Time `gorm:"type:date" json:"date_of_birth"`
	Phone       string     `gorm:"size:20" json:"phone"`
	CircleType  string     `gorm:"size:30;not null;index" json:"circle_type"`

	IsBooked         bool       `gorm:"default:false;index" json:"is_booked"`
	BookingImage     string     `gorm:"size:500" json:"booking_image"`
	BookingDate      *time.Time `gorm:"type:date" json:"booking_date"`
	BookingCreatedAt *time.Time `json:"booking_created_at"`
	BookedSourceID   *uint      `gorm:"index" json:"booked_source_id"`

	BookedPrice float64 `gorm:"type:decimal(15,2);default:0" json:"booked_price"`

	IsUploaded       bool  `gorm:"default:false" json:"is_uploaded"`
	UploadedSourceID *uint `json:"uploaded_source_id"`

	IsArchived bool `gorm:"default:false;index" json:"is_archived"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	// Relations
	Office        *Office        `gorm:"foreignKey:OfficeID" json:"office,omitempty"`
	BookedSource  *BookingSource `gorm:"foreignKey:BookedSourceID" json:"booked_source,omitempty"`
	FamilyMembers []FamilyMember `gorm:"polymorphic:Record;polymorphicValue:office_record" json:"family_members,omitempty"`
}

func (OfficeRecord) TableName() string {
	return "office_records"
}

// HasBookingEvidence reports whether the record carries a booking image
func (r *OfficeRecord) HasBookingEvidence() bool {
	return strings.TrimSpace(r.BookingImage) != ""
}

// FamilyMember rides on the head record's booking; no independent financial
// identity. Polymorphic over the two person-record tables.
type FamilyMember struct {
	ID           uint       `gorm:"primaryKey" json:"id"`
	RecordType   string     `gorm:"size:20;not null;index:idx_family_record" json:"record_type"`
	RecordID     uint       `gorm:"not null;index:idx_family_record" json:"record_id"`
	Relationship string     `gorm:"size:50;not null" json:"relationship"`
	FullName     string     `gorm:"size:100;not null" json:"full_name"`
	Surname      string     `gorm:"size:100" json:"surname"`
	MotherName   string     `gorm:"size:100" json:"mother_name"`
	DateOfBirth  *time.Time `gorm:"type:date" json:"date_of_birth"`
	CreatedAt    time.Time  `gorm:"autoCreateTime" json:"created_at"`
}

func (FamilyMember) TableName() string {
	return "family_members"
}

// ============================================================
// Settlement Ledgers
// ============================================================

// OfficeSettlement is one payment received against an office's debt
// (office_settlements table). Rows are append-only: no update or delete
// path exists in the repositories.
type OfficeSettlement struct {
	ID              uint      `gorm:"primaryKey" json:"id"`
	OfficeID        uint      `gorm:"not null;index" json:"office_id"`
	Amount          float64   `gorm:"type:decimal(15,2);not null" json:"amount"`
	TransactionDate time.Time `gorm:"not null" json:"transaction_date"`
	RecordedBy      string    `gorm:"size:50" json:"recorded_by"`
	Notes           string    `gorm:"type:text" json:"notes"`
	CreatedAt       time.Time `gorm:"autoCreateTime" json:"created_at"`

	Office *Office `gorm:"foreignKey:OfficeID" json:"office,omitempty"`
}

func (OfficeSettlement) TableName() string {
	return "office_settlements"
}

// SourceSettlement is one payment received against a booking source's debt
// (source_settlements table). Parallel shape to OfficeSettlement.
type SourceSettlement struct {
	ID              uint      `gorm:"primaryKey" json:"id"`
	SourceID        uint      `gorm:"not null;index" json:"source_id"`
	Amount          float64   `gorm:"type:decimal(15,2);not null" json:"amount"`
	TransactionDate time.Time `gorm:"not null" json:"transaction_date"`
	RecordedBy      string    `gorm:"size:50" json:"recorded_by"`
	Notes           string    `gorm:"type:text" json:"notes"`
	CreatedAt       time.Time `gorm:"autoCreateTime" json:"created_at"`

	Source *BookingSource `gorm:"foreignKey:SourceID" json:"source,omitempty"`
}

func (SourceSettlement) TableName() string {
	return "source_settlements"
}

// ============================================================
// Recycle Bin
// ============================================================

// RecycleBinEntry is the soft-delete snapshot of a trashed person record
// (recycle_bin table). OriginalData holds the full serialized record
// including family members, frozen price and timestamps.
type RecycleBinEntry struct {
	ID           uint           `gorm:"primaryKey" json:"id"`
	OriginalID   uint           `gorm:"not null;index" json:"original_id"`
	RecordType   string         `gorm:"size:20;not null;index" json:"record_type"`
	FullName     string         `gorm:"size:100" json:"full_name"`
	DeletedBy    string         `gorm:"size:50" json:"deleted_by"`
	DeletedAt    time.Time      `gorm:"not null;index" json:"deleted_at"`
	OriginalData datatypes.JSON `gorm:"not null" json:"original_data"`
}

func (RecycleBinEntry) TableName() string {
	return "recycle_bin"
}

// ============================================================
// Auto Migration
// ============================================================

// AutoMigrate runs auto migration for all tables
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&User{},
		&RefreshToken{},
		&Office{},
		&BookingSource{},
		&Reviewer{},
		&OfficeRecord{},
		&FamilyMember{},
		&OfficeSettlement{},
		&SourceSettlement{},
		&RecycleBinEntry{},
	)
}
