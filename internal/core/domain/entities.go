package domain

import "time"

// Role represents an operator role in the system
type Role string

const (
	RoleAdmin  Role = "ADMIN"
	RoleOffice Role = "OFFICE"
)

// ActorType distinguishes the two login identities carried in tokens
type ActorType string

const (
	ActorAdmin  ActorType = "admin"
	ActorOffice ActorType = "office"
)

// CircleType is the administrative district a person record belongs to.
// Every record must carry exactly one once it is classified.
type CircleType string

const (
	CircleRightMosul   CircleType = "RIGHT_MOSUL"
	CircleLeftMosul    CircleType = "LEFT_MOSUL"
	CircleHammamAlalil CircleType = "HAMMAM_ALALIL"
	CircleAlShoura     CircleType = "ALSHOURA"
	CircleBaaj         CircleType = "BAAJ"
	CircleOthers       CircleType = "OTHERS"
)

// CircleTypes lists all valid circle types
var CircleTypes = []CircleType{
	CircleRightMosul,
	CircleLeftMosul,
	CircleHammamAlalil,
	CircleAlShoura,
	CircleBaaj,
	CircleOthers,
}

// ParseCircleType validates a raw string against the known circle types
func ParseCircleType(s string) (CircleType, bool) {
	ct := CircleType(s)
	for _, known := range CircleTypes {
		if ct == known {
			return ct, true
		}
	}
	return "", false
}

// RecordKind distinguishes the two person-record collections
type RecordKind string

const (
	KindReviewer     RecordKind = "reviewer"
	KindOfficeRecord RecordKind = "office_record"
)

// ParseRecordKind validates a raw string against the known record kinds
func ParseRecordKind(s string) (RecordKind, bool) {
	switch RecordKind(s) {
	case KindReviewer:
		return KindReviewer, true
	case KindOfficeRecord:
		return KindOfficeRecord, true
	}
	return "", false
}

// EntityType distinguishes the two debtor entity collections for settlement
type EntityType string

const (
	EntityOffice EntityType = "office"
	EntitySource EntityType = "source"
)

// ParseEntityType validates a raw string against the known entity types
func ParseEntityType(s string) (EntityType, bool) {
	switch EntityType(s) {
	case EntityOffice:
		return EntityOffice, true
	case EntitySource:
		return EntitySource, true
	}
	return "", false
}

// BinRetention is how long a trashed record stays restorable.
// Enforced as a query-time filter on the recycle bin, not a sweep.
const BinRetention = 72 * time.Hour

// Balance is the reconciliation view for one office or source:
// what the booked records add up to, what has been paid against it,
// and the zero-floored remainder.
type Balance struct {
	TotalOwed   float64
	TotalPaid   float64
	Outstanding float64
}
