package models

import "time"

const (
	StatusPending  = "PENDING"
	StatusApproved = "APPROVED"
	StatusRejected = "REJECTED"
)

const (
	GenderMale   = "MALE"
	GenderFemale = "FEMALE"
)

// VoterApplication is the registration record. The VIN doubles as the
// application's unique identifier and is what the public verification
// endpoint is keyed by.
type VoterApplication struct {
	VIN              string     `gorm:"primaryKey;size:32" json:"vin"`
	ApplicationRef   string     `gorm:"uniqueIndex;size:20" json:"application_ref"`
	OwnerID          string     `gorm:"index;size:64" json:"owner_id"`
	FirstName        string     `json:"first_name"`
	MiddleName       string     `json:"middle_name"`
	Surname          string     `json:"surname"`
	DateOfBirth      time.Time  `json:"date_of_birth"`
	Gender           string     `gorm:"size:10" json:"gender"`
	State            string     `json:"state"`
	LGA              string     `json:"lga"`
	Ward             string     `json:"ward"`
	PassportPhotoURL string     `json:"passport_photo_url"`
	Status           string     `gorm:"size:12;default:PENDING;index" json:"status"`
	CardURL          string     `json:"card_url"`
	CardIssuedAt     *time.Time `json:"card_issued_at"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
}

// FullName joins the name parts, skipping an absent middle name.
func (a *VoterApplication) FullName() string {
	name := a.FirstName
	if a.MiddleName != "" {
		name += " " + a.MiddleName
	}
	if a.Surname != "" {
		name += " " + a.Surname
	}
	return name
}

func ValidGender(g string) bool {
	return g == GenderMale || g == GenderFemale
}

func ValidStatus(s string) bool {
	return s == StatusPending || s == StatusApproved || s == StatusRejected
}
