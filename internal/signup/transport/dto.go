// Package transport defines the signup module's HTTP request shapes.
package transport

import (
	"smartdivorce_backend/internal/signup/service"

	"github.com/google/uuid"
)

// JoinRequest is the directory application form.
type JoinRequest struct {
	FirstName        string   `json:"firstName" validate:"required,max=100"`
	LastName         string   `json:"lastName" validate:"required,max=100"`
	Email            string   `json:"email" validate:"required,email"`
	Phone            string   `json:"phone" validate:"required,min=7"`
	FirmName         string   `json:"firmName" validate:"required,max=200"`
	BarNumber        string   `json:"barNumber" validate:"required,max=50"`
	YearsExperience  int      `json:"yearsExperience" validate:"gte=0,lte=70"`
	Website          *string  `json:"website" validate:"omitempty,url"`
	Street           string   `json:"street" validate:"required"`
	City             string   `json:"city" validate:"required"`
	State            string   `json:"state" validate:"required,len=2"`
	Zip              string   `json:"zip" validate:"required,min=5,max=10"`
	PracticeAreas    []string `json:"practiceAreas" validate:"required,min=1,dive,required"`
	ClientTypes      []string `json:"clientTypes" validate:"omitempty,dive,required"`
	ConsultationType string   `json:"consultationType" validate:"required,oneof=free paid none"`
	SponsorshipTier  string   `json:"sponsorshipTier" validate:"required,oneof=none basic premium featured"`
	Comments         *string  `json:"comments" validate:"omitempty,max=2000"`
}

func (r JoinRequest) Params() service.ApplicationParams {
	return service.ApplicationParams{
		FirstName:        r.FirstName,
		LastName:         r.LastName,
		Email:            r.Email,
		Phone:            r.Phone,
		FirmName:         r.FirmName,
		BarNumber:        r.BarNumber,
		YearsExperience:  r.YearsExperience,
		Website:          r.Website,
		Street:           r.Street,
		City:             r.City,
		State:            r.State,
		Zip:              r.Zip,
		PracticeAreas:    r.PracticeAreas,
		ClientTypes:      r.ClientTypes,
		ConsultationType: r.ConsultationType,
		SponsorshipTier:  r.SponsorshipTier,
		Comments:         r.Comments,
	}
}

// JoinResponse acknowledges a received application.
type JoinResponse struct {
	ApplicationID uuid.UUID `json:"applicationId"`
	Status        string    `json:"status"`
}

// NewsletterRequest is the newsletter signup form.
type NewsletterRequest struct {
	Email string `json:"email" validate:"required,email"`
}
