package dispatch

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	"property-concierge/internal/catalog"
	"property-concierge/internal/common/validation"
	"property-concierge/internal/wizard"
)

// Type tags the two notification request variants.
type Type string

const (
	TypeViewing  Type = "viewing"
	TypeBrochure Type = "brochure"
)

// StatusPendingConfirmation is the only viewing status this system emits:
// an agent confirms manually, never the engine.
const StatusPendingConfirmation = "pending_confirmation"

// PropertySnapshot is the property state captured at submission time. The
// viewing variant sends only the identifying subset; the brochure variant
// embeds the full record.
type PropertySnapshot struct {
	Name        string   `json:"name"`
	Ref         string   `json:"ref"`
	Location    string   `json:"location,omitempty"`
	Price       string   `json:"price,omitempty"`
	Size        string   `json:"size,omitempty"`
	Plot        string   `json:"plot,omitempty"`
	Bedrooms    int      `json:"bedrooms,omitempty"`
	Bathrooms   int      `json:"bathrooms,omitempty"`
	Description string   `json:"description,omitempty"`
	Features    []string `json:"features,omitempty"`
}

// Client is the contact block of a notification request.
type Client struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone,omitempty"`
}

// Viewing is the scheduling block of a viewing request.
type Viewing struct {
	Date   string `json:"date"`
	Time   string `json:"time"`
	Status string `json:"status"`
}

// Request is the immutable outbound notification payload. It is
// constructible only from a fully validated form; the constructors below
// re-check the invariants so a Request in hand is always well-formed.
type Request struct {
	Type     Type             `json:"type"`
	Property PropertySnapshot `json:"property"`
	Client   Client           `json:"client"`
	Viewing  *Viewing         `json:"viewing,omitempty"`
	Notes    string           `json:"notes,omitempty"`

	// SubmissionID correlates the request with its outcome turn. It is not
	// part of the wire contract.
	SubmissionID string `json:"-"`
}

// NewViewingRequest builds a viewing request from completed wizard fields.
// The snapshot carries only the identifying property subset.
func NewViewingRequest(propertyName string, prop catalog.Property, fields map[string]string) (*Request, error) {
	client, err := clientFromFields(fields, true)
	if err != nil {
		return nil, err
	}

	date := strings.TrimSpace(fields[wizard.FieldDate])
	viewingTime := strings.TrimSpace(fields[wizard.FieldTime])
	if date == "" || viewingTime == "" {
		return nil, fmt.Errorf("viewing request requires date and time")
	}

	return &Request{
		Type: TypeViewing,
		Property: PropertySnapshot{
			Name:     propertyName,
			Ref:      prop.Ref,
			Location: prop.Location,
			Price:    prop.Price,
		},
		Client: client,
		Viewing: &Viewing{
			Date:   date,
			Time:   viewingTime,
			Status: StatusPendingConfirmation,
		},
		Notes:        strings.TrimSpace(fields[wizard.FieldNotes]),
		SubmissionID: uuid.New().String(),
	}, nil
}

// NewBrochureRequest builds a brochure request from completed wizard
// fields. The snapshot embeds the full property record.
func NewBrochureRequest(propertyName string, prop catalog.Property, fields map[string]string) (*Request, error) {
	client, err := clientFromFields(fields, false)
	if err != nil {
		return nil, err
	}

	return &Request{
		Type: TypeBrochure,
		Property: PropertySnapshot{
			Name:        propertyName,
			Ref:         prop.Ref,
			Location:    prop.Location,
			Price:       prop.Price,
			Size:        prop.Size,
			Plot:        prop.Plot,
			Bedrooms:    prop.Bedrooms,
			Bathrooms:   prop.Bathrooms,
			Description: prop.Description,
			Features:    prop.Features,
		},
		Client:       client,
		SubmissionID: uuid.New().String(),
	}, nil
}

func clientFromFields(fields map[string]string, phoneRequired bool) (Client, error) {
	name := strings.TrimSpace(fields[wizard.FieldName])
	email := strings.TrimSpace(fields[wizard.FieldEmail])
	phone := strings.TrimSpace(fields[wizard.FieldPhone])

	if name == "" {
		return Client{}, fmt.Errorf("client name is required")
	}
	if !validation.ValidateEmail(email) {
		return Client{}, fmt.Errorf("client email %q is malformed", email)
	}
	if phoneRequired && !validation.ValidatePhone(phone) {
		return Client{}, fmt.Errorf("client phone %q is malformed", phone)
	}
	if phone != "" && !validation.ValidatePhone(phone) {
		return Client{}, fmt.Errorf("client phone %q is malformed", phone)
	}

	return Client{Name: name, Email: email, Phone: phone}, nil
}
