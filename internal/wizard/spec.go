package wizard

import (
	ozzo "github.com/go-ozzo/ozzo-validation/v4"

	"property-concierge/internal/common/validation"
)

// Canonical field names shared with the dispatcher.
const (
	FieldName  = "name"
	FieldEmail = "email"
	FieldPhone = "phone"
	FieldDate  = "date"
	FieldTime  = "time"
	FieldNotes = "notes"
)

// Kind identifies which concrete form a wizard instantiates.
type Kind string

const (
	KindViewing  Kind = "viewing"
	KindBrochure Kind = "brochure"
)

// FieldRule binds a field name to its validation rules. Optional fields are
// validated only when non-blank.
type FieldRule struct {
	Name     string
	Optional bool
	Rules    []ozzo.Rule
}

// Step is one validation gate of a wizard.
type Step struct {
	Fields []FieldRule
}

// Spec declares the steps of a concrete form.
type Spec struct {
	Kind  Kind
	Steps []Step
}

// ViewingSpec is the two-step viewing request form: contact details first,
// then scheduling. The time must come from the host-supplied slots.
func ViewingSpec(slots []string) Spec {
	return Spec{
		Kind: KindViewing,
		Steps: []Step{
			{
				Fields: []FieldRule{
					{Name: FieldName, Rules: []ozzo.Rule{validation.NotBlank}},
					{Name: FieldEmail, Rules: []ozzo.Rule{validation.NotBlank, validation.EmailShape}},
					{Name: FieldPhone, Rules: []ozzo.Rule{validation.NotBlank, validation.PhoneShape}},
				},
			},
			{
				Fields: []FieldRule{
					{Name: FieldDate, Rules: []ozzo.Rule{validation.NotBlank}},
					{Name: FieldTime, Rules: []ozzo.Rule{validation.NotBlank, validation.OneOf(slots)}},
					{Name: FieldNotes, Optional: true},
				},
			},
		},
	}
}

// BrochureSpec is the single-step brochure request form. Phone is optional
// but still shape-checked when provided.
func BrochureSpec() Spec {
	return Spec{
		Kind: KindBrochure,
		Steps: []Step{
			{
				Fields: []FieldRule{
					{Name: FieldName, Rules: []ozzo.Rule{validation.NotBlank}},
					{Name: FieldEmail, Rules: []ozzo.Rule{validation.NotBlank, validation.EmailShape}},
					{Name: FieldPhone, Optional: true, Rules: []ozzo.Rule{validation.PhoneShape}},
				},
			},
		},
	}
}
