// Package wizard implements the generic multi-step, validation-gated form
// state machine instantiated by the viewing and brochure forms.
package wizard

import (
	"errors"
	"strings"

	"github.com/google/uuid"

	"property-concierge/internal/common/metrics"
)

var (
	// ErrAlreadySubmitted guards against double submission: a wizard in its
	// terminal state refuses every further operation.
	ErrAlreadySubmitted = errors.New("form already submitted")

	// ErrAtFirstStep is returned by Retreat on step 1.
	ErrAtFirstStep = errors.New("cannot retreat from the first step")

	// ErrUnknownField is returned when a field name is not part of the spec.
	ErrUnknownField = errors.New("field not part of this form")
)

// Result reports the effect of an Advance call. Blocked results carry
// field-level messages so the caller can re-prompt; they are not errors.
type Result struct {
	Blocked     bool
	FieldErrors map[string]string

	// Submitted is true exactly once, on the advance that leaves the final
	// step. Fields then holds the completed field mapping.
	Submitted bool
	Fields    map[string]string
}

// Wizard is one in-flight form bound to a Spec. It is not safe for
// concurrent use; the workflow layer serializes access per form.
type Wizard struct {
	id        string
	spec      Spec
	step      int // 1-based
	fields    map[string]string
	touched   map[string]bool
	submitted bool
}

func New(spec Spec) *Wizard {
	return &Wizard{
		id:      uuid.New().String(),
		spec:    spec,
		step:    1,
		fields:  make(map[string]string),
		touched: make(map[string]bool),
	}
}

func (w *Wizard) ID() string      { return w.id }
func (w *Wizard) Kind() Kind      { return w.spec.Kind }
func (w *Wizard) Step() int       { return w.step }
func (w *Wizard) Steps() int      { return len(w.spec.Steps) }
func (w *Wizard) Submitted() bool { return w.submitted }

// Field returns the current value of a field, entered or not.
func (w *Wizard) Field(name string) string {
	return w.fields[name]
}

// Fields returns a copy of the entered field values.
func (w *Wizard) Fields() map[string]string {
	out := make(map[string]string, len(w.fields))
	for k, v := range w.fields {
		out[k] = v
	}
	return out
}

// Touched reports whether the field has ever been updated.
func (w *Wizard) Touched(name string) bool {
	return w.touched[name]
}

// UpdateField merges a value into the form without changing the step.
// Valid in any non-terminal state.
func (w *Wizard) UpdateField(name, value string) error {
	if w.submitted {
		return ErrAlreadySubmitted
	}
	if !w.knownField(name) {
		return ErrUnknownField
	}
	w.fields[name] = value
	w.touched[name] = true
	return nil
}

// Advance validates the current step. On failure it returns a blocked
// Result and leaves the state unchanged. On success it moves to the next
// step; advancing past the final step transitions to Submitted and emits
// the completed field mapping exactly once.
func (w *Wizard) Advance() (Result, error) {
	if w.submitted {
		return Result{}, ErrAlreadySubmitted
	}

	fieldErrors := w.validateStep(w.step)
	if len(fieldErrors) > 0 {
		metrics.ValidationBlocked.WithLabelValues(string(w.spec.Kind)).Inc()
		return Result{Blocked: true, FieldErrors: fieldErrors}, nil
	}

	if w.step < len(w.spec.Steps) {
		w.step++
		return Result{}, nil
	}

	w.submitted = true
	metrics.FormsSubmitted.WithLabelValues(string(w.spec.Kind)).Inc()
	return Result{Submitted: true, Fields: w.Fields()}, nil
}

// Retreat moves back one step. Entered values are preserved verbatim; a
// later Advance sees exactly the fields present before the Retreat.
func (w *Wizard) Retreat() error {
	if w.submitted {
		return ErrAlreadySubmitted
	}
	if w.step <= 1 {
		return ErrAtFirstStep
	}
	w.step--
	return nil
}

func (w *Wizard) knownField(name string) bool {
	for _, step := range w.spec.Steps {
		for _, f := range step.Fields {
			if f.Name == name {
				return true
			}
		}
	}
	return false
}

func (w *Wizard) validateStep(step int) map[string]string {
	fieldErrors := make(map[string]string)
	for _, f := range w.spec.Steps[step-1].Fields {
		value := w.fields[f.Name]
		if f.Optional && strings.TrimSpace(value) == "" {
			continue
		}
		for _, rule := range f.Rules {
			if err := rule.Validate(value); err != nil {
				fieldErrors[f.Name] = err.Error()
				break
			}
		}
	}
	if len(fieldErrors) == 0 {
		return nil
	}
	return fieldErrors
}
