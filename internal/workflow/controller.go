// Package workflow orchestrates the conversational flow: catalog selection,
// form lifecycle, dispatch, and transcript updates.
package workflow

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"property-concierge/internal/catalog"
	stderrors "property-concierge/internal/common/errors"
	"property-concierge/internal/common/logger"
	"property-concierge/internal/dispatch"
	"property-concierge/internal/transcript"
	"property-concierge/internal/wizard"
)

// Sender is the dispatch boundary the controller depends on.
type Sender interface {
	Send(ctx context.Context, req *dispatch.Request) (dispatch.Outcome, error)
}

// Options carries the host-supplied workflow settings.
type Options struct {
	ViewingSlots  []string
	FallbackPhone string
	FallbackEmail string
}

type boundForm struct {
	wiz          *wizard.Wizard
	propertyName string
	property     catalog.Property
}

// Controller reacts to typed commands and appends the resulting turns. Form
// state mutations are serialized by one mutex; dispatch happens outside it
// so an in-flight send never blocks other transcript activity.
type Controller struct {
	catalog    catalog.Catalog
	transcript *transcript.Transcript
	sender     Sender
	logger     logger.Logger
	opts       Options

	mu          sync.Mutex
	forms       map[string]*boundForm
	subscribers []OutcomeSubscriber
}

func NewController(cat catalog.Catalog, tr *transcript.Transcript, sender Sender, log logger.Logger, opts Options) *Controller {
	return &Controller{
		catalog:    cat,
		transcript: tr,
		sender:     sender,
		logger:     log.WithFields(map[string]interface{}{"component": "workflow"}),
		opts:       opts,
		forms:      make(map[string]*boundForm),
	}
}

// SubscribeOutcome registers a callback invoked after each outcome turn.
func (c *Controller) SubscribeOutcome(s OutcomeSubscriber) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.subscribers = append(c.subscribers, s)
}

// Transcript exposes the session transcript for rendering.
func (c *Controller) Transcript() *transcript.Transcript {
	return c.transcript
}

// Names lists the catalog property names in catalog order.
func (c *Controller) Names() []string {
	return c.catalog.Names()
}

// Start appends the welcome turn listing every catalog property.
func (c *Controller) Start() transcript.Turn {
	names := c.catalog.Names()
	return c.transcript.Append(transcript.Turn{
		Origin:  transcript.OriginSystem,
		Kind:    transcript.KindMessage,
		Message: fmt.Sprintf("Welcome! Select a property to view details: %s", strings.Join(names, ", ")),
	})
}

// SelectProperty looks up the named property and appends its detail turn.
// An unknown name appends a diagnostic turn and returns a recoverable
// error; it never renders an empty detail view.
func (c *Controller) SelectProperty(name string) (transcript.Turn, error) {
	prop, err := c.catalog.Lookup(name)
	if err != nil {
		if errors.Is(err, catalog.ErrNotFound) {
			c.transcript.Append(transcript.Turn{
				Origin:       transcript.OriginSystem,
				Kind:         transcript.KindMessage,
				PropertyName: name,
				Message:      fmt.Sprintf("Sorry, we couldn't find a property called %q. Please pick one of the listed properties.", name),
			})
			return transcript.Turn{}, stderrors.NewPropertyNotFoundError(name)
		}
		return transcript.Turn{}, err
	}

	return c.transcript.Append(transcript.Turn{
		Origin:       transcript.OriginSystem,
		Kind:         transcript.KindPropertyDetail,
		PropertyName: name,
		Property:     &prop,
	}), nil
}

// OpenForm instantiates a wizard of the given kind bound to the property
// and appends the form turn. Multiple forms may be open concurrently, each
// with independent state.
func (c *Controller) OpenForm(kind wizard.Kind, propertyName string) (string, error) {
	prop, err := c.catalog.Lookup(propertyName)
	if err != nil {
		if errors.Is(err, catalog.ErrNotFound) {
			return "", stderrors.NewPropertyNotFoundError(propertyName)
		}
		return "", err
	}

	var spec wizard.Spec
	switch kind {
	case wizard.KindViewing:
		spec = wizard.ViewingSpec(c.opts.ViewingSlots)
	case wizard.KindBrochure:
		spec = wizard.BrochureSpec()
	default:
		return "", stderrors.NewInvalidFormKindError(string(kind))
	}

	wiz := wizard.New(spec)
	if kind == wizard.KindViewing {
		// Date is prefilled with the current day, matching the behavior of
		// the booking flow this engine replaces; the client may override it.
		_ = wiz.UpdateField(wizard.FieldDate, time.Now().Format("2006-01-02"))
	}

	c.mu.Lock()
	c.forms[wiz.ID()] = &boundForm{wiz: wiz, propertyName: propertyName, property: prop}
	c.mu.Unlock()

	c.transcript.Append(transcript.Turn{
		Origin:       transcript.OriginSystem,
		Kind:         transcript.KindForm,
		PropertyName: propertyName,
		FormID:       wiz.ID(),
		FormKind:     string(kind),
	})

	c.logger.Info("form opened", map[string]interface{}{
		"formId":   wiz.ID(),
		"formKind": string(kind),
		"property": propertyName,
	})
	return wiz.ID(), nil
}

// UpdateField merges a field value into the form.
func (c *Controller) UpdateField(formID, field, value string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	form, ok := c.forms[formID]
	if !ok {
		return stderrors.NewFormNotFoundError(formID)
	}
	return c.translate(formID, form.wiz.UpdateField(field, value))
}

// Retreat moves the form back one step, preserving entered values.
func (c *Controller) Retreat(formID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	form, ok := c.forms[formID]
	if !ok {
		return stderrors.NewFormNotFoundError(formID)
	}
	return c.translate(formID, form.wiz.Retreat())
}

// translate converts wizard sentinel errors into the standard taxonomy so
// nothing escapes the workflow layer as an unclassified fault.
func (c *Controller) translate(formID string, err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, wizard.ErrAlreadySubmitted):
		return stderrors.NewFormAlreadySubmittedError(formID)
	case errors.Is(err, wizard.ErrAtFirstStep):
		return stderrors.NewInvalidStepMoveError("already at the first step")
	case errors.Is(err, wizard.ErrUnknownField):
		return stderrors.NewInvalidStepMoveError(err.Error())
	default:
		return err
	}
}

// Advance validates the form's current step. A blocked result is returned
// for re-prompting, not surfaced as an error. When the final step passes,
// the notification request is built from the completed fields plus the
// bound property snapshot, dispatched, and the outcome turn appended —
// always strictly after the dispatch call returns.
func (c *Controller) Advance(ctx context.Context, formID string) (wizard.Result, error) {
	c.mu.Lock()
	form, ok := c.forms[formID]
	if !ok {
		c.mu.Unlock()
		return wizard.Result{}, stderrors.NewFormNotFoundError(formID)
	}
	result, err := form.wiz.Advance()
	kind := form.wiz.Kind()
	c.mu.Unlock()

	if err != nil {
		if errors.Is(err, wizard.ErrAlreadySubmitted) {
			return wizard.Result{}, stderrors.NewFormAlreadySubmittedError(formID)
		}
		return wizard.Result{}, err
	}
	if !result.Submitted {
		return result, nil
	}

	req, err := c.buildRequest(kind, form, result.Fields)
	if err != nil {
		// Unreachable as long as the wizard gates every field, but a
		// malformed request must never go out half-built.
		c.logger.Error("request construction failed", map[string]interface{}{
			"formId": formID,
			"error":  err.Error(),
		})
		c.appendFailureOutcome(formID, "", kind, form.propertyName)
		return result, stderrors.NewRequestBuildFailedError(err)
	}

	outcome, sendErr := c.sender.Send(ctx, req)
	var turn transcript.Turn
	if outcome == dispatch.OutcomeDelivered {
		turn = c.appendSuccessOutcome(formID, req, form.propertyName)
	} else {
		c.logger.Warn("dispatch transport failed", map[string]interface{}{
			"formId":       formID,
			"submissionId": req.SubmissionID,
			"error":        sendErr.Error(),
		})
		turn = c.appendFailureOutcome(formID, req.SubmissionID, kind, form.propertyName)
	}

	c.notifyOutcome(OutcomeEvent{
		FormID:       formID,
		SubmissionID: req.SubmissionID,
		RequestType:  req.Type,
		Outcome:      outcome,
		Turn:         turn,
	})
	return result, nil
}

func (c *Controller) buildRequest(kind wizard.Kind, form *boundForm, fields map[string]string) (*dispatch.Request, error) {
	switch kind {
	case wizard.KindViewing:
		return dispatch.NewViewingRequest(form.propertyName, form.property, fields)
	case wizard.KindBrochure:
		return dispatch.NewBrochureRequest(form.propertyName, form.property, fields)
	default:
		return nil, fmt.Errorf("unsupported form kind %q", kind)
	}
}

func (c *Controller) appendSuccessOutcome(formID string, req *dispatch.Request, propertyName string) transcript.Turn {
	var summary string
	var details []string

	switch req.Type {
	case dispatch.TypeViewing:
		summary = "Viewing request submitted successfully!"
		details = []string{
			fmt.Sprintf("Property: %s", propertyName),
			fmt.Sprintf("Date: %s", req.Viewing.Date),
			fmt.Sprintf("Time: %s", req.Viewing.Time),
			fmt.Sprintf("Name: %s", req.Client.Name),
			fmt.Sprintf("Email: %s", req.Client.Email),
			fmt.Sprintf("Phone: %s", req.Client.Phone),
			"A real estate agent will review your request and contact you shortly to confirm the viewing.",
		}
	case dispatch.TypeBrochure:
		summary = "Brochure request sent successfully!"
		details = []string{
			fmt.Sprintf("We'll send a detailed property brochure to %s.", req.Client.Email),
			fmt.Sprintf("Property: %s", propertyName),
			fmt.Sprintf("Reference: %s", req.Property.Ref),
			"Please check your email shortly. If you don't receive the brochure, please check your spam folder.",
		}
	}

	return c.transcript.Append(transcript.Turn{
		Origin:       transcript.OriginSystem,
		Kind:         transcript.KindOutcome,
		PropertyName: propertyName,
		FormID:       formID,
		Outcome: &transcript.Outcome{
			Delivered:    true,
			SubmissionID: req.SubmissionID,
			Summary:      summary,
			Details:      details,
		},
	})
}

func (c *Controller) appendFailureOutcome(formID, submissionID string, kind wizard.Kind, propertyName string) transcript.Turn {
	outcome := &transcript.Outcome{
		Delivered:     false,
		SubmissionID:  submissionID,
		FallbackEmail: c.opts.FallbackEmail,
	}
	switch kind {
	case wizard.KindViewing:
		outcome.Summary = "Unable to submit viewing request"
		outcome.Details = []string{"We're having trouble submitting your viewing request. Please try again or contact us directly."}
		outcome.FallbackPhone = c.opts.FallbackPhone
	case wizard.KindBrochure:
		outcome.Summary = "Unable to send brochure"
		outcome.Details = []string{"We're having trouble sending the brochure. Please try again or contact us directly."}
	}

	return c.transcript.Append(transcript.Turn{
		Origin:       transcript.OriginSystem,
		Kind:         transcript.KindOutcome,
		PropertyName: propertyName,
		FormID:       formID,
		Outcome:      outcome,
	})
}

func (c *Controller) notifyOutcome(ev OutcomeEvent) {
	c.mu.Lock()
	subs := make([]OutcomeSubscriber, len(c.subscribers))
	copy(subs, c.subscribers)
	c.mu.Unlock()
	for _, s := range subs {
		s(ev)
	}
}
