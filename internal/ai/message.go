// Package ai drafts personalized guest messages with a hosted language model.
package ai

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/gravadigital/convite-api/internal/validation"
)

var (
	// ErrNotConfigured is returned when no model credentials are set
	ErrNotConfigured = errors.New("message generation is not configured")
	// ErrEmptyOutput is returned when the model answers with no text
	ErrEmptyOutput = errors.New("model returned an empty message")
	// ErrUpstream wraps failures of the model provider
	ErrUpstream = errors.New("message generation failed")
)

// Kind is the purpose of the drafted message
type Kind string

const (
	KindThankYou Kind = "thank-you"
	KindReminder Kind = "reminder"
	KindGeneral  Kind = "general-communication"
)

// ParseKind validates a message kind; empty means general
func ParseKind(s string) (Kind, error) {
	switch k := Kind(strings.ToLower(strings.TrimSpace(s))); k {
	case "", "general":
		return KindGeneral, nil
	case KindThankYou, KindReminder, KindGeneral:
		return k, nil
	default:
		return "", fmt.Errorf("unknown message kind %q", s)
	}
}

// GiftDetail describes a gift the guest gave
type GiftDetail struct {
	Name        string  `json:"name"`
	Description string  `json:"description,omitempty"`
	Value       float64 `json:"value,omitempty"`
}

// MessageRequest is everything the prompt can mention
type MessageRequest struct {
	GuestName  string       `json:"guest_name"`
	Kind       Kind         `json:"kind"`
	Attending  *bool        `json:"attending,omitempty"`
	Companions int          `json:"companions,omitempty"`
	Gifts      []GiftDetail `json:"gifts,omitempty"`
	Context    string       `json:"context,omitempty"`

	// Couple is filled from the event settings
	Couple string `json:"-"`
}

// Validate checks the request before spending a model call
func (r *MessageRequest) Validate() error {
	errs := validation.FieldErrors{}
	errs.Add("guest_name", validation.ValidateMinLength(r.GuestName, 2, "guest name"))
	if r.Companions < 0 {
		errs.Add("companions", errors.New("companions cannot be negative"))
	}
	for i, g := range r.Gifts {
		errs.Add(fmt.Sprintf("gifts[%d].name", i), validation.ValidateRequired(g.Name, "gift name"))
		if g.Value < 0 {
			errs.Add(fmt.Sprintf("gifts[%d].value", i), errors.New("gift value cannot be negative"))
		}
	}
	errs.Add("context", validation.ValidateMaxLength(r.Context, 2000, "context"))
	return errs.OrNil()
}

// Generator drafts one message per call. Implementations make a single
// attempt and do not retry.
type Generator interface {
	Generate(ctx context.Context, req MessageRequest) (string, error)
}

// Disabled is the Generator used when no API key is configured
type Disabled struct{}

func (Disabled) Generate(context.Context, MessageRequest) (string, error) {
	return "", ErrNotConfigured
}
