package services

import (
	"context"
	"errors"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/gravadigital/convite-api/internal/ai"
	"github.com/gravadigital/convite-api/internal/domain/gift"
	"github.com/gravadigital/convite-api/internal/domain/rsvp"
	"github.com/gravadigital/convite-api/internal/domain/settings"
	"github.com/gravadigital/convite-api/internal/logger"
	"github.com/gravadigital/convite-api/internal/metrics"
	"github.com/gravadigital/convite-api/internal/validation"
)

// MessageService drafts guest messages with the configured generator
type MessageService struct {
	generator ai.Generator
	rsvps     rsvp.Repository
	gifts     gift.Repository
	settings  settings.Repository
	metrics   *metrics.Metrics
	log       *log.Logger
}

// NewMessageService creates a new message service
func NewMessageService(generator ai.Generator, rsvps rsvp.Repository, gifts gift.Repository, repo settings.Repository, m *metrics.Metrics) *MessageService {
	return &MessageService{
		generator: generator,
		rsvps:     rsvps,
		gifts:     gifts,
		settings:  repo,
		metrics:   m,
		log:       logger.Service("message"),
	}
}

// GenerateRequest asks for one message. RSVPID fills the guest details
// from the ledger; GiftIDs add registry items to the explicit Gifts.
type GenerateRequest struct {
	RSVPID     string          `json:"rsvp_id"`
	GuestName  string          `json:"guest_name"`
	Kind       string          `json:"kind"`
	Attending  *bool           `json:"attending"`
	Companions int             `json:"companions"`
	GiftIDs    []string        `json:"gift_ids"`
	Gifts      []ai.GiftDetail `json:"gifts"`
	Context    string          `json:"context"`
}

// GeneratedMessage is the drafted text
type GeneratedMessage struct {
	Message string  `json:"message"`
	Kind    ai.Kind `json:"kind"`
}

// Generate builds the prompt request and makes a single model call
func (s *MessageService) Generate(ctx context.Context, req GenerateRequest) (*GeneratedMessage, error) {
	msg, err := s.build(ctx, req)
	if err != nil {
		return nil, err
	}

	text, err := s.generator.Generate(ctx, *msg)
	if err != nil {
		switch {
		case errors.Is(err, ai.ErrNotConfigured):
			s.metrics.ObserveGeneration("disabled")
		default:
			s.metrics.ObserveGeneration("error")
			s.log.Error("Message generation failed", "guest", msg.GuestName, "kind", msg.Kind, "error", err)
		}
		return nil, err
	}

	s.metrics.ObserveGeneration("ok")
	return &GeneratedMessage{Message: text, Kind: msg.Kind}, nil
}

func (s *MessageService) build(ctx context.Context, req GenerateRequest) (*ai.MessageRequest, error) {
	kind, err := ai.ParseKind(req.Kind)
	if err != nil {
		errs := validation.FieldErrors{}
		errs.Add("kind", err)
		return nil, errs
	}

	msg := &ai.MessageRequest{
		GuestName:  strings.TrimSpace(req.GuestName),
		Kind:       kind,
		Attending:  req.Attending,
		Companions: req.Companions,
		Gifts:      append([]ai.GiftDetail(nil), req.Gifts...),
		Context:    strings.TrimSpace(req.Context),
	}

	if req.RSVPID != "" {
		id, err := parseID(req.RSVPID, "rsvp_id")
		if err != nil {
			return nil, err
		}
		rec, err := s.rsvps.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}
		if msg.GuestName == "" {
			msg.GuestName = rec.FullName
		}
		attending := rec.IsAttending
		msg.Attending = &attending
		msg.Companions = rec.NumberOfGuests
	}

	for _, raw := range req.GiftIDs {
		id, err := parseID(raw, "gift_ids")
		if err != nil {
			return nil, err
		}
		g, err := s.gifts.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}
		msg.Gifts = append(msg.Gifts, ai.GiftDetail{Name: g.Name, Description: g.Description, Value: g.Price})
	}

	event, err := s.settings.GetEvent(ctx)
	if err != nil {
		return nil, err
	}
	msg.Couple = couple(event)

	if err := msg.Validate(); err != nil {
		return nil, err
	}
	return msg, nil
}

func couple(e *settings.EventSettings) string {
	names := make([]string, 0, 2)
	for _, n := range []string{e.BrideName, e.GroomName} {
		if n = strings.TrimSpace(n); n != "" {
			names = append(names, n)
		}
	}
	return strings.Join(names, " & ")
}
