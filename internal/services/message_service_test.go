package services

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gravadigital/convite-api/internal/ai"
	"github.com/gravadigital/convite-api/internal/domain/common"
	"github.com/gravadigital/convite-api/internal/domain/rsvp"
	"github.com/gravadigital/convite-api/internal/validation"
)

type fakeGenerator struct {
	got  ai.MessageRequest
	text string
	err  error
}

func (g *fakeGenerator) Generate(_ context.Context, req ai.MessageRequest) (string, error) {
	g.got = req
	return g.text, g.err
}

func TestGenerateMessage(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	gen := &fakeGenerator{text: "Obrigado pela presença!"}
	svc := NewMessageService(gen, f.store.RSVPs(), f.store.Gifts(), f.store.Settings(), f.metrics)

	_, err := f.svc.Settings.SaveEvent(ctx, EventRequest{BrideName: "Ana", GroomName: "Bruno"})
	require.NoError(t, err)

	rec := &rsvp.RSVP{
		FullName:       "Carla Dias",
		IsAttending:    true,
		NumberOfGuests: 2,
		GuestNames:     []rsvp.Companion{{Name: "Lia"}, {Name: "Rui"}},
	}
	require.NoError(t, f.store.RSVPs().Create(ctx, rec))

	g, err := f.svc.Gifts.Create(ctx, GiftRequest{Name: "Jogo de panelas", Price: 320, ExternalLink: "https://loja.example.com/p"})
	require.NoError(t, err)

	out, err := svc.Generate(ctx, GenerateRequest{
		RSVPID:  rec.ID.String(),
		Kind:    "thank-you",
		GiftIDs: []string{g.ID.String()},
	})
	require.NoError(t, err)
	assert.Equal(t, "Obrigado pela presença!", out.Message)
	assert.Equal(t, ai.KindThankYou, out.Kind)

	assert.Equal(t, "Carla Dias", gen.got.GuestName)
	require.NotNil(t, gen.got.Attending)
	assert.True(t, *gen.got.Attending)
	assert.Equal(t, 2, gen.got.Companions)
	assert.Equal(t, "Ana & Bruno", gen.got.Couple)
	require.Len(t, gen.got.Gifts, 1)
	assert.Equal(t, 320.0, gen.got.Gifts[0].Value)
	assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.Generations.WithLabelValues("ok")))
}

func TestGenerateMessageErrors(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.Messages.Generate(ctx, GenerateRequest{GuestName: "Carla", Kind: "poem"})
	assert.ErrorIs(t, err, validation.ErrValidation)

	_, err = f.svc.Messages.Generate(ctx, GenerateRequest{GuestName: "C"})
	assert.ErrorIs(t, err, validation.ErrValidation)

	_, err = f.svc.Messages.Generate(ctx, GenerateRequest{RSVPID: uuid.NewString()})
	assert.ErrorIs(t, err, common.ErrNotFound)

	_, err = f.svc.Messages.Generate(ctx, GenerateRequest{GuestName: "Carla Dias"})
	assert.ErrorIs(t, err, ai.ErrNotConfigured)
	assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.Generations.WithLabelValues("disabled")))

	upstream := &fakeGenerator{err: errors.Join(ai.ErrUpstream, errors.New("quota"))}
	svc := NewMessageService(upstream, f.store.RSVPs(), f.store.Gifts(), f.store.Settings(), f.metrics)
	_, err = svc.Generate(ctx, GenerateRequest{GuestName: "Carla Dias", Kind: "reminder"})
	assert.ErrorIs(t, err, ai.ErrUpstream)
	assert.Equal(t, ai.KindReminder, upstream.got.Kind)
	assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.Generations.WithLabelValues("error")))
}
