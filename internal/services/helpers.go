package services

import (
	"errors"

	"github.com/google/uuid"

	"github.com/gravadigital/convite-api/internal/validation"
)

// parseID validates a path or body identifier
func parseID(raw, field string) (uuid.UUID, error) {
	id, err := uuid.Parse(raw)
	if err != nil {
		errs := validation.FieldErrors{}
		errs.Add(field, errors.New(field+" must be a valid UUID"))
		return uuid.Nil, errs
	}
	return id, nil
}
