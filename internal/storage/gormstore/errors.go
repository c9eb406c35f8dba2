package gormstore

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/gravadigital/convite-api/internal/domain/common"
)

// wrap maps gorm.ErrRecordNotFound onto the domain sentinel and adds context
func wrap(op string, err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%s: %w", op, common.ErrNotFound)
	}
	return fmt.Errorf("%s: %w", op, err)
}
