package usecases

import (
	"github.com/google/uuid"

	domainerrors "bridge-kita.backend/internal/domain/errors"
)

func parseAttemptID(id string) (uuid.UUID, error) {
	parsed, err := uuid.Parse(id)
	if err != nil {
		return uuid.Nil, domainerrors.BadRequest("invalid transfer attempt id")
	}
	return parsed, nil
}
