package changerequest

import (
	"errors"
	"strings"

	changerequesterrors "go-orgstructure/internal/changerequest/errors"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

func mapRepositoryError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return changerequesterrors.ErrRequestNotFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		if pgErr.Code == "23505" && pgErr.ConstraintName == "uq_change_requests_number" {
			return changerequesterrors.ErrDuplicateRequestNumber
		}
	}

	errMsg := strings.ToLower(err.Error())
	if strings.Contains(errMsg, "duplicate key value") && strings.Contains(errMsg, "uq_change_requests_number") {
		return changerequesterrors.ErrDuplicateRequestNumber
	}

	return err
}
