package department

import (
	"errors"
	"strings"

	departmenterrors "go-orgstructure/internal/department/errors"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

func mapRepositoryError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return departmenterrors.ErrDepartmentNotFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		if pgErr.Code == "23505" {
			switch pgErr.ConstraintName {
			case "uq_departments_code":
				return departmenterrors.ErrDepartmentCodeExists
			case "uq_departments_name":
				return departmenterrors.ErrDepartmentNameExists
			}
		}
	}

	errMsg := strings.ToLower(err.Error())
	if strings.Contains(errMsg, "duplicate key value") && strings.Contains(errMsg, "uq_departments_code") {
		return departmenterrors.ErrDepartmentCodeExists
	}
	if strings.Contains(errMsg, "duplicate key value") && strings.Contains(errMsg, "uq_departments_name") {
		return departmenterrors.ErrDepartmentNameExists
	}

	return err
}
