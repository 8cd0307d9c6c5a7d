package profile

import (
	"errors"
	"strings"

	profileerrors "dataguard-hris/internal/profile/errors"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

func mapRepositoryError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return profileerrors.ErrStaffNotFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		if pgErr.Code == "23505" {
			switch pgErr.ConstraintName {
			case "uq_core_details_staff_number":
				return profileerrors.ErrStaffNumberAlreadyExists
			case "idx_profiles_email":
				return profileerrors.ErrStaffAlreadyExists
			}
		}
	}

	errMsg := strings.ToLower(err.Error())
	if strings.Contains(errMsg, "duplicate key value") && strings.Contains(errMsg, "staff_number") {
		return profileerrors.ErrStaffNumberAlreadyExists
	}
	if strings.Contains(errMsg, "duplicate key value") && strings.Contains(errMsg, "email") {
		return profileerrors.ErrStaffAlreadyExists
	}

	return err
}
