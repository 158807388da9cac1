package handler

import (
	pkgvalidator "github.com/gracepointe/engage/pkg/validator"
)

func formatValidationError(err error) string {
	return pkgvalidator.FormatValidationError(err)
}
