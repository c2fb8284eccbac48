package validator

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"hotelbooking/pkg/logger"
	"hotelbooking/pkg/model"

	"github.com/go-playground/validator/v10"
)

// MaxStaySpan is the longest allowed distance between start and end date.
const MaxStaySpan = 3 * 24 * time.Hour

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (v ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", v.Field, v.Message)
}

type ValidationErrors []ValidationError

func (v ValidationErrors) Error() string {
	if len(v) == 0 {
		return ""
	}
	var messages []string
	for _, err := range v {
		messages = append(messages, err.Error())
	}
	return fmt.Sprintf("validation failed: %d error(s): [%s]", len(v), strings.Join(messages, "; "))
}

type BookingValidator struct {
	validate *validator.Validate
	logger   *logger.Logger
}

func NewBookingValidator(log *logger.Logger) *BookingValidator {
	v := validator.New()
	v.RegisterTagNameFunc(jsonFieldName)

	if err := v.RegisterValidation("room_type", validateRoomType); err != nil {
		log.Fatal("Failed to register 'room_type' validator",
			"error", err,
		)
	}

	log.Debug("Booking validator initialized successfully")

	return &BookingValidator{
		validate: v,
		logger:   log,
	}
}

func jsonFieldName(field reflect.StructField) string {
	name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
	if name == "-" || name == "" {
		return field.Name
	}
	return name
}

// validateRoomType rejects blank names and names with surrounding whitespace.
func validateRoomType(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	return value != "" && strings.TrimSpace(value) == value
}

func (v *BookingValidator) Validate(req *model.BookingRequest) error {
	if err := v.validate.Struct(req); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			return v.translateValidationErrors(validationErrs)
		}
		return err
	}

	if errs := validateWindow(req.StartDate, req.EndDate, true); len(errs) > 0 {
		return errs
	}
	return nil
}

func (v *BookingValidator) ValidateUpdate(update *model.BookingUpdate) error {
	if err := v.validate.Struct(update); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			return v.translateValidationErrors(validationErrs)
		}
		return err
	}

	if update.StartDate != nil && update.StartDate.IsZero() {
		return ValidationErrors{{Field: "startDate", Message: "startDate is required"}}
	}
	if update.EndDate != nil && update.EndDate.IsZero() {
		return ValidationErrors{{Field: "endDate", Message: "endDate is required"}}
	}
	return nil
}

// ValidateWindow checks a merged booking window: both dates set, start before
// end and a span of at most MaxStaySpan.
func (v *BookingValidator) ValidateWindow(start, end time.Time) error {
	if errs := validateWindow(start, end, true); len(errs) > 0 {
		return errs
	}
	return nil
}

// ValidateQuery checks a read-only availability window. The span limit does
// not apply.
func (v *BookingValidator) ValidateQuery(start, end time.Time) error {
	if errs := validateWindow(start, end, false); len(errs) > 0 {
		return errs
	}
	return nil
}

func validateWindow(start, end time.Time, limitSpan bool) ValidationErrors {
	var errs ValidationErrors
	if start.IsZero() {
		errs = append(errs, ValidationError{Field: "startDate", Message: "startDate is required"})
	}
	if end.IsZero() {
		errs = append(errs, ValidationError{Field: "endDate", Message: "endDate is required"})
	}
	if len(errs) > 0 {
		return errs
	}

	if !end.After(start) {
		return ValidationErrors{{Field: "endDate", Message: "endDate must be after startDate"}}
	}
	if limitSpan && end.Sub(start) > MaxStaySpan {
		return ValidationErrors{{Field: "endDate", Message: "booking cannot span more than 3 days"}}
	}
	return nil
}

func (v *BookingValidator) translateValidationErrors(errs validator.ValidationErrors) ValidationErrors {
	var validationErrors ValidationErrors

	for _, err := range errs {
		message := err.Error()

		switch err.Tag() {
		case "required":
			message = fmt.Sprintf("%s is required", err.Field())
		case "min":
			message = fmt.Sprintf("%s must be at least %s", err.Field(), err.Param())
		case "max":
			message = fmt.Sprintf("%s must be at most %s", err.Field(), err.Param())
		case "mongodb":
			message = fmt.Sprintf("%s must be a valid MongoDB ObjectID", err.Field())
		case "oneof":
			message = fmt.Sprintf("%s must be one of: %s", err.Field(), err.Param())
		case "room_type":
			message = fmt.Sprintf("%s must be a non-blank name without surrounding spaces", err.Field())
		}

		validationErrors = append(validationErrors, ValidationError{
			Field:   err.Field(),
			Message: message,
		})
	}

	return validationErrors
}
