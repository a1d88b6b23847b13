package validator

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"salonhub/pkg/logger"
	"salonhub/pkg/model"
)

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

	if err := v.RegisterValidation("member_label", validateMemberLabel); err != nil {
		log.Fatal("Failed to register 'member_label' validator",
			"error", err,
		)
	}

	log.Info("Booking validator initialized successfully")

	return &BookingValidator{
		validate: v,
		logger:   log,
	}
}

// validateMemberLabel rejects labels that are blank after trimming.
// The min/max tags only see raw length, so "   " would pass them.
func validateMemberLabel(fl validator.FieldLevel) bool {
	return strings.TrimSpace(fl.Field().String()) != ""
}

// ValidateRequest checks a composition request before any catalog
// lookup happens. Pricing-level checks (unknown services, provider
// mismatch) are left to the service layer which holds the snapshot.
func (v *BookingValidator) ValidateRequest(req *model.BookingRequest, now time.Time) error {
	if err := v.validate.Struct(req); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			return v.translateValidationErrors(validationErrs)
		}
		return err
	}

	if !req.ScheduledAt.After(now) {
		return ValidationErrors{
			ValidationError{
				Field:   "ScheduledAt",
				Message: "scheduled_at must be in the future",
			},
		}
	}

	seen := make(map[string]struct{}, len(req.GroupMembers))
	for _, member := range req.GroupMembers {
		label := strings.ToLower(strings.TrimSpace(member.Label))
		if label == "" {
			return ValidationErrors{
				ValidationError{
					Field:   "GroupMembers",
					Message: "member labels cannot be blank",
				},
			}
		}
		if _, dup := seen[label]; dup {
			return ValidationErrors{
				ValidationError{
					Field:   "GroupMembers",
					Message: fmt.Sprintf("duplicate member label: %s", member.Label),
				},
			}
		}
		seen[label] = struct{}{}
	}

	if !req.PaymentConfirmed {
		return ValidationErrors{
			ValidationError{
				Field:   "PaymentConfirmed",
				Message: "payment must be confirmed before composing a booking",
			},
		}
	}

	return nil
}

// ValidateBooking checks a fully composed booking right before it is
// persisted.
func (v *BookingValidator) ValidateBooking(booking *model.Booking) error {
	if err := v.validate.Struct(booking); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			return v.translateValidationErrors(validationErrs)
		}
		return err
	}

	if !booking.AmountsConsistent() {
		return ValidationErrors{
			ValidationError{
				Field:   "TotalAmount",
				Message: "total_amount must equal subtotal + platform_fee + home_service_fee",
			},
		}
	}

	if booking.PeopleCount != len(booking.GroupDetails) {
		return ValidationErrors{
			ValidationError{
				Field:   "PeopleCount",
				Message: fmt.Sprintf("people_count (%d) does not match group size (%d)", booking.PeopleCount, len(booking.GroupDetails)),
			},
		}
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
		case "gte":
			message = fmt.Sprintf("%s must be at least %s", err.Field(), err.Param())
		case "mongodb":
			message = fmt.Sprintf("%s must be a valid MongoDB ObjectID", err.Field())
		case "uuid4":
			message = fmt.Sprintf("%s must be a valid UUID", err.Field())
		case "oneof":
			message = fmt.Sprintf("%s must be one of: %s", err.Field(), err.Param())
		case "unique":
			message = fmt.Sprintf("%s must not contain duplicates", err.Field())
		}

		validationErrors = append(validationErrors, ValidationError{
			Field:   err.Field(),
			Message: message,
		})
	}

	return validationErrors
}
