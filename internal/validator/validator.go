package validator

// Validator bundles struct validation and business rules for injection into
// services and handlers.
type Validator struct {
	business *BusinessValidator
}

// New creates a validator with all business rules registered.
func New() *Validator {
	return &Validator{
		business: NewBusinessValidator(),
	}
}

// GetBusinessValidator exposes the business rule validator.
func (v *Validator) GetBusinessValidator() *BusinessValidator {
	return v.business
}

// Validate runs basic struct validation.
func (v *Validator) Validate(s interface{}) ValidationErrors {
	return v.business.Validate(s)
}
