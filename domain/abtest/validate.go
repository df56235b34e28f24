package abtest

import (
	stderrors "errors"
	"sync"

	"github.com/go-playground/validator/v10"

	"abtest/internal/errors"
)

// Boundary validation messages
const (
	MsgSizesNotPositive    = "Sample sizes must be positive numbers"
	MsgNegativeConversions = "Conversion counts cannot be negative"
	MsgConversionsExceed   = "Conversion counts cannot exceed sample sizes"
)

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

func inputValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
	})
	return validate
}

// Validate rejects inputs the engine contract excludes: non-positive sizes,
// negative conversions and conversions above the group size.
func (in Input) Validate() error {
	err := inputValidator().Struct(in)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !stderrors.As(err, &fieldErrs) {
		return errors.Wrap(err, "input validation failed")
	}

	// Report the most fundamental violation first
	tags := make(map[string]bool, len(fieldErrs))
	for _, fe := range fieldErrs {
		tags[fe.Tag()] = true
	}
	switch {
	case tags["gt"]:
		return errors.ValidationError(MsgSizesNotPositive)
	case tags["gte"]:
		return errors.ValidationError(MsgNegativeConversions)
	case tags["ltefield"]:
		return errors.ValidationError(MsgConversionsExceed)
	}
	return errors.ValidationError(fieldErrs.Error())
}
