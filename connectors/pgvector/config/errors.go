package config

import (
	"github.com/joomcode/errorx"
)

// Validation error kinds. Every violation found in a configuration document is reported
// as one of these types, carrying the dot-path of the offending field, so a single
// corrected document can be resubmitted without iterative trial-and-error.
var (
	Errors = errorx.NewNamespace("config")

	// MissingRequiredField - a required key is absent
	MissingRequiredField = Errors.NewType("missing_required_field")
	// UnknownVariantTag - a `mode` discriminator holds a value outside the known literals
	UnknownVariantTag = Errors.NewType("unknown_variant_tag")
	// AmbiguousVariant - a tagged union object has no `mode` discriminator at all
	AmbiguousVariant = Errors.NewType("ambiguous_variant")
	// OutOfRangeValue - a scalar violates its declared bounds
	OutOfRangeValue = Errors.NewType("out_of_range_value")
	// TypeMismatch - a value has the wrong JSON type
	TypeMismatch = Errors.NewType("type_mismatch")
	// MalformedMappingEntry - a field_name_mappings element is not a complete {from_field, to_field} pair
	MalformedMappingEntry = Errors.NewType("malformed_mapping_entry")

	// PathProperty carries the dot-path of the violating field
	PathProperty = errorx.RegisterProperty("path")
	// ValueProperty carries the offending value
	ValueProperty = errorx.RegisterProperty("value")
	// RangeProperty carries the allowed range as [min, max]
	RangeProperty = errorx.RegisterProperty("range")
)

// ErrorPath extracts the field path attached to a validation error
func ErrorPath(err error) (string, bool) {
	ex := errorx.Cast(err)
	if ex == nil {
		return "", false
	}
	v, ok := ex.Property(PathProperty)
	if !ok {
		return "", false
	}
	path, ok := v.(string)
	return path, ok
}
