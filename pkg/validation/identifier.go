// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package validation checks user supplied names before they reach logs,
// span attributes or metric labels.
package validation

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

// IdentifierTag is the validator tag registered by RegisterIdentifier.
const IdentifierTag = "ident"

// identifierPattern allows a letter or underscore followed by up to 63
// letters, digits, underscores, dots or hyphens.
var identifierPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_.\-]{0,63}$`)

// ValidateIdentifier validates a variable, distance or trace name.
//
// Example:
//
//	if err := validation.ValidateIdentifier(name); err != nil {
//	    return fmt.Errorf("invalid distance: %w", err)
//	}
func ValidateIdentifier(name string) error {
	if name == "" {
		return fmt.Errorf("identifier cannot be empty")
	}
	if !identifierPattern.MatchString(name) {
		return fmt.Errorf("invalid identifier %q (letter or underscore, then up to 63 letters, digits, '_', '.' or '-')", name)
	}
	return nil
}

// ValidateIdentifiers validates every name and lists the invalid ones.
func ValidateIdentifiers(names []string) error {
	var invalid []string
	for _, n := range names {
		if err := ValidateIdentifier(n); err != nil {
			invalid = append(invalid, n)
		}
	}
	if len(invalid) > 0 {
		return fmt.Errorf("invalid identifiers: %q", invalid)
	}
	return nil
}

// SanitizeIdentifier trims surrounding space and validates the result.
func SanitizeIdentifier(name string) (string, error) {
	trimmed := strings.TrimSpace(name)
	if err := ValidateIdentifier(trimmed); err != nil {
		return "", err
	}
	return trimmed, nil
}

// RegisterIdentifier adds the "ident" tag to v. Empty strings pass so the
// tag composes with omitempty and required.
func RegisterIdentifier(v *validator.Validate) error {
	return v.RegisterValidation(IdentifierTag, func(fl validator.FieldLevel) bool {
		s := fl.Field().String()
		return s == "" || identifierPattern.MatchString(s)
	})
}
