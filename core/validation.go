// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package core

import (
	"fmt"
	"strings"
)

// ValidateProfile validates a Profile according to domain rules.
//
// Validation rules:
//   - Email must not be empty or whitespace
//
// NOT validated (populated by the pipeline):
//   - Embedding (can be empty until the embedding stage runs)
//   - CvPath (set at persistence time)
//   - ID (0 is valid from database sequences)
//
// Every other extracted field is best-effort and may be absent.
func ValidateProfile(profile *Profile) error {
	if profile == nil {
		return fmt.Errorf("%w: profile is nil", ErrInvalidProfile)
	}

	if strings.TrimSpace(profile.Email) == "" {
		return fmt.Errorf("%w: %w", ErrInvalidProfile, ErrMissingEmail)
	}

	return nil
}

// ValidateStoredProfile validates a Profile that is about to be persisted.
// In addition to the ValidateProfile rules, a stored profile must reference
// its source document.
func ValidateStoredProfile(profile *Profile) error {
	if err := ValidateProfile(profile); err != nil {
		return err
	}

	if profile.CvPath == "" {
		return fmt.Errorf("%w: %w", ErrInvalidProfile, ErrMissingCvPath)
	}

	return nil
}
