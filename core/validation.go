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
	"time"
)

// clockSkewTolerance allows for small clock differences between the
// host application and this process when validating timestamps.
const clockSkewTolerance = 5 * time.Minute

// ValidateItem validates a SearchableItem according to domain rules.
//
// Validation rules:
//   - Id must not be empty
//   - CreatedAt and UpdatedAt must not be in the future
//
// NOT validated:
//   - OcrText and Memo (empty text is legal; the item is still findable
//     through its other fields)
//   - ImagePath (payload only, never interpreted)
func ValidateItem(item *SearchableItem) error {
	if item == nil {
		return fmt.Errorf("%w: item is nil", ErrInvalidItem)
	}
	if item.Id == "" {
		return fmt.Errorf("%w: %w", ErrInvalidItem, ErrEmptyID)
	}

	horizon := time.Now().Add(clockSkewTolerance)
	if !item.CreatedAt.IsZero() && item.CreatedAt.After(horizon) {
		return fmt.Errorf("%w: created_at: %w", ErrInvalidItem, ErrInvalidTimestamp)
	}
	if !item.UpdatedAt.IsZero() && item.UpdatedAt.After(horizon) {
		return fmt.Errorf("%w: updated_at: %w", ErrInvalidItem, ErrInvalidTimestamp)
	}
	return nil
}
