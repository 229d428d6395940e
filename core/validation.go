// Copyright 2026 Uzhavan Labs
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

import "fmt"

// ValidatePage validates a catalog page according to domain rules.
//
// Validation rules:
//   - Name must not be empty
//
// NOT validated:
//   - Keywords (a page without keywords contributes no candidates but still
//     participates in zero-match fallbacks)
//   - Description and ActionMessage (purely presentational)
func ValidatePage(page *Page) error {
	if page == nil {
		return fmt.Errorf("%w: page is nil", ErrMalformedCatalog)
	}

	if page.Name == "" {
		return fmt.Errorf("%w: %w", ErrMalformedCatalog, ErrMissingPageName)
	}

	return nil
}
