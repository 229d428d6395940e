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

import "errors"

// Catalog validation errors
var (
	// ErrMalformedCatalog indicates the catalog source could not be parsed
	// or is structurally invalid.
	ErrMalformedCatalog = errors.New("malformed catalog")

	// ErrEmptyCatalog indicates a catalog with no pages.
	ErrEmptyCatalog = errors.New("catalog contains no pages")

	// ErrMissingPageName indicates a page entry without a name.
	ErrMissingPageName = errors.New("page name cannot be empty")

	// ErrCandidateMismatch indicates the candidate list and its vector list
	// diverged in length. This is a defect, never a recoverable condition.
	ErrCandidateMismatch = errors.New("candidate and vector counts differ")
)
