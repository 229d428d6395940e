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


package ai

import "errors"

// ErrEncodingUnavailable indicates the embedding backend could not produce a
// vector: the service is unreachable, rejected the request, or returned a
// malformed response. Callers treat this as fatal during index construction
// and as a request failure during query handling; it is never retried
// silently.
var ErrEncodingUnavailable = errors.New("embedding service unavailable")
