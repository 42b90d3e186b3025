// Copyright 2025 The Wirespec Authors.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package wirespec

import "github.com/bufwire/wirespec/internal/wireenc"

// Encode serializes data against spec, back-patching any Variable whose
// Data value is [Auto] once the length or count it bounds is known. An
// Auto value used as a Switch selector is not resolved.
//
// Encode panics if data does not have the shape spec requires — these
// are bugs in the caller's Spec/Data pairing, not something a returned
// error would make more recoverable.
func Encode(spec Spec, data Data) []byte {
	return wireenc.Encode(spec.n, data.n)
}
