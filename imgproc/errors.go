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


package imgproc

import "errors"

var (
	// ErrDecodeFailed is returned when the input bytes are not a
	// supported image format.
	ErrDecodeFailed = errors.New("image decode failed")

	// ErrEncodeFailed is returned when the output image cannot be encoded.
	ErrEncodeFailed = errors.New("image encode failed")

	// ErrInvalidDimensions is returned when a resize target is smaller
	// than one pixel.
	ErrInvalidDimensions = errors.New("invalid target dimensions")
)
