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

import "image"

// dilate3x3 sets each pixel to the maximum of its 3x3 neighborhood.
// Out-of-bounds neighbors are ignored.
func dilate3x3(g *image.Gray) *image.Gray {
	return morph3x3(g, func(best, v uint8) bool { return v > best })
}

// erode3x3 sets each pixel to the minimum of its 3x3 neighborhood.
func erode3x3(g *image.Gray) *image.Gray {
	return morph3x3(g, func(best, v uint8) bool { return v < best })
}

func morph3x3(g *image.Gray, better func(best, v uint8) bool) *image.Gray {
	bounds := g.Bounds()
	out := image.NewGray(bounds)
	w := bounds.Dx()
	h := bounds.Dy()

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			best := g.Pix[y*g.Stride+x]
			for dy := -1; dy <= 1; dy++ {
				ny := y + dy
				if ny < 0 || ny >= h {
					continue
				}
				for dx := -1; dx <= 1; dx++ {
					nx := x + dx
					if nx < 0 || nx >= w {
						continue
					}
					if v := g.Pix[ny*g.Stride+nx]; better(best, v) {
						best = v
					}
				}
			}
			out.Pix[y*out.Stride+x] = best
		}
	}
	return out
}
