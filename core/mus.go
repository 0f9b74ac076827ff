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
	"time"

	"github.com/mus-format/mus-go/ord"
	"github.com/mus-format/mus-go/varint"
)

// SearchableItemMUS serializes SearchableItem values in the MUS binary
// format for catalog storage. Timestamps are stored as Unix
// microseconds; sub-microsecond precision is not preserved.
var SearchableItemMUS = searchableItemMUS{}

type searchableItemMUS struct{}

func (s searchableItemMUS) Marshal(v SearchableItem, bs []byte) (n int) {
	n = ord.String.Marshal(v.Id, bs)
	n += ord.String.Marshal(v.OcrText, bs[n:])
	n += ord.String.Marshal(v.Memo, bs[n:])
	n += varint.Int.Marshal(len(v.Tags), bs[n:])
	for _, tag := range v.Tags {
		n += ord.String.Marshal(tag, bs[n:])
	}
	n += ord.String.Marshal(v.LocationName, bs[n:])
	n += ord.String.Marshal(v.GroupTitle, bs[n:])
	n += ord.String.Marshal(v.ImagePath, bs[n:])
	n += varint.Int64.Marshal(timeToMicro(v.CreatedAt), bs[n:])
	n += varint.Int64.Marshal(timeToMicro(v.UpdatedAt), bs[n:])
	return n
}

func (s searchableItemMUS) Unmarshal(bs []byte) (v SearchableItem, n int, err error) {
	var n1 int
	if v.Id, n, err = ord.String.Unmarshal(bs); err != nil {
		return
	}
	if v.OcrText, n1, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return
	}
	n += n1
	if v.Memo, n1, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return
	}
	n += n1
	var count int
	if count, n1, err = varint.Int.Unmarshal(bs[n:]); err != nil {
		return
	}
	n += n1
	if count > 0 {
		v.Tags = make([]string, count)
		for i := 0; i < count; i++ {
			if v.Tags[i], n1, err = ord.String.Unmarshal(bs[n:]); err != nil {
				return
			}
			n += n1
		}
	}
	if v.LocationName, n1, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return
	}
	n += n1
	if v.GroupTitle, n1, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return
	}
	n += n1
	if v.ImagePath, n1, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return
	}
	n += n1
	var micros int64
	if micros, n1, err = varint.Int64.Unmarshal(bs[n:]); err != nil {
		return
	}
	n += n1
	v.CreatedAt = microToTime(micros)
	if micros, n1, err = varint.Int64.Unmarshal(bs[n:]); err != nil {
		return
	}
	n += n1
	v.UpdatedAt = microToTime(micros)
	return
}

func (s searchableItemMUS) Size(v SearchableItem) (size int) {
	size = ord.String.Size(v.Id)
	size += ord.String.Size(v.OcrText)
	size += ord.String.Size(v.Memo)
	size += varint.Int.Size(len(v.Tags))
	for _, tag := range v.Tags {
		size += ord.String.Size(tag)
	}
	size += ord.String.Size(v.LocationName)
	size += ord.String.Size(v.GroupTitle)
	size += ord.String.Size(v.ImagePath)
	size += varint.Int64.Size(timeToMicro(v.CreatedAt))
	size += varint.Int64.Size(timeToMicro(v.UpdatedAt))
	return size
}

// timeToMicro encodes a timestamp as Unix microseconds, with the zero
// time mapped to zero so it round-trips as a zero time.
func timeToMicro(t time.Time) int64 {
	if t.IsZero() {
		return 0
	}
	return t.UnixMicro()
}

func microToTime(micros int64) time.Time {
	if micros == 0 {
		return time.Time{}
	}
	return time.UnixMicro(micros).UTC()
}
