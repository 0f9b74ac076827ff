package core

import (
	"errors"
	"testing"
	"time"
)

func TestValidateItem(t *testing.T) {
	now := time.Now().UTC()

	tests := []struct {
		name    string
		item    *SearchableItem
		wantErr error
	}{
		{
			name: "valid item",
			item: &SearchableItem{
				Id:        "item-1",
				OcrText:   "invoice total 42",
				Memo:      "march groceries",
				Tags:      []string{"receipt", "food"},
				CreatedAt: now,
				UpdatedAt: now,
			},
		},
		{
			name: "valid item with zero timestamps",
			item: &SearchableItem{Id: "item-2"},
		},
		{
			name: "empty ocr text and memo are legal",
			item: &SearchableItem{Id: "item-3", CreatedAt: now},
		},
		{
			name:    "nil item",
			item:    nil,
			wantErr: ErrInvalidItem,
		},
		{
			name:    "empty id",
			item:    &SearchableItem{OcrText: "text"},
			wantErr: ErrEmptyID,
		},
		{
			name: "created_at in the future",
			item: &SearchableItem{
				Id:        "item-4",
				CreatedAt: now.Add(time.Hour),
			},
			wantErr: ErrInvalidTimestamp,
		},
		{
			name: "updated_at in the future",
			item: &SearchableItem{
				Id:        "item-5",
				CreatedAt: now,
				UpdatedAt: now.Add(time.Hour),
			},
			wantErr: ErrInvalidTimestamp,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateItem(tt.item)
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("ValidateItem() unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("ValidateItem() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}
