package service

import (
	"bookhive_backend/internal/model"
	"bookhive_backend/internal/util"
	"errors"
	"testing"
)

func TestValidateWeeklyAvailability(t *testing.T) {
	tests := []struct {
		name    string
		slots   []model.AvailabilitySlot
		wantErr bool
	}{
		{"empty", nil, false},
		{"disjoint same day", []model.AvailabilitySlot{
			{Weekday: 1, Start: "09:00", End: "10:00"},
			{Weekday: 1, Start: "10:00", End: "11:00"},
		}, false},
		{"overlap same day", []model.AvailabilitySlot{
			{Weekday: 1, Start: "09:00", End: "10:30"},
			{Weekday: 1, Start: "10:00", End: "11:00"},
		}, true},
		{"same times different days", []model.AvailabilitySlot{
			{Weekday: 1, Start: "09:00", End: "10:00"},
			{Weekday: 2, Start: "09:00", End: "10:00"},
		}, false},
		{"containment", []model.AvailabilitySlot{
			{Weekday: 3, Start: "09:00", End: "17:00"},
			{Weekday: 3, Start: "12:00", End: "13:00"},
		}, true},
		{"inverted slot", []model.AvailabilitySlot{
			{Weekday: 1, Start: "14:00", End: "09:00"},
		}, true},
	}

	for _, tt := range tests {
		err := validateWeeklyAvailability(tt.slots)
		if tt.wantErr && !errors.Is(err, util.ErrAvailabilitySlotsOverlap) {
			t.Errorf("%s: err = %v, want overlap error", tt.name, err)
		}
		if !tt.wantErr && err != nil {
			t.Errorf("%s: unexpected error %v", tt.name, err)
		}
	}
}
