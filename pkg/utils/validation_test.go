package utils

import (
	"testing"
	"time"
)

type sampleRequest struct {
	Email     string    `json:"email" validate:"required,email"`
	SlotID    string    `json:"slot_id" validate:"required,uuid4"`
	StartTime time.Time `json:"start_time" validate:"required"`
	EndTime   time.Time `json:"end_time" validate:"required,gtfield=StartTime"`
}

func TestValidateStruct(t *testing.T) {
	start := time.Now()

	valid := sampleRequest{
		Email:     "juan@example.com",
		SlotID:    GenerateUUID().String(),
		StartTime: start,
		EndTime:   start.Add(time.Hour),
	}
	if errs := ValidateStruct(valid); len(errs) != 0 {
		t.Fatalf("valid struct produced errors: %v", errs)
	}

	invalid := sampleRequest{
		Email:     "not-an-email",
		SlotID:    "not-a-uuid",
		StartTime: start,
		EndTime:   start.Add(-time.Hour),
	}
	errs := ValidateStruct(invalid)
	for _, field := range []string{"Email", "SlotID", "EndTime"} {
		if _, ok := errs[field]; !ok {
			t.Errorf("missing validation error for %s: %v", field, errs)
		}
	}
}

func TestParseInt(t *testing.T) {
	tests := []struct {
		in   string
		def  int
		want int
	}{
		{"", 10, 10},
		{"25", 10, 25},
		{"abc", 10, 10},
		{"0", 10, 10},
		{"-3", 10, 10},
	}

	for _, tt := range tests {
		if got := ParseInt(tt.in, tt.def); got != tt.want {
			t.Errorf("ParseInt(%q, %d) = %d, want %d", tt.in, tt.def, got, tt.want)
		}
	}
}
