package timeutil

import (
	"testing"
	"time"
)

func TestDateTime(t *testing.T) {
	refTime := time.Date(1985, 4, 12, 23, 20, 50, int(520*time.Millisecond), time.UTC)

	dateTime := FormatDateTime(refTime)
	parsed, err := ParseDateTime(dateTime)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if !refTime.Equal(parsed) {
		t.Errorf("expected %v, got %v", refTime, parsed)
	}
}

func TestHTTPDate(t *testing.T) {
	refTime := time.Date(2014, 4, 29, 18, 30, 38, 0, time.UTC)

	httpDate := FormatHTTPDate(refTime)
	if e, a := "Tue, 29 Apr 2014 18:30:38 GMT", httpDate; e != a {
		t.Errorf("expected %v, got %v", e, a)
	}

	parsed, err := ParseHTTPDate(httpDate)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if !refTime.Equal(parsed) {
		t.Errorf("expected %v, got %v", refTime, parsed)
	}
}

func TestEpochSeconds(t *testing.T) {
	refTime := time.Date(2018, 1, 9, 20, 51, 21, 1e8, time.UTC)
	seconds := FormatEpochSeconds(refTime)
	if e, a := 1515531081.1, seconds; e != a {
		t.Errorf("expected %v, got %v", e, a)
	}
	if parsed := ParseEpochSeconds(seconds); !refTime.Equal(parsed) {
		t.Errorf("expected %v, got %v", refTime, parsed)
	}
}
