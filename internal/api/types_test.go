package api

import (
	"testing"
	"time"
)

func TestParseTime_AcceptsBackendLayouts(t *testing.T) {
	cases := []string{
		"2024-06-01T10:30:00Z",
		"2024-06-01T10:30:00.123456789Z",
		"2024-06-01 10:30:00",
		"2024-06-01T10:30:00.123456",
	}
	for _, value := range cases {
		if got := parseTime(value); got.IsZero() {
			t.Fatalf("parseTime(%q) = zero, want parsed timestamp", value)
		}
	}
	if got := parseTime("not a time"); !got.Equal(time.Time{}) {
		t.Fatalf("parseTime(garbage) = %v, want zero", got)
	}
}

func TestBook_HasPDF(t *testing.T) {
	if (Book{}).HasPDF() {
		t.Fatalf("book without pdf reports downloadable")
	}
	if !(Book{PDFFile: "https://media.example.com/b.pdf"}).HasPDF() {
		t.Fatalf("book with pdf reports not downloadable")
	}
}

func TestUser_FullNameAndRole(t *testing.T) {
	u := User{FirstName: "Ada", LastName: "Obi"}
	if u.FullName() != "Ada Obi" {
		t.Fatalf("FullName = %q, want %q", u.FullName(), "Ada Obi")
	}
	if (User{FirstName: "Ada"}).FullName() != "Ada" {
		t.Fatalf("FullName with missing last name should fall back to first name")
	}
	if (User{}).IsAdmin() {
		t.Fatalf("plain user reports admin")
	}
	if !(User{IsStaff: true}).IsAdmin() || !(User{IsSuperuser: true}).IsAdmin() {
		t.Fatalf("staff/superuser should report admin")
	}
}

func TestValidationError_MessageIsStable(t *testing.T) {
	err := &ValidationError{Fields: map[string][]string{
		"title":  {"required"},
		"author": {"required", "too short"},
	}}
	want := "validation failed: author: required; too short, title: required"
	if err.Error() != want {
		t.Fatalf("Error() = %q, want %q", err.Error(), want)
	}
	if err.FieldError("title") != "required" {
		t.Fatalf("FieldError(title) = %q, want %q", err.FieldError("title"), "required")
	}
	if err.FieldError("missing") != "" {
		t.Fatalf("FieldError(missing) = %q, want empty", err.FieldError("missing"))
	}
}
