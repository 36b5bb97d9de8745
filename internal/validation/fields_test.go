package validation

import (
	"errors"
	"testing"
	"time"
)

func TestUsername(t *testing.T) {
	got, fe := Username("  alice  ")
	if fe != nil {
		t.Fatalf("Expected alice to be valid, got %v", fe)
	}
	if got != "alice" {
		t.Errorf("Expected trimmed username, got %q", got)
	}

	if _, fe := Username("   "); fe == nil || fe.Rule != RuleMinLength {
		t.Errorf("Expected blank username to fail min_length, got %v", fe)
	}
}

func TestUsernameEscapesMarkup(t *testing.T) {
	got, fe := Username(`<b>"bob"</b>`)
	if fe != nil {
		t.Fatalf("Unexpected error %v", fe)
	}
	want := "&lt;b&gt;&quot;bob&quot;&lt;&#x2F;b&gt;"
	if got != want {
		t.Errorf("Expected %q, got %q", want, got)
	}
}

func TestControlCharactersAreStripped(t *testing.T) {
	got, fe := Username("al\x00ice\x1b\x7f")
	if fe != nil {
		t.Fatalf("Unexpected error %v", fe)
	}
	if got != "alice" {
		t.Errorf("Expected control characters removed, got %q", got)
	}

	if _, fe := Username("\x00\x01\t"); fe == nil {
		t.Error("Expected a username of only control characters to be rejected")
	}

	if _, fe := Description("run\n\r"); fe != nil {
		t.Errorf("Unexpected error %v", fe)
	}

	if got := Normalize(" bob\x00 "); got != "bob" {
		t.Errorf("Expected Normalize to match Username, got %q", got)
	}
}

func TestPassword(t *testing.T) {
	if _, fe := Password("short"); fe == nil {
		t.Error("Expected 5 character password to fail")
	}
	if _, fe := Password("  1234567  "); fe == nil {
		t.Error("Expected padding not to count towards length")
	}
	if got, fe := Password("password1"); fe != nil || got != "password1" {
		t.Errorf("Expected password1 to pass, got %q %v", got, fe)
	}
}

func TestDuration(t *testing.T) {
	cases := map[string]bool{
		"30":   true,
		" 45 ": true,
		"0":    true,
		"":     false,
		"-5":   false,
		"1.5":  false,
		"ten":  false,
	}
	for in, ok := range cases {
		_, fe := Duration(in)
		if ok && fe != nil {
			t.Errorf("Duration(%q): unexpected error %v", in, fe)
		}
		if !ok && fe == nil {
			t.Errorf("Duration(%q): expected error", in)
		}
	}
}

func TestDate(t *testing.T) {
	d, fe := Date("date", "")
	if fe != nil || d != nil {
		t.Errorf("Expected empty date to mean no override, got %v %v", d, fe)
	}

	d, fe = Date("date", "2024-03-15")
	if fe != nil {
		t.Fatalf("Unexpected error %v", fe)
	}
	want := time.Date(2024, time.March, 15, 0, 0, 0, 0, time.UTC)
	if !d.Equal(want) {
		t.Errorf("Expected %s, got %s", want, d)
	}

	d, fe = Date("date", "2024-03-15T18:30:00Z")
	if fe != nil || !d.Equal(want) {
		t.Errorf("Expected timestamp to truncate to %s, got %v %v", want, d, fe)
	}

	for _, bad := range []string{"not-a-date", "2024-13-45", "yesterday"} {
		if _, fe := Date("from", bad); fe == nil || fe.Rule != RuleDate || fe.Field != "from" {
			t.Errorf("Date(%q): expected invalid date on from, got %v", bad, fe)
		}
	}
}

func TestUserID(t *testing.T) {
	if id, fe := UserID("42"); fe != nil || id != 42 {
		t.Errorf("Expected 42, got %d %v", id, fe)
	}
	for _, bad := range []string{"abc", "", "4a", "-1", " 1"} {
		if _, fe := UserID(bad); fe == nil || fe.Rule != RuleID {
			t.Errorf("UserID(%q): expected id rule failure, got %v", bad, fe)
		}
	}
}

func TestLimit(t *testing.T) {
	if l, fe := Limit(""); l != nil || fe != nil {
		t.Errorf("Expected no limit, got %v %v", l, fe)
	}
	if l, fe := Limit("0"); fe != nil || *l != 0 {
		t.Errorf("Expected limit 0, got %v %v", l, fe)
	}
	if _, fe := Limit("-3"); fe == nil {
		t.Error("Expected negative limit to fail")
	}
}

func TestErrors(t *testing.T) {
	var errs Errors
	errs.Add(nil)
	if errs.Err() != nil {
		t.Fatal("Expected empty collection to be nil")
	}

	_, fe := Description("")
	errs.Add(fe)
	_, fe = Duration("x")
	errs.Add(fe)

	err := errs.Err()
	if err == nil {
		t.Fatal("Expected an error")
	}
	var got Errors
	if !errors.As(err, &got) || len(got) != 2 {
		t.Fatalf("Expected two field errors, got %v", err)
	}
	if got[0].Field != "description" || got[1].Field != "duration" {
		t.Errorf("Unexpected order %v", got)
	}
}
