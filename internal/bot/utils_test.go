package bot

import "testing"

func TestNormalizePhoneNumber(t *testing.T) {
	cases := map[string]string{
		"+91 98765 43210": "+919876543210",
		"9876543210":      "+919876543210",
		"919876543210":    "+919876543210",
		"09876543210":     "+919876543210",
		"+14155238886":    "+14155238886",
	}
	for in, want := range cases {
		if got := NormalizePhoneNumber(in); got != want {
			t.Errorf("NormalizePhoneNumber(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestNormalizePhoneNumberCanonicalizesVariants(t *testing.T) {
	// All the forms one trader's number arrives in must key the same user.
	variants := []string{"+919876543210", "98765 43210", "919876543210", "+91-98765-43210"}
	want := NormalizePhoneNumber(variants[0])
	for _, v := range variants[1:] {
		if got := NormalizePhoneNumber(v); got != want {
			t.Errorf("NormalizePhoneNumber(%q) = %q, want %q", v, got, want)
		}
	}
}

func TestIsValidPhoneNumber(t *testing.T) {
	if !IsValidPhoneNumber("+91 98765 43210") {
		t.Fatal("valid Indian number rejected")
	}
	if IsValidPhoneNumber("1234567890") {
		t.Fatal("junk number accepted")
	}
	if IsValidPhoneNumber("123") {
		t.Fatal("short number accepted")
	}
}
