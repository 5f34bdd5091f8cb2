package token

import (
	"bytes"
	"testing"
	"time"
)

// FuzzParse exercises the token parser with arbitrary strings.
// Goal: no panics; invalid inputs must be rejected with errors.
func FuzzParse(f *testing.F) {
	mgr, err := NewManager(Config{
		Secret: bytes.Repeat([]byte("f"), 32),
		TTL:    time.Hour,
		Issuer: "fuzz-test",
	})
	if err != nil {
		f.Fatal(err)
	}

	valid, err := mgr.Issue("u1", "s1")
	if err != nil {
		f.Fatal(err)
	}

	f.Add(valid)
	f.Add("")
	f.Add("not.a.token")
	f.Add("eyJhbGciOiJIUzI1NiJ9.eyJ1c2VySWQiOiJ1MSJ9.invalid")
	f.Add("eyJhbGciOiJub25lIn0.eyJ1c2VySWQiOiJ1MSJ9.")

	f.Fuzz(func(t *testing.T, input string) {
		claims, err := mgr.Parse(input)
		if err != nil {
			return
		}
		if claims == nil {
			t.Fatal("Parse returned nil claims without error")
		}
		if claims.UserID == "" || claims.SessionID == "" {
			t.Fatal("Parse accepted claims with empty subject")
		}
	})
}
