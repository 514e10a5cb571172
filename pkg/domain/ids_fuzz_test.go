package domain

import (
	"testing"
	"unicode/utf8"
)

// Path segments reach ParseActivityID unfiltered from /api/activities/{uuid}.
func FuzzParseActivityID(f *testing.F) {
	f.Add("")
	f.Add("68f126b0-1ceb-4a33-88be-d90fa7109eee")
	f.Add("00000000-0000-0000-0000-000000000000")
	f.Add("not-a-uuid")
	f.Add("'; DROP TABLE activities;--")
	f.Add(string([]byte{0x00, 0x01, 0x02}))

	f.Fuzz(func(t *testing.T, input string) {
		id, err := ParseActivityID(input)
		if err == nil {
			again, err := ParseActivityID(id.String())
			if err != nil || again != id {
				t.Errorf("accepted %q but its canonical form %q does not parse back", input, id)
			}
			if id.IsNil() {
				t.Errorf("accepted nil id from %q", input)
			}
		}
		if !utf8.ValidString(input) && err == nil {
			t.Errorf("accepted invalid UTF-8 %q", input)
		}
	})
}
