package schedule

import "testing"

func TestNormalizeTime(t *testing.T) {
	cases := []struct {
		in   string
		want string
		ok   bool
	}{
		{"10:0", "10:00", true},
		{"9:5", "09:05", true},
		{" 9:5 ", "09:05", true},
		{"09:30", "09:30", true},
		{"23:59", "23:59", true},
		{"0:0", "00:00", true},
		{"10:000", "10:00", true},
		{"7:30pm", "07:30", true},
		{"\"8:15\"", "08:15", true},
		{"25:99", "", false},
		{"24:00", "", false},
		{"12:60", "", false},
		{"1230", "", false},
		{"", "", false},
		{":30", "", false},
		{"10:", "", false},
		{"Not Scheduled", "", false},
		{"123:00", "", false},
	}
	for _, c := range cases {
		got, ok := NormalizeTime(c.in)
		if ok != c.ok || got != c.want {
			t.Errorf("NormalizeTime(%q) = %q, %v; want %q, %v", c.in, got, ok, c.want, c.ok)
		}
	}
}

func TestNormalizeTimeIdempotent(t *testing.T) {
	inputs := []string{"10:0", "9:5", "00:00", "23:5", " 1:1", "abc", "25:99", "12:345", "6:07:08"}
	for _, in := range inputs {
		once, ok := NormalizeTime(in)
		if !ok {
			if again, ok := NormalizeTime(once); ok {
				t.Errorf("failed normalization of %q produced a valid value %q", in, again)
			}
			continue
		}
		twice, ok := NormalizeTime(once)
		if !ok || twice != once {
			t.Errorf("NormalizeTime(NormalizeTime(%q)) = %q, %v; want %q", in, twice, ok, once)
		}
	}
}
