package semver

import "testing"

func TestParseValid(t *testing.T) {
	v, err := Parse("v1.2.3")
	if err != nil {
		t.Fatal(err)
	}
	if v != (Version{1, 2, 3}) {
		t.Fatalf("got %+v", v)
	}
}

func TestParseRejectsNonNumeric(t *testing.T) {
	if _, err := Parse("1.2.3-rc1"); err == nil {
		t.Fatal("expected error for pre-release component")
	}
	if _, err := Parse("1.2"); err == nil {
		t.Fatal("expected error for incomplete triple")
	}
}

func TestCompare(t *testing.T) {
	cases := []struct {
		a, b string
		want int
	}{
		{"1.0.0", "1.0.0", 0},
		{"1.0.0", "2.0.0", -1},
		{"2.1.0", "2.0.9", 1},
		{"1.2.3", "1.2.4", -1},
	}
	for _, c := range cases {
		a, _ := Parse(c.a)
		b, _ := Parse(c.b)
		if got := Compare(a, b); got != c.want {
			t.Errorf("Compare(%s,%s) = %d, want %d", c.a, c.b, got, c.want)
		}
	}
}

func TestInRange(t *testing.T) {
	min, _ := Parse("1.0.0")
	max, _ := Parse("2.0.0")
	v, _ := Parse("1.5.0")
	if !InRange(v, min, max) {
		t.Fatal("expected 1.5.0 to be in [1.0.0, 2.0.0]")
	}
	v2, _ := Parse("2.0.1")
	if InRange(v2, min, max) {
		t.Fatal("expected 2.0.1 to be out of range")
	}
}
