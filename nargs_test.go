package argdoc

import (
	"encoding/json"
	"testing"
)

func TestNargsMarshal(t *testing.T) {
	tests := []struct {
		name  string
		nargs Nargs
		want  string
	}{
		{"exact", NargsExactly(2), "2"},
		{"zero", NargsExactly(0), "0"},
		{"optional", NargsOptional, `"?"`},
		{"zero or more", NargsZeroOrMore, `"*"`},
		{"one or more", NargsOneOrMore, `"+"`},
		{"remainder", NargsRemainder, `"..."`},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			raw, err := json.Marshal(tc.nargs)
			if err != nil {
				t.Fatalf("marshal: %v", err)
			}
			if string(raw) != tc.want {
				t.Fatalf("marshal = %s, want %s", raw, tc.want)
			}

			var back Nargs
			if err := json.Unmarshal(raw, &back); err != nil {
				t.Fatalf("unmarshal: %v", err)
			}
			if back != tc.nargs {
				t.Fatalf("round trip = %v, want %v", back, tc.nargs)
			}
		})
	}
}

func TestNargsUnmarshalRejectsInvalid(t *testing.T) {
	for _, raw := range []string{`"x"`, `"??"`, `-1`, `1.5`, `null`, `{}`} {
		var n Nargs
		if err := json.Unmarshal([]byte(raw), &n); err == nil {
			t.Fatalf("unmarshal %s succeeded, want error", raw)
		}
	}
}

func TestNargsAccessors(t *testing.T) {
	if count, ok := NargsExactly(3).Count(); !ok || count != 3 {
		t.Fatalf("Count = %d, %v", count, ok)
	}
	if _, ok := NargsOptional.Count(); ok {
		t.Fatal("symbolic nargs reported a count")
	}
	if NargsOneOrMore.Symbol() != "+" {
		t.Fatalf("Symbol = %q", NargsOneOrMore.Symbol())
	}
	if NargsExactly(4).String() != "4" {
		t.Fatalf("String = %q", NargsExactly(4).String())
	}
	if NargsRemainder.String() != "..." {
		t.Fatalf("String = %q", NargsRemainder.String())
	}
}
