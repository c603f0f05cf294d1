package rename

import (
	"strings"
	"testing"
)

func TestSanitize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"clean string untouched", "Nature Methods", "Nature Methods"},
		{"colon and slash", "Proc: AI/ML", "Proc AIML"},
		{"quotes", `A "Great" Study`, "A Great Study"},
		{"apostrophe", "O'Brien", "OBrien"},
		{"full forbidden set", `a\b/c*d?e:f"g<h>i|j'k`, "abcdefghijk"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Sanitize(tt.in)
			if got != tt.want {
				t.Errorf("Sanitize(%q) = %q, want %q", tt.in, got, tt.want)
			}
			if again := Sanitize(got); again != got {
				t.Errorf("Sanitize not idempotent: %q -> %q", got, again)
			}
			if strings.ContainsAny(got, `\/*?:"<>|'`) {
				t.Errorf("Sanitize(%q) = %q still contains forbidden characters", tt.in, got)
			}
		})
	}
}

func TestSynthesize(t *testing.T) {
	c := Citation{
		Year:    2021,
		Journal: "Proc: AI/ML",
		Title:   `A "Great" Study`,
		Author:  "O'Brien",
	}

	got := Synthesize(c, ".pdf", "__")
	want := "2021__Proc AIML__A Great Study__OBrien.pdf"
	if got != want {
		t.Errorf("Synthesize() = %q, want %q", got, want)
	}

	// Deterministic and already canonical.
	if again := Synthesize(c, ".pdf", "__"); again != got {
		t.Errorf("Synthesize() not deterministic: %q vs %q", got, again)
	}
	if !IsCanonical(got, "__") {
		t.Errorf("Synthesize() output %q not recognized as canonical", got)
	}
}

func TestSynthesizeTruncatesLongNames(t *testing.T) {
	c := Citation{
		Year:    2020,
		Journal: strings.Repeat("J", 120),
		Title:   strings.Repeat("T", 200),
		Author:  "Author",
	}

	got := Synthesize(c, ".pdf", "__")
	if len(got) > MaxFilenameLength {
		t.Errorf("Synthesize() length = %d, want <= %d", len(got), MaxFilenameLength)
	}
	if !strings.HasSuffix(got, ".pdf") {
		t.Errorf("Synthesize() = %q, extension not preserved", got)
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		max     int
		wantLen int
		wantExt string
	}{
		{"short name untouched", "2020__J__T__A.pdf", 255, len("2020__J__T__A.pdf"), ".pdf"},
		{"exact limit untouched", strings.Repeat("a", 16) + ".pdf", 20, 20, ".pdf"},
		{"over limit truncated", strings.Repeat("a", 300) + ".pdf", 255, 255, ".pdf"},
		{"long extension survives", "x" + strings.Repeat("b", 100) + ".markdown", 30, 30, ".markdown"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Truncate(tt.in, tt.max)
			if len(got) != tt.wantLen {
				t.Errorf("Truncate() length = %d, want %d", len(got), tt.wantLen)
			}
			if !strings.HasSuffix(got, tt.wantExt) {
				t.Errorf("Truncate() = %q, want suffix %q", got, tt.wantExt)
			}
			// Deterministic
			if again := Truncate(tt.in, tt.max); again != got {
				t.Errorf("Truncate() not deterministic")
			}
		})
	}
}

func TestIsCanonical(t *testing.T) {
	tests := []struct {
		name string
		file string
		sep  string
		want bool
	}{
		{"canonical name", "2021__Nature__Deep Learning__Alice.pdf", "__", true},
		{"canonical with dash sep", "2021-Nature-Deep Learning-Alice.pdf", "-", true},
		{"no year prefix", "Nature__Deep Learning__Alice__extra.pdf", "__", false},
		{"too few segments", "2021__Nature__Alice.pdf", "__", false},
		{"plain download name", "s41586-021-03819-2.pdf", "__", false},
		{"wrong separator", "2021-Nature-Deep Learning-Alice.pdf", "__", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsCanonical(tt.file, tt.sep); got != tt.want {
				t.Errorf("IsCanonical(%q, %q) = %v, want %v", tt.file, tt.sep, got, tt.want)
			}
		})
	}
}
