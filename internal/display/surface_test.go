package display

import (
	"errors"
	"strings"
	"testing"
)

func TestTextLimits(t *testing.T) {
	if MaxCharsPerLine != 20 {
		t.Errorf("MaxCharsPerLine: got %d, want 20", MaxCharsPerLine)
	}
	if MaxLines != 7 {
		t.Errorf("MaxLines: got %d, want 7", MaxLines)
	}
}

func TestScrollWindow(t *testing.T) {
	text := "l1\nl2\nl3\nl4\nl5\nl6"
	// From y=0 with gap 2, four 15-pixel rows fit above ScrollBottom
	if got := ScrollSteps(text, 0, 2); got != 3 {
		t.Fatalf("ScrollSteps: got %d, want 3", got)
	}
	tests := []struct {
		offset int
		want   string
	}{
		{0, "l1 l2 l3 l4"},
		{1, "l2 l3 l4 l5"},
		{2, "l3 l4 l5 l6"},
	}
	for _, tt := range tests {
		lines, err := ScrollWindow(text, 0, 2, tt.offset)
		if err != nil {
			t.Fatalf("offset %d: %v", tt.offset, err)
		}
		if got := strings.Join(lines, " "); got != tt.want {
			t.Errorf("offset %d: got %q, want %q", tt.offset, got, tt.want)
		}
	}

	for _, offset := range []int{-1, 3} {
		if _, err := ScrollWindow(text, 0, 2, offset); !errors.Is(err, ErrScrollRange) {
			t.Errorf("offset %d: got %v, want ErrScrollRange", offset, err)
		}
	}
}

func TestScrollWindowBufferLimit(t *testing.T) {
	text := strings.TrimSuffix(strings.Repeat("x\n", MaxLines+1), "\n")
	if _, err := ScrollWindow(text, 0, 2, 0); !errors.Is(err, ErrTextOverflow) {
		t.Errorf("got %v, want ErrTextOverflow", err)
	}
}

func TestScrollWindowShortText(t *testing.T) {
	if got := ScrollSteps("one\ntwo", 0, 2); got != 1 {
		t.Errorf("ScrollSteps: got %d, want 1", got)
	}
	lines, err := ScrollWindow("one\ntwo", 0, 2, 0)
	if err != nil || len(lines) != 2 {
		t.Errorf("got %q (%v), want both lines", lines, err)
	}
}

func TestValidateLine(t *testing.T) {
	if err := ValidateLine(strings.Repeat("a", MaxCharsPerLine)); err != nil {
		t.Errorf("full line should be valid: %v", err)
	}
	err := ValidateLine(strings.Repeat("a", MaxCharsPerLine+1))
	if !errors.Is(err, ErrLineTooLong) {
		t.Errorf("expected ErrLineTooLong, got %v", err)
	}
	// Limit counts runes, not bytes
	if err := ValidateLine(strings.Repeat("é", MaxCharsPerLine)); err != nil {
		t.Errorf("multi-byte runes should count once: %v", err)
	}
}

func TestWrapText(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []string
	}{
		{"single", "Remaining", []string{"Remaining"}},
		{"newlines", "a\nb", []string{"a", "b"}},
		{"blank line kept", "a\n\nb", []string{"a", "", "b"}},
		{"word wrap", "Sit back down when you are done", []string{"Sit back down when", "you are done"}},
		{"exact fit", "12345678901234567890", []string{"12345678901234567890"}},
		{"long word split", "abcdefghijklmnopqrstuvwxyz", []string{"abcdefghijklmnopqrst", "uvwxyz"}},
		{"long word after short", "hi abcdefghijklmnopqrstuvwxyz", []string{"hi", "abcdefghijklmnopqrst", "uvwxyz"}},
		{"collapses spaces", "a    b", []string{"a b"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := WrapText(tt.text)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("got %q, want %q", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("line %d: got %q, want %q", i, got[i], tt.want[i])
				}
				if err := ValidateLine(got[i]); err != nil {
					t.Errorf("line %d exceeds limit: %v", i, err)
				}
			}
		})
	}
}

func TestWrapTextOverflow(t *testing.T) {
	text := strings.Repeat("line\n", MaxLines) + "one too many"
	_, err := WrapText(text)
	if !errors.Is(err, ErrTextOverflow) {
		t.Errorf("expected ErrTextOverflow, got %v", err)
	}

	ok := strings.TrimSuffix(strings.Repeat("line\n", MaxLines), "\n")
	if _, err := WrapText(ok); err != nil {
		t.Errorf("%d lines should fit: %v", MaxLines, err)
	}
}
