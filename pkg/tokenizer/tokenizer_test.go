package tokenizer

import "testing"

func TestCountWords(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want int
	}{
		{"empty", "", 0},
		{"only whitespace", "  \n\t ", 0},
		{"single word", "hello", 1},
		{"collapsed runs", "a b  c", 3},
		{"mixed separators", "one\ntwo\tthree four", 4},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := CountWords(tc.in); got != tc.want {
				t.Errorf("CountWords(%q) = %d, want %d", tc.in, got, tc.want)
			}
		})
	}
}

func TestEstimateTokensMatchesCountWords(t *testing.T) {
	for _, in := range []string{"", "a b  c", "line one\nline two\n"} {
		if got, want := EstimateTokens(in), CountWords(in); got != want {
			t.Errorf("EstimateTokens(%q) = %d, CountWords = %d", in, got, want)
		}
	}
}
