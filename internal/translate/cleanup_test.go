package translate

import "testing"

func TestCleanArtifacts(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
	}{
		{
			name: "clean text untouched",
			text: "The sage spoke of dharma.",
			want: "The sage spoke of dharma.",
		},
		{
			name: "hedge and parenthetical removed",
			text: "It appears to say hello (uncertain).",
			want: "to say hello.",
		},
		{
			name: "parenthetical aside",
			text: "The verse praises Shiva (or possibly Vishnu) in the morning.",
			want: "The verse praises Shiva in the morning.",
		},
		{
			name: "hedge at sentence start",
			text: "It seems the word means lotus.",
			want: "the word means lotus.",
		},
		{
			name: "longest hedge wins",
			text: "It appears to be a blessing.",
			want: "a blessing.",
		},
		{
			name: "case insensitive hedge",
			text: "IT SEEMS the text is a prayer.",
			want: "the text is a prayer.",
		},
		{
			name: "commentary about missing content",
			text: "There is no content without additional context.",
			want: ".",
		},
		{
			name: "line breaks preserved",
			text: "First line (note).\nSecond line.",
			want: "First line.\nSecond line.",
		},
		{
			name: "whitespace collapsed",
			text: "Too   many    spaces .",
			want: "Too many spaces.",
		},
		{
			name: "empty input",
			text: "",
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CleanArtifacts(tt.text); got != tt.want {
				t.Errorf("CleanArtifacts(%q) = %q, want %q", tt.text, got, tt.want)
			}
		})
	}
}

func TestCleanArtifactsIdempotent(t *testing.T) {
	inputs := []string{
		"It appears to say hello (uncertain).",
		"The verse praises Shiva (or possibly Vishnu) in the morning.",
		"First line (note).\nSecond line, it seems.",
		"Plain text with nothing to remove.",
	}

	for _, input := range inputs {
		once := CleanArtifacts(input)
		twice := CleanArtifacts(once)
		if once != twice {
			t.Errorf("CleanArtifacts not idempotent for %q: first %q, second %q", input, once, twice)
		}
	}
}
