package ocr

import (
	"testing"

	"cloud.google.com/go/documentai/apiv1/documentaipb"
)

func TestAnchorText(t *testing.T) {
	text := "Hello world।"

	tests := []struct {
		name     string
		anchor   *documentaipb.Document_TextAnchor
		expected string
	}{
		{
			name:     "nil anchor",
			anchor:   nil,
			expected: "",
		},
		{
			name: "single segment",
			anchor: &documentaipb.Document_TextAnchor{
				TextSegments: []*documentaipb.Document_TextAnchor_TextSegment{
					{StartIndex: 0, EndIndex: 5},
				},
			},
			expected: "Hello",
		},
		{
			name: "multiple segments",
			anchor: &documentaipb.Document_TextAnchor{
				TextSegments: []*documentaipb.Document_TextAnchor_TextSegment{
					{StartIndex: 0, EndIndex: 5},
					{StartIndex: 6, EndIndex: int64(len(text))},
				},
			},
			expected: "Helloworld।",
		},
		{
			name: "out of range segment ignored",
			anchor: &documentaipb.Document_TextAnchor{
				TextSegments: []*documentaipb.Document_TextAnchor_TextSegment{
					{StartIndex: 0, EndIndex: 9999},
				},
			},
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := anchorText(text, tt.anchor); got != tt.expected {
				t.Errorf("anchorText() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestFragmentsFromDocument_NormalizedVertices(t *testing.T) {
	doc := &documentaipb.Document{
		Text: "word",
		Pages: []*documentaipb.Document_Page{
			{
				Dimension: &documentaipb.Document_Page_Dimension{Width: 1000, Height: 500},
				Tokens: []*documentaipb.Document_Page_Token{
					{
						Layout: &documentaipb.Document_Page_Layout{
							TextAnchor: &documentaipb.Document_TextAnchor{
								TextSegments: []*documentaipb.Document_TextAnchor_TextSegment{
									{StartIndex: 0, EndIndex: 4},
								},
							},
							BoundingPoly: &documentaipb.BoundingPoly{
								NormalizedVertices: []*documentaipb.NormalizedVertex{
									{X: 0.1, Y: 0.2},
									{X: 0.3, Y: 0.2},
								},
							},
						},
					},
				},
			},
		},
	}

	fragments := fragmentsFromDocument(doc)

	if len(fragments) != 1 {
		t.Fatalf("fragmentsFromDocument() returned %d fragments, want 1", len(fragments))
	}
	if fragments[0].Text != "word" {
		t.Errorf("fragment text = %q, want %q", fragments[0].Text, "word")
	}
	if got := fragments[0].BoundingBox[0]; got != (Point{X: 100, Y: 100}) {
		t.Errorf("denormalized point = %+v, want {100 100}", got)
	}
}
