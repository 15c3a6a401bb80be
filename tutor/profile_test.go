// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

package tutor

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestParseStudentProfile(t *testing.T) {
	tests := []struct {
		name  string
		query string
		want  StudentProfile
	}{
		{
			name:  "full profile",
			query: "Topic: Machine Learning\nBackground: Basic Python knowledge\nGoals: Build ML models",
			want: StudentProfile{
				Topic:      "Machine Learning",
				Background: "Basic Python knowledge",
				Goals:      "Build ML models",
			},
		},
		{
			name:  "case insensitive labels",
			query: "TOPIC: Spanish\ngoals: Basic conversation",
			want: StudentProfile{
				Topic: "Spanish",
				Goals: "Basic conversation",
			},
		},
		{
			name:  "value keeps inner colons",
			query: "Topic: Go: the language",
			want: StudentProfile{
				Topic: "Go: the language",
			},
		},
		{
			name:  "freeform query",
			query: "I want to learn about black holes",
			want:  StudentProfile{},
		},
		{
			name:  "unlabeled lines ignored",
			query: "Hello there\nTopic: Calculus\nThanks!",
			want: StudentProfile{
				Topic: "Calculus",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseStudentProfile(tt.query)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("ParseStudentProfile mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestStudentProfileDefaults(t *testing.T) {
	got := StudentProfile{Topic: "Calculus"}.withDefaults()

	if got.Background != DefaultBackground {
		t.Errorf("background = %q, want %q", got.Background, DefaultBackground)
	}
	if got.Goals != DefaultGoals {
		t.Errorf("goals = %q, want %q", got.Goals, DefaultGoals)
	}

	// Provided values survive
	full := StudentProfile{Topic: "Calculus", Background: "b", Goals: "g"}.withDefaults()
	if full.Background != "b" || full.Goals != "g" {
		t.Errorf("withDefaults overwrote provided values: %+v", full)
	}
}

func TestStudentProfileStructured(t *testing.T) {
	if (StudentProfile{}).Structured() {
		t.Error("profile without topic reported structured")
	}
	if !(StudentProfile{Topic: "Go"}).Structured() {
		t.Error("profile with topic reported unstructured")
	}
}
