// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

package tutor

import (
	"strings"
)

// Defaults substituted for profile fields the student left out.
const (
	DefaultBackground = "No background information provided."
	DefaultGoals      = "General knowledge improvement."
)

// StudentProfile holds the student information extracted from a query.
// It is ephemeral: parsed per submission, consumed by the pipeline and
// never persisted.
type StudentProfile struct {
	Topic      string
	Background string
	Goals      string
}

// Structured reports whether the query followed the labeled convention.
// A profile without a topic is treated as freeform text.
func (p StudentProfile) Structured() bool {
	return p.Topic != ""
}

// ParseStudentProfile extracts student information from a query using the
// line-oriented "Topic:", "Background:", "Goals:" convention. Labels are
// matched case-insensitively anywhere in a line, and the value is
// everything after the first colon. Lines matching no label are ignored.
// Parsing is best effort and never fails.
func ParseStudentProfile(query string) StudentProfile {
	var profile StudentProfile

	for _, line := range strings.Split(strings.TrimSpace(query), "\n") {
		lower := strings.ToLower(line)
		_, value, found := strings.Cut(line, ":")
		if !found {
			continue
		}
		value = strings.TrimSpace(value)

		switch {
		case strings.Contains(lower, "topic:"):
			profile.Topic = value
		case strings.Contains(lower, "background:"):
			profile.Background = value
		case strings.Contains(lower, "goals:"):
			profile.Goals = value
		}
	}

	return profile
}

// withDefaults fills missing background and goals with their defaults.
// The topic is left as is; its absence switches the pipeline to freeform
// handling instead.
func (p StudentProfile) withDefaults() StudentProfile {
	if p.Background == "" {
		p.Background = DefaultBackground
	}
	if p.Goals == "" {
		p.Goals = DefaultGoals
	}
	return p
}
