package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidRepoName(t *testing.T) {
	tests := []struct {
		name  string
		input string
		valid bool
	}{
		{"simple name", "hw1-octocat", true},
		{"dots and underscores", "hw_1.final", true},
		{"uppercase", "HW1-Octocat", true},
		{"empty", "", false},
		{"spaces", "hw 1", false},
		{"slash", "org/repo", false},
		{"non-ascii", "hw1-øctocat", false},
		{"exclamation", "hw1!", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.valid, ValidRepoName(tt.input))
		})
	}
}

func TestSlugify(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"Homework 1", "homework-1"},
		{"Team Rocket!", "team-rocket"},
		{"  lots   of   spaces  ", "lots-of-spaces"},
		{"already-a-slug", "already-a-slug"},
		{"Final (Spring 2026)", "final-spring-2026"},
		{"", ""},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, Slugify(tt.input))
	}
}

func TestSubmissionRepoName(t *testing.T) {
	assert.Equal(t, "hw1-octocat", SubmissionRepoName("hw1", "octocat"))
	assert.Equal(t, "group-project-team-rocket", SubmissionRepoName("group-project", "team-rocket"))
}
