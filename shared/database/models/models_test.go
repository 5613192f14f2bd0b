package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestParseOnboardingRole(t *testing.T) {
	for _, s := range []string{"student", "company", "university"} {
		r, ok := ParseOnboardingRole(s)
		assert.True(t, ok, s)
		assert.Equal(t, Role(s), r)
	}

	for _, s := range []string{"", "admin", "Student", "mentor"} {
		_, ok := ParseOnboardingRole(s)
		assert.False(t, ok, s)
	}
}

func TestInternshipAcceptsApplications(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	past := now.Add(-time.Hour)
	future := now.Add(time.Hour)

	tests := []struct {
		name       string
		internship Internship
		want       bool
	}{
		{"active without limits", Internship{Status: InternshipActive}, true},
		{"draft", Internship{Status: InternshipDraft}, false},
		{"closed", Internship{Status: InternshipClosed}, false},
		{"deadline passed", Internship{Status: InternshipActive, ApplicationDeadline: &past}, false},
		{"deadline ahead", Internship{Status: InternshipActive, ApplicationDeadline: &future}, true},
		{"full", Internship{Status: InternshipActive, MaxApplicants: 2, CurrentApplicants: 2}, false},
		{"room left", Internship{Status: InternshipActive, MaxApplicants: 2, CurrentApplicants: 1}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.internship.AcceptsApplications(now))
		})
	}
}

func TestJobTypeValid(t *testing.T) {
	assert.True(t, JobTypeRemote.Valid())
	assert.True(t, JobType("part-time").Valid())
	assert.False(t, JobType("contract").Valid())
	assert.False(t, JobType("").Valid())
}
