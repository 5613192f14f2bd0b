// Package listing implements internship search: criteria parsing, the in-memory
// filter engine and the cached listing service built on top of it.
package listing

import (
	"net/url"
	"strings"

	"golang.org/x/text/cases"

	"placify-backend/shared/database/models"
)

// Criteria is the request-scoped filter built from query parameters. Zero value means no filter.
type Criteria struct {
	Location        string `json:"location,omitempty"`
	JobType         string `json:"jobType,omitempty"`
	ExperienceLevel string `json:"experienceLevel,omitempty"`
	RemoteOnly      bool   `json:"remoteOnly,omitempty"`
}

// IsEmpty reports whether no rule is active
func (c Criteria) IsEmpty() bool {
	return c.Location == "" && !c.hasJobType() && c.ExperienceLevel == "" && !c.RemoteOnly
}

func (c Criteria) hasJobType() bool {
	return models.JobType(c.JobType).Valid()
}

// ParseCriteria reads location, jobType, experienceLevel and remoteOnly.
// Values are trimmed and blank ones ignored. jobType is matched case-sensitively, so
// "Remote" is an unknown job type. Any non-empty remoteOnly, "false" included, turns it on.
// Malformed input never errors.
func ParseCriteria(q url.Values) Criteria {
	return Criteria{
		Location:        strings.TrimSpace(q.Get("location")),
		JobType:         strings.TrimSpace(q.Get("jobType")),
		ExperienceLevel: strings.TrimSpace(q.Get("experienceLevel")),
		RemoteOnly:      q.Get("remoteOnly") != "",
	}
}

// JobTypeMode selects how a non-remote jobType is matched
type JobTypeMode string

const (
	// JobTypeKeyword matches title keywords, the historical behavior
	JobTypeKeyword JobTypeMode = "keyword"
	// JobTypeCategory matches the explicit job_type column, falling back to keywords when it is empty
	JobTypeCategory JobTypeMode = "category"
)

func ParseJobTypeMode(s string) JobTypeMode {
	if JobTypeMode(strings.ToLower(strings.TrimSpace(s))) == JobTypeCategory {
		return JobTypeCategory
	}
	return JobTypeKeyword
}

// titleKeywords is the compatibility shim: a title containing the keyword counts as that job type
var titleKeywords = map[models.JobType]string{
	models.JobTypePartTime:   "part-time",
	models.JobTypeFullTime:   "full-time",
	models.JobTypeInternship: "intern",
}

// Engine filters an already ordered slice of internships. It is pure and safe for concurrent use.
type Engine struct {
	Mode JobTypeMode
}

func NewEngine(mode JobTypeMode) Engine {
	return Engine{Mode: mode}
}

// Filter applies the keyword-mode engine
func Filter(internships []models.Internship, c Criteria) []models.Internship {
	return Engine{Mode: JobTypeKeyword}.Filter(internships, c)
}

// Filter keeps the internships matching every active rule, preserving input order.
// With no active rule the input is returned as is.
func (e Engine) Filter(internships []models.Internship, c Criteria) []models.Internship {
	if c.IsEmpty() {
		return internships
	}

	m := newMatcher(e.Mode, c)
	out := make([]models.Internship, 0, len(internships))
	for _, internship := range internships {
		if m.match(&internship) {
			out = append(out, internship)
		}
	}
	return out
}

type matcher struct {
	mode            JobTypeMode
	fold            cases.Caser
	location        string
	experienceLevel string
	jobType         models.JobType
	remoteOnly      bool
}

func newMatcher(mode JobTypeMode, c Criteria) *matcher {
	m := &matcher{mode: mode, fold: cases.Fold(), remoteOnly: c.RemoteOnly}
	m.location = m.fold.String(c.Location)
	m.experienceLevel = m.fold.String(c.ExperienceLevel)
	if c.hasJobType() {
		m.jobType = models.JobType(c.JobType)
	}
	return m
}

func (m *matcher) match(i *models.Internship) bool {
	if m.location != "" && !strings.Contains(m.fold.String(i.Location), m.location) {
		return false
	}
	if m.experienceLevel != "" && m.fold.String(i.ExperienceLevel) != m.experienceLevel {
		return false
	}
	if m.jobType != "" && !m.matchJobType(i) {
		return false
	}
	if m.remoteOnly && !i.IsRemote {
		return false
	}
	return true
}

func (m *matcher) matchJobType(i *models.Internship) bool {
	if m.jobType == models.JobTypeRemote {
		return i.IsRemote
	}
	if m.mode == JobTypeCategory && i.JobType != "" {
		return i.JobType == m.jobType
	}
	return strings.Contains(m.fold.String(i.Title), titleKeywords[m.jobType])
}

// DistinctLocations returns every non-blank location once, in first-seen order
func DistinctLocations(internships []models.Internship) []string {
	seen := make(map[string]struct{})
	locations := make([]string, 0)
	for _, internship := range internships {
		loc := strings.TrimSpace(internship.Location)
		if loc == "" {
			continue
		}
		if _, ok := seen[loc]; ok {
			continue
		}
		seen[loc] = struct{}{}
		locations = append(locations, loc)
	}
	return locations
}

// Facets are the choices a search form offers
type Facets struct {
	Locations        []string `json:"locations"`
	JobTypes         []string `json:"jobTypes"`
	ExperienceLevels []string `json:"experienceLevels"`
}

func BuildFacets(internships []models.Internship) Facets {
	jobTypes := make([]string, len(models.JobTypes))
	for i, t := range models.JobTypes {
		jobTypes[i] = string(t)
	}
	return Facets{
		Locations:        DistinctLocations(internships),
		JobTypes:         jobTypes,
		ExperienceLevels: append([]string(nil), models.ExperienceLevels...),
	}
}

// Visibility restricts which statuses appear in the public listing. Empty means all.
type Visibility struct {
	Statuses []models.InternshipStatus
}

func NewVisibility(statuses []string) Visibility {
	v := Visibility{}
	for _, s := range statuses {
		if st := models.InternshipStatus(s); st.Valid() {
			v.Statuses = append(v.Statuses, st)
		}
	}
	return v
}

func (v Visibility) Apply(internships []models.Internship) []models.Internship {
	if len(v.Statuses) == 0 {
		return internships
	}
	out := make([]models.Internship, 0, len(internships))
	for _, internship := range internships {
		for _, st := range v.Statuses {
			if internship.Status == st {
				out = append(out, internship)
				break
			}
		}
	}
	return out
}
