package domain

import (
	"strings"
	"time"
)

// Status is the outcome of a single probe or of a whole report.
type Status string

const (
	StatusOK   Status = "OK"
	StatusWarn Status = "WARN"
	StatusFail Status = "FAIL"
)

// Severity ranks a status for aggregation. Unknown statuses rank with FAIL.
func (s Status) Severity() int {
	switch s {
	case StatusOK:
		return 0
	case StatusWarn:
		return 1
	default:
		return 2
	}
}

// Worse reports whether s is strictly more severe than other.
func (s Status) Worse(other Status) bool { return s.Severity() > other.Severity() }

// CheckResult is the outcome of one probe.
type CheckResult struct {
	Name    string `json:"name"`
	Status  Status `json:"status"`
	Message string `json:"message"`
}

func OK(name, message string) CheckResult {
	return CheckResult{Name: name, Status: StatusOK, Message: message}
}

func Warn(name, message string) CheckResult {
	return CheckResult{Name: name, Status: StatusWarn, Message: message}
}

func Fail(name, message string) CheckResult {
	return CheckResult{Name: name, Status: StatusFail, Message: message}
}

// Aggregate returns the highest-severity status among results.
// An empty slice aggregates to StatusOK.
func Aggregate(results []CheckResult) Status {
	overall := StatusOK
	for _, r := range results {
		if r.Status.Worse(overall) {
			overall = r.Status
		}
	}
	if overall.Severity() == StatusFail.Severity() {
		return StatusFail
	}
	return overall
}

var summaryMessages = map[Status]string{
	StatusOK:   "All checks passed, the environment is ready.",
	StatusWarn: "Some checks reported warnings, follow the hints to finish setup.",
	StatusFail: "Some checks failed, fix the critical issues first.",
}

// SummaryMessage returns the human-readable verdict for an overall status.
func SummaryMessage(s Status) string {
	if msg, ok := summaryMessages[s]; ok {
		return msg
	}
	return "Some checks returned an unknown status, review them manually."
}

// Report is the ordered set of probe results from one run plus the derived
// overall status.
type Report struct {
	Results     []CheckResult `json:"results"`
	Status      Status        `json:"status"`
	Summary     string        `json:"summary"`
	GeneratedAt time.Time     `json:"generated_at"`
	Hostname    string        `json:"hostname,omitempty"`
	CommitHash  string        `json:"commit_hash,omitempty"`
}

// NewReport builds a report whose overall status is always derived from
// results.
func NewReport(results []CheckResult, generatedAt time.Time) *Report {
	copied := make([]CheckResult, len(results))
	copy(copied, results)
	status := Aggregate(copied)
	return &Report{
		Results:     copied,
		Status:      status,
		Summary:     SummaryMessage(status),
		GeneratedAt: generatedAt,
	}
}

// Counts returns how many results carry each status.
func (r *Report) Counts() (ok, warn, fail int) {
	for _, res := range r.Results {
		switch res.Status {
		case StatusOK:
			ok++
		case StatusWarn:
			warn++
		default:
			fail++
		}
	}
	return ok, warn, fail
}

// Result returns the result with the given name, if present.
func (r *Report) Result(name string) (CheckResult, bool) {
	for _, res := range r.Results {
		if strings.EqualFold(res.Name, name) {
			return res, true
		}
	}
	return CheckResult{}, false
}

// HistoryEntry is one recorded run.
type HistoryEntry struct {
	Timestamp  string `json:"timestamp"`
	CommitHash string `json:"commit_hash,omitempty"`
	Status     Status `json:"status"`
	Passed     int    `json:"passed"`
	Warnings   int    `json:"warnings"`
	Failures   int    `json:"failures"`
}

// NewHistoryEntry summarizes a report for the run history.
func NewHistoryEntry(r *Report) HistoryEntry {
	ok, warn, fail := r.Counts()
	return HistoryEntry{
		Timestamp:  r.GeneratedAt.Format(time.RFC3339),
		CommitHash: r.CommitHash,
		Status:     r.Status,
		Passed:     ok,
		Warnings:   warn,
		Failures:   fail,
	}
}
