package security

// Status is the outcome of one check.
type Status int

const (
	StatusPass Status = iota
	StatusWarn
	StatusFail
)

func (s Status) String() string {
	switch s {
	case StatusPass:
		return "pass"
	case StatusWarn:
		return "warn"
	case StatusFail:
		return "fail"
	default:
		return "unknown"
	}
}

// Check names
const (
	CheckGitignore   = "gitignore"
	CheckGitTracking = "git-tracking"
	CheckSource      = "source-secrets"
	CheckPermissions = "permissions"
)

// CheckResult is the outcome of one check with its findings.
type CheckResult struct {
	Name   string
	Status Status
	Issues []string
}

// Report collects the results of an audit in execution order.
type Report struct {
	Results []CheckResult
}

// Passed reports whether no check failed. Warnings do not fail an audit.
func (r *Report) Passed() bool {
	for _, res := range r.Results {
		if res.Status == StatusFail {
			return false
		}
	}
	return true
}

// Result returns the result of the named check.
func (r *Report) Result(name string) (CheckResult, bool) {
	for _, res := range r.Results {
		if res.Name == name {
			return res, true
		}
	}
	return CheckResult{}, false
}
