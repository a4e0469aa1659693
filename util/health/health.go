// Package health aggregates dependency checks into one status and a JSON
// report. Status values follow net/http codes.
package health

import (
	"context"
	"net/http"

	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Check probes one dependency. checkLiveness asks only whether the
// dependency is running, not whether it is ready to serve.
type Check struct {
	Name  string
	Check func(ctx context.Context, checkLiveness bool) (int, string, error)
}

type Report struct {
	Status       int          `json:"status"`
	Dependencies []Dependency `json:"dependencies"`
}

type Dependency struct {
	Resource string `json:"resource"`
	Status   int    `json:"status"`
	Error    string `json:"error,omitempty"`
	Message  string `json:"message,omitempty"`
}

// CheckAll runs every check in order. Any error or non-200 status makes the
// overall status 503.
func CheckAll(ctx context.Context, checkLiveness bool, checks []Check) (int, string, error) {
	report := Report{
		Status:       http.StatusOK,
		Dependencies: make([]Dependency, 0, len(checks)),
	}

	for _, check := range checks {
		status, message, err := check.Check(ctx, checkLiveness)
		if err != nil || status != http.StatusOK {
			report.Status = http.StatusServiceUnavailable
		}

		dep := Dependency{
			Resource: check.Name,
			Status:   status,
			Message:  message,
		}

		if err != nil {
			dep.Error = err.Error()
		}

		report.Dependencies = append(report.Dependencies, dep)
	}

	b, err := json.Marshal(report)
	if err != nil {
		return http.StatusInternalServerError, "", err
	}

	return report.Status, string(b), nil
}
