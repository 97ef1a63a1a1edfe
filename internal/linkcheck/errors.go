// Package linkcheck crawls the site and reports in-site links that do not resolve.
package linkcheck

import "fmt"

// CheckError represents a crawl that could not run to completion
type CheckError struct {
	Message string
	Cause   error
}

func (e *CheckError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("link check error: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("link check error: %s", e.Message)
}

func (e *CheckError) Unwrap() error {
	return e.Cause
}

// ExtractionError represents a failure in extracting links from HTML
type ExtractionError struct {
	Message string
	Cause   error
}

func (e *ExtractionError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("link extraction error: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("link extraction error: %s", e.Message)
}

func (e *ExtractionError) Unwrap() error {
	return e.Cause
}
