// Package git fetches source repositories and reads their commit history
// using go-git. Clone failures are returned as ClassifiedErrors carrying a
// fetch Reason (invalid_reference, fetch_timeout or fetch_failed).
package git
