// Package helpers provides go-git fixture repositories and file assertions shared by tests.
package helpers
