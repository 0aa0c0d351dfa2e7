// Package workspace manages the per-run scratch directories that hold a
// repository checkout for the lifetime of one generation run.
//
// Each Create call makes a unique directory (gitscriptor-*) below the base
// directory, so concurrent runs never share a checkout. Cleanup removes it and
// is safe to call more than once.
package workspace
