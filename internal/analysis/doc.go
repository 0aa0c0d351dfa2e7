// Package analysis derives a structural summary of a repository checkout:
// languages, build markers, test/doc/CI signals, size metrics and commit history.
//
// The walk is a bounded worklist over the checkout. Detectors are independent
// and monotonic: a file can raise any number of signals and no signal is ever
// cleared. Apart from failing to read the checkout root, analysis never fails;
// unreadable subtrees and files are skipped and history queries degrade to
// defaults.
package analysis
