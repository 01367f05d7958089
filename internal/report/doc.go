// Package report renders benchmark output: the plain summary lines on
// stdout, optional per-task tables and a progress bar observer.
package report
