// Package apperrors defines the error types and process exit codes shared
// by the benchmark programs.
//
// Only invalid configuration is handled specially: it is detected before
// any work starts and maps to a dedicated exit code. Any other failure,
// including a crashed worker, fails the whole run.
package apperrors
