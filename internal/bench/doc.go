// Package bench holds the three benchmark runs as library functions so the
// programs under cmd/ only parse flags and print.
package bench
