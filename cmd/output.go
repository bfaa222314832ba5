package cmd

import (
	"fmt"
	"io"
	"os"
)

// ── Unified output helpers ────────────────────────────────────────────────────
// Results go to out, failures to errOut. Tests swap both.
//
// Icon semantics:
//   ✓  success / healthy
//   ✗  error / failure          (written to errOut)
//   ⚠  warning
//   ○  skipped / not applicable
//   -  not found / missing
//   ~  neutral info
var (
	out    io.Writer = os.Stdout
	errOut io.Writer = os.Stderr
)

// printSection prints a top-level section header, e.g. "=== Inspect ===".
func printSection(title string) {
	fmt.Fprintf(out, "\n=== %s ===\n", title)
}

// printBullet prints a grouped-section bullet, e.g. "● Vacancies:".
func printBullet(title string) {
	fmt.Fprintf(out, "\n● %s\n", title)
}

// printLine prints an icon line.
//   name = "" → "  ✓  msg"
//   name set  → "  ✓  [name] msg"
func printLine(w io.Writer, icon, name, msg string) {
	if name == "" {
		fmt.Fprintf(w, "  %s  %s\n", icon, msg)
	} else {
		fmt.Fprintf(w, "  %s  [%s] %s\n", icon, name, msg)
	}
}

func printOK(name, msg string)   { printLine(out, "✓", name, msg) }
func printErr(name, msg string)  { printLine(errOut, "✗", name, msg) }
func printWarn(name, msg string) { printLine(out, "⚠", name, msg) }
func printSkip(name, msg string) { printLine(out, "○", name, msg) }
func printMiss(name, msg string) { printLine(out, "-", name, msg) }
func printInfo(name, msg string) { printLine(out, "~", name, msg) }
