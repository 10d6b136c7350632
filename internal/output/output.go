package output

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/charmbracelet/lipgloss"

	"github.com/simonhull/firebird-suite/wren/internal/fields"
)

var (
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("green")).Bold(true)
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("red")).Bold(true)
	warnStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("yellow"))
	infoStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("cyan"))
	stepStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))

	mu          sync.Mutex
	writer      io.Writer = os.Stdout
	verboseMode bool
)

// SetWriter redirects all output. Passing nil restores stdout.
func SetWriter(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	if w == nil {
		w = os.Stdout
	}
	writer = w
}

// SetVerbose enables or disables verbose output.
func SetVerbose(v bool) {
	mu.Lock()
	defer mu.Unlock()
	verboseMode = v
}

func writeLine(s string) {
	mu.Lock()
	defer mu.Unlock()
	fmt.Fprintln(writer, s)
}

// Success prints a completed-operation message.
//
//	output.Success("Created new transaction type: Transfer")
func Success(msg string) {
	writeLine(successStyle.Render("✨ " + msg))
}

// Error prints a failure that needs the user's attention.
func Error(msg string) {
	writeLine(errorStyle.Render("❌ " + msg))
}

// Warn prints a non-fatal problem.
func Warn(msg string) {
	writeLine(warnStyle.Render("⚠️  " + msg))
}

// Info prints a status update or heading.
func Info(msg string) {
	writeLine(infoStyle.Render("ℹ️  " + msg))
}

// Step prints an indented sub-item.
func Step(msg string) {
	writeLine(stepStyle.Render("   " + msg))
}

// Plain prints msg without styling.
func Plain(msg string) {
	writeLine(msg)
}

// Verbose prints msg only when verbose mode is enabled.
func Verbose(msg string) {
	mu.Lock()
	v := verboseMode
	mu.Unlock()
	if v {
		writeLine(stepStyle.Render("🔍 " + msg))
	}
}

// TransactionSummary reports a created transaction type and its fields,
// followed by a reminder to fill in the generated logic.
func TransactionSummary(name string, list fields.List) {
	Success(fmt.Sprintf("Created new transaction type: %s", name))
	Plain("Transaction fields:")
	for _, f := range list {
		Plain(fmt.Sprintf("  %s: %s", f.Name, f.Type))
	}
	Plain("")
	Plain("Update the verify() and process() methods in src/tx.rs to add your custom logic!")
}
