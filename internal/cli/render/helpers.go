package render

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/trebuchet-org/sling/internal/domain"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var (
	headerStyle  = color.New(color.FgCyan, color.Bold)
	nameStyle    = color.New(color.FgGreen, color.Bold)
	addressStyle = color.New(color.FgWhite)
	faintStyle   = color.New(color.Faint)
	warnStyle    = color.New(color.FgYellow)
	errorStyle   = color.New(color.FgRed)
	okStyle      = color.New(color.FgGreen)
)

// FormatError formats an error message with the error icon
func FormatError(message string) string {
	msg := message
	if len(msg) > 0 {
		msg = strings.ToUpper(msg[:1]) + msg[1:]
	}
	return errorStyle.Sprintf("❌ %s", msg)
}

// FormatWarning formats a warning message with the warning icon
func FormatWarning(message string) string {
	return warnStyle.Sprintf("⚠️  %s", message)
}

// FormatSuccess formats a success message with the success icon
func FormatSuccess(message string) string {
	return okStyle.Sprintf("✅ %s", message)
}

// statusTitle renders "dry-run" as "Dry-Run" and "completed" as "Completed"
func statusTitle(status domain.MigrationStatus) string {
	return cases.Title(language.English).String(string(status))
}

// coloredStatus colors a migration status for tables
func coloredStatus(status domain.MigrationStatus) string {
	title := statusTitle(status)
	switch status {
	case domain.MigrationCompleted:
		return okStyle.Sprint(title)
	case domain.MigrationSkipped:
		return warnStyle.Sprint(title)
	case domain.MigrationPending:
		return faintStyle.Sprint(title)
	default:
		return title
	}
}

// newTable returns a borderless left-aligned table
func newTable() table.Writer {
	t := table.NewWriter()
	t.SetStyle(table.StyleLight)
	t.Style().Options.DrawBorder = false
	t.Style().Options.SeparateColumns = false
	t.Style().Options.SeparateRows = false
	t.Style().Options.SeparateHeader = true
	t.Style().Format.Header = text.FormatDefault
	t.Style().Box.PaddingRight = "  "
	return t
}

// getRelativePath returns the relative path from current directory
func getRelativePath(path string) string {
	cwd, err := os.Getwd()
	if err != nil {
		return path
	}

	relPath, err := filepath.Rel(cwd, path)
	if err != nil {
		return path
	}

	return relPath
}
