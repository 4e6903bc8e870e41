package console

import (
	"fmt"
	"log"

	"github.com/charmbracelet/lipgloss"
	"go.uber.org/atomic"
)

var (
	startupTag = lipgloss.NewStyle().Foreground(lipgloss.Color("4")).Bold(true).Render("[STARTUP]")
	logTag     = lipgloss.NewStyle().Foreground(lipgloss.Color("7")).Render("[LOG]")
	sessionTag = lipgloss.NewStyle().Foreground(lipgloss.Color("2")).Render("[SESSION]")
	debugTag   = lipgloss.NewStyle().Foreground(lipgloss.Color("5")).Render("[DEBUG]")
	errorTag   = lipgloss.NewStyle().Foreground(lipgloss.Color("1")).Bold(true).Render("[ERROR]")
	closingTag = lipgloss.NewStyle().Foreground(lipgloss.Color("1")).Render("[CLOSING]")
)

var debug atomic.Bool

func SetDebug(enabled bool) { debug.Store(enabled) }

func DebugEnabled() bool { return debug.Load() }

func Startup(format string, args ...any) { output(startupTag, format, args...) }
func Info(format string, args ...any)    { output(logTag, format, args...) }
func Session(format string, args ...any) { output(sessionTag, format, args...) }
func Error(format string, args ...any)   { output(errorTag, format, args...) }
func Closing(format string, args ...any) { output(closingTag, format, args...) }

func Debug(format string, args ...any) {
	if !debug.Load() {
		return
	}
	output(debugTag, format, args...)
}

func output(tag, format string, args ...any) {
	_ = log.Output(3, tag+" "+fmt.Sprintf(format, args...))
}
