// Package output provides formatters for CLI output.
package output

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"

	"taskdash/internal/service"
)

// Output formats accepted by the list command.
const (
	FormatText = "text"
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// DateLayout is how creation dates are shown.
const DateLayout = "2006-01-02"

// ValidFormat reports whether f is a known output format.
func ValidFormat(f string) bool {
	switch f {
	case FormatText, FormatJSON, FormatYAML:
		return true
	}
	return false
}

// FormatTask formats a task line.
// Format: "{N:>4}  {TITLE}  [{STATUS}]  Created: {DATE}\n"
func FormatTask(w io.Writer, num int, task service.Task) {
	fmt.Fprintf(w, "%4d  %s  [%s]  Created: %s\n",
		num, normalizeTitle(task.Title), task.Status.Label(), FormatDate(task))
}

// FormatDate returns the creation date, or "-" when the server sent none.
func FormatDate(task service.Task) string {
	if task.CreatedAt.IsZero() {
		return "-"
	}
	return task.CreatedAt.Local().Format(DateLayout)
}

// FormatUser formats the greeting line.
func FormatUser(w io.Writer, user service.User) {
	name := strings.TrimSpace(user.Name)
	if name == "" {
		name = user.Email
	}
	fmt.Fprintf(w, "Welcome, %s\n", name)
}

// WriteTasks writes tasks in the given format. Text output numbers tasks
// from 1; JSON and YAML emit the records with missing statuses as pending.
func WriteTasks(w io.Writer, format string, tasks []service.Task) error {
	switch format {
	case FormatText, "":
		for i, t := range tasks {
			FormatTask(w, i+1, t)
		}
		return nil
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(displayTasks(tasks))
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(displayTasks(tasks)); err != nil {
			return err
		}
		return enc.Close()
	}
	return fmt.Errorf("unknown format: %s", format)
}

func displayTasks(tasks []service.Task) []service.Task {
	out := make([]service.Task, len(tasks))
	for i, t := range tasks {
		t.Status = t.Status.OrDefault()
		out[i] = t
	}
	return out
}

// normalizeTitle normalizes a task title for display.
// - Empty or whitespace-only titles become "(untitled)"
// - Newlines are replaced with spaces
func normalizeTitle(title string) string {
	title = strings.ReplaceAll(title, "\r", " ")
	title = strings.ReplaceAll(title, "\n", " ")

	if strings.TrimSpace(title) == "" {
		return "(untitled)"
	}
	return title
}
