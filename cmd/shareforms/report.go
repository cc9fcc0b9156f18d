package main

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/goliatone/go-shareforms/pkg/failure"
	"github.com/goliatone/go-shareforms/pkg/orchestrator"
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#4D96FF"))
	fileStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#6BCB77"))
	mutedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#AAAAAA"))
	warnStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#FFD93D"))
	errorStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#FF6B6B"))
)

func printReport(w io.Writer, result orchestrator.Result) {
	var b strings.Builder
	if result.NoForms {
		b.WriteString(mutedStyle.Render("No forms found in your workflow."))
		b.WriteString("\n")
		b.WriteString(mutedStyle.Render("The workflow should load into Alfresco as-is."))
		b.WriteString("\n\n")
	}
	for _, form := range result.Forms {
		kind := "task"
		if form.StartTask {
			kind = "start"
		}
		fmt.Fprintf(&b, "%s %s -> %s (%s, %d fields)\n",
			mutedStyle.Render("form"), form.OldKey, form.NewKey, kind, form.Fields)
	}
	if len(result.Issues) > 0 {
		fmt.Fprintf(&b, "%s\n", warnStyle.Render(fmt.Sprintf("%d warning(s):", len(result.Issues))))
		for _, issue := range result.Issues {
			fmt.Fprintf(&b, "  %s\n", issue.String())
		}
	}
	if b.Len() > 0 {
		b.WriteString("\n")
	}
	b.WriteString(titleStyle.Render("Conversion completed!"))
	b.WriteString("\nFiles generated are:\n")
	for _, path := range result.Files {
		fmt.Fprintf(&b, "  %s\n", fileStyle.Render(path))
	}
	io.WriteString(w, b.String())
}

func printError(w io.Writer, err error) {
	var fe *failure.Error
	if !errors.As(err, &fe) {
		fmt.Fprintf(w, "%s %v\n", errorStyle.Render("Error -"), err)
		return
	}
	fmt.Fprintf(w, "%s %s\n", errorStyle.Render("Error -"), fe.Message)
	if fe.Err != nil {
		fmt.Fprintf(w, "  %s\n", mutedStyle.Render(fe.Err.Error()))
	}
	for _, detail := range fe.Details {
		fmt.Fprintf(w, "  %s\n", detail)
	}
	fmt.Fprintf(w, "%s\n", mutedStyle.Render(fmt.Sprintf("(%s error %s)", fe.Kind, fe.Code)))
}
