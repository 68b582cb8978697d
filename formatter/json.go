package formatter

import (
	"encoding/json"
	"fmt"

	tt "github.com/gnolang/pystyle/internal/types"
)

// FileReport holds the issues of one file.
type FileReport struct {
	Path   string     `json:"path"`
	Issues []tt.Issue `json:"issues"`
}

// GroupByFile groups issues by file, keeping files in the order they first
// appear and issues in their original order.
func GroupByFile(issues []tt.Issue) []FileReport {
	reports := []FileReport{}
	index := make(map[string]int)
	for _, issue := range issues {
		i, ok := index[issue.Filename]
		if !ok {
			i = len(reports)
			index[issue.Filename] = i
			reports = append(reports, FileReport{Path: issue.Filename})
		}
		reports[i].Issues = append(reports[i].Issues, issue)
	}
	return reports
}

// FormatJSON renders issues as a JSON array of FileReport.
func FormatJSON(issues []tt.Issue) ([]byte, error) {
	d, err := json.MarshalIndent(GroupByFile(issues), "", "  ")
	if err != nil {
		return nil, fmt.Errorf("error marshalling issues to JSON: %w", err)
	}
	return d, nil
}
