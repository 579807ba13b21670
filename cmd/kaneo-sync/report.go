package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/nhle/kaneo-sync/internal/sync"
)

type stepView struct {
	Step    string `json:"step"`
	Outcome string `json:"outcome"`
	Error   string `json:"error,omitempty"`
}

type reportView struct {
	Event   string     `json:"event"`
	TaskID  string     `json:"task_id"`
	Skipped string     `json:"skipped,omitempty"`
	Steps   []stepView `json:"steps"`
}

func newReportView(rep *sync.Report) reportView {
	view := reportView{
		Event:   rep.Event,
		TaskID:  rep.TaskID,
		Skipped: rep.Skipped,
		Steps:   make([]stepView, 0, len(rep.Outcomes)),
	}
	for _, o := range rep.Outcomes {
		step := stepView{Step: o.Step, Outcome: o.Kind.String()}
		if o.Err != nil {
			step.Error = o.Err.Error()
		}
		view.Steps = append(view.Steps, step)
	}
	return view
}

// writeReports prints handler reports as text or, with jsonOutput, as a
// JSON array.
func writeReports(w io.Writer, reports []*sync.Report, jsonOutput bool) error {
	views := make([]reportView, 0, len(reports))
	for _, rep := range reports {
		views = append(views, newReportView(rep))
	}

	if jsonOutput {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(views)
	}

	for _, v := range views {
		if v.Skipped != "" {
			fmt.Fprintf(w, "%s %s: skipped (%s)\n", v.Event, v.TaskID, v.Skipped)
			continue
		}
		fmt.Fprintf(w, "%s %s\n", v.Event, v.TaskID)
		for _, s := range v.Steps {
			if s.Error != "" {
				fmt.Fprintf(w, "  %-32s %s: %s\n", s.Step, s.Outcome, s.Error)
			} else {
				fmt.Fprintf(w, "  %-32s %s\n", s.Step, s.Outcome)
			}
		}
	}
	return nil
}
