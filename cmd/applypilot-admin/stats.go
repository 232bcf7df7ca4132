package main

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"text/tabwriter"
	"time"

	"github.com/applypilot/applypilot/internal/domain/model"
	"github.com/applypilot/applypilot/internal/store"
)

func runStats(cmdCtx *commandContext, _ []string) error {
	st, err := store.New(store.Options{Config: cmdCtx.Config.Storage, Logger: cmdCtx.Logger})
	if err != nil {
		return err
	}

	categories := []model.OutcomeCategory{
		model.OutcomeSuccess,
		model.OutcomeManualApply,
		model.OutcomeSkipped,
		model.OutcomeFailed,
		model.OutcomeData,
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	if err := writef(w, "CATEGORY\tRECORDS\tLAST STORED\n"); err != nil {
		return err
	}
	total := 0
	for _, category := range categories {
		records := st.Outcomes(category)
		total += len(records)
		last := ""
		if n := len(records); n > 0 {
			last = records[n-1].StoredAt.Format(time.RFC3339)
		}
		if err := writef(w, "%s\t%d\t%s\n", category.String(), len(records), last); err != nil {
			return err
		}
	}
	if err := writef(w, "total\t%d\t\n", total); err != nil {
		return err
	}
	return w.Flush()
}

func runSession(cmdCtx *commandContext, _ []string) error {
	path := cmdCtx.Config.Pacing.SessionFile
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return writef(os.Stdout, "no session state at %s\n", path)
	}
	if err != nil {
		return err
	}

	var state model.SessionState
	if err := json.Unmarshal(data, &state); err != nil {
		return fmt.Errorf("parse session state %s: %w", path, err)
	}

	if err := writef(os.Stdout, "last session: %s\n", state.LastSession.Format(time.RFC3339)); err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	if err := writef(w, "DAY\tREQUESTS\n"); err != nil {
		return err
	}
	days := make([]string, 0, len(state.DailyRequests))
	for day := range state.DailyRequests {
		days = append(days, day)
	}
	sort.Strings(days)
	for _, day := range days {
		if err := writef(w, "%s\t%d\n", day, state.DailyRequests[day]); err != nil {
			return err
		}
	}
	if err := w.Flush(); err != nil {
		return err
	}

	w = tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	if err := writef(w, "DOMAIN\tVISITS\n"); err != nil {
		return err
	}
	domains := make([]string, 0, len(state.DomainVisits))
	for domain := range state.DomainVisits {
		domains = append(domains, domain)
	}
	sort.Slice(domains, func(i, j int) bool {
		return state.DomainVisits[domains[i]] > state.DomainVisits[domains[j]]
	})
	for _, domain := range domains {
		if err := writef(w, "%s\t%d\n", domain, state.DomainVisits[domain]); err != nil {
			return err
		}
	}
	return w.Flush()
}
