package main

import (
	"flag"
	"os"
	"text/tabwriter"

	"github.com/applypilot/applypilot/internal/store"
)

func runAnswers(cmdCtx *commandContext, args []string) error {
	fs := flag.NewFlagSet("answers", flag.ContinueOnError)
	prune := fs.String("prune", "", "remove cached entries whose question contains this term")
	if err := fs.Parse(args); err != nil {
		return err
	}

	st, err := store.New(store.Options{Config: cmdCtx.Config.Storage, Logger: cmdCtx.Logger})
	if err != nil {
		return err
	}

	if *prune != "" {
		removed, err := st.PruneAnswers(*prune)
		if err != nil {
			return err
		}
		return writef(os.Stdout, "removed %d cached answers matching %q\n", removed, *prune)
	}

	entries := st.Answers()
	if len(entries) == 0 {
		return writef(os.Stdout, "no cached answers\n")
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	if err := writef(w, "KIND\tQUESTION\tANSWER\n"); err != nil {
		return err
	}
	for _, entry := range entries {
		if err := writef(w, "%s\t%s\t%s\n", entry.Kind.String(), entry.Question, entry.Answer); err != nil {
			return err
		}
	}
	return w.Flush()
}
