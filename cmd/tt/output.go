package main

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"task-tracker/internal/identity"
	"task-tracker/pkg/eventgraph"
	"task-tracker/pkg/task"
)

func issueToken(secret, principal string, ttl time.Duration) (string, error) {
	return identity.Issue([]byte(secret), principal, time.Now(), ttl)
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func truncStr(s string, n int) string {
	if len(s) > n {
		return s[:n]
	}
	return s
}

func printShortTasks(tasks []task.Task) {
	for _, t := range tasks {
		assignee := t.Assignee.OrZero()
		if assignee == "" {
			assignee = "-"
		}
		fmt.Printf("%-36s  %-10s  %-16s  %-12s  %s\n",
			t.ID, truncStr(t.Status, 10), t.DueAt.Local().Format("2006-01-02 15:04"), truncStr(assignee, 12), truncStr(t.Title, 60))
	}
}

func printShortEvents(events []eventgraph.Event) {
	for _, e := range events {
		fmt.Printf("%-8s  %-20s  %-12s  %s\n",
			e.Timestamp.Local().Format("15:04:05"), truncStr(e.Type, 20), truncStr(e.Source, 12), e.Subject)
	}
}
