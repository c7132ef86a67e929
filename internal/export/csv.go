package export

import (
	"encoding/csv"
	"fmt"
	"os"
	"time"

	"github.com/sadopc/goalify/internal/store"
)

var csvHeader = []string{"ID", "Name", "Date", "Type", "Completed At", "Note"}

func ToCSV(tasks []store.Task, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create csv file: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	if err := w.Write(csvHeader); err != nil {
		return err
	}

	for _, t := range tasks {
		row := []string{
			t.ID,
			t.Name,
			t.Date,
			kindLabel(t.Kind),
			formatCompletedAt(t.CompletedAt),
			noteText(t.Note),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	return w.Error()
}

func kindLabel(k store.Kind) string {
	if k == store.KindAdhoc {
		return "adhoc"
	}
	return "default"
}

func formatCompletedAt(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Local().Format(time.RFC3339)
}

func noteText(n *string) string {
	if n == nil {
		return ""
	}
	return *n
}
