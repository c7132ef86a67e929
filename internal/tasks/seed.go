package tasks

import "github.com/sadopc/goalify/internal/store"

// Seeds are the templates created for a user who has none.
var Seeds = []store.DefaultTask{
	{Name: "Ore Sonno", Order: 1, Color: "#3b82f6", Enabled: true},
	{Name: "Peso", Order: 2, Color: "#22c55e", Enabled: true},
	{Name: "Creme Corpo", Order: 3, Color: "#f59e0b", Enabled: true},
	{Name: "Mandare CV", Order: 4, Color: "#ef4444", Enabled: true},
	{Name: "Corsa", Order: 5, Color: "#8b5cf6", Enabled: true},
	{Name: "Studio", Order: 6, Color: "#06b6d4", Enabled: true},
	{Name: "KCAL", Order: 7, Color: "#ec4899", Enabled: true},
	{Name: "Bicchieri d'acqua", Order: 8, Color: "#14b8a6", Enabled: true},
	{Name: "Ottimizzazione Workflow", Order: 9, Color: "#6366f1", Enabled: true},
}
