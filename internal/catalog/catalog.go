// Package catalog provides the symptom vocabulary offered to end users.
//
// The engine only ever receives identifiers; labels exist for display.
// Membership is advisory: callers may warn about unknown identifiers, but
// the engine accepts them and they simply match no rule.
package catalog

import "github.com/roach88/hwdiag/internal/ir"

// Entry pairs a symptom identifier with its display label.
type Entry struct {
	ID    ir.Symptom `json:"id"`
	Label string     `json:"label"`
}

// Default returns the built-in catalog in display order.
func Default() []Entry {
	return []Entry{
		{ID: "nao_liga", Label: "Computador não liga"},
		{ID: "reinicia_sozinho", Label: "Reinicia sozinho"},
		{ID: "superaquecendo", Label: "Superaquecendo"},
		{ID: "lento", Label: "Muito lento"},
		{ID: "uso_disco_alto", Label: "Uso de disco muito alto"},
		{ID: "pouca_memoria", Label: "Pouca memória disponível"},
		{ID: "sem_video", Label: "Sem vídeo (monitor sem sinal)"},
		{ID: "ruidos", Label: "Ruídos estranhos (cliques/chiados)"},
	}
}

// Label returns the display label of id.
func Label(id ir.Symptom) (string, bool) {
	for _, e := range Default() {
		if e.ID == id {
			return e.Label, true
		}
	}
	return "", false
}

// Known reports whether id is in the catalog.
func Known(id ir.Symptom) bool {
	_, ok := Label(id)
	return ok
}

// Unknown returns the identifiers of symptoms not in the catalog, in input
// order, without duplicates.
func Unknown(symptoms []ir.Symptom) []ir.Symptom {
	var out []ir.Symptom
	seen := make(map[ir.Symptom]bool)
	for _, s := range symptoms {
		if seen[s] || Known(s) {
			continue
		}
		seen[s] = true
		out = append(out, s)
	}
	return out
}
