/*
calendar.go - Canonical months, time slots and the balance grid

PURPOSE:
  The calendar structure every per-slot computation shares: the twelve
  months in order, the five daily time slots with their durations, and the
  month-major (month, slot) key sequence the balance grid is built from.
  Map-valued configuration expands to knobs in THESE orders, so the orders
  here are part of the document contract, not presentation detail.

SEE ALSO:
  - declarations.go: Expands monthly and per-slot maps in calendar order
  - document/: Builds the 60-row grid from GridKeys()
*/
package scenario

import (
	"github.com/terrawatt/balance-engine/engine"
)

// Months lists the twelve months in calendar order, spelled the way they
// appear in exported tables.
var Months = []string{
	"Janvier", "Février", "Mars", "Avril", "Mai", "Juin",
	"Juillet", "Août", "Septembre", "Octobre", "Novembre", "Décembre",
}

// WinterMonths lists the heating-season months, used by reporting.
var WinterMonths = []string{"Novembre", "Décembre", "Janvier", "Février", "Mars"}

// Slot is one daily time slot with its duration in hours.
type Slot struct {
	Name  string
	Hours int
}

// Slots lists the five daily slots in order. Durations sum to 24.
var Slots = []Slot{
	{Name: "8h-13h", Hours: 5},
	{Name: "13h-18h", Hours: 5},
	{Name: "18h-20h", Hours: 2},
	{Name: "20h-23h", Hours: 3},
	{Name: "23h-8h", Hours: 9},
}

// SlotNames returns the slot names in order.
func SlotNames() []string {
	names := make([]string, len(Slots))
	for i, s := range Slots {
		names[i] = s.Name
	}
	return names
}

// SlotHours returns a slot's duration in hours.
func SlotHours(name string) (int, bool) {
	for _, s := range Slots {
		if s.Name == name {
			return s.Hours, true
		}
	}
	return 0, false
}

// AssignSlot maps an hour of day (0-23) to its slot name.
func AssignSlot(hour int) string {
	switch {
	case hour >= 8 && hour < 13:
		return "8h-13h"
	case hour >= 13 && hour < 18:
		return "13h-18h"
	case hour >= 18 && hour < 20:
		return "18h-20h"
	case hour >= 20 && hour < 23:
		return "20h-23h"
	default:
		return "23h-8h"
	}
}

// GridKeys returns the 60 (month, slot) keys in month-major order, the row
// order of every per-slot table.
func GridKeys() []engine.GridKey {
	keys := make([]engine.GridKey, 0, len(Months)*len(Slots))
	for _, m := range Months {
		for _, s := range Slots {
			keys = append(keys, engine.GridKey{Mois: m, Plage: s.Name})
		}
	}
	return keys
}

// BalanceGrid builds the shared grid over GridKeys.
func BalanceGrid() (*engine.Grid, error) {
	return engine.NewGrid("bilan", GridKeys())
}
