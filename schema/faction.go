package schema

import "strings"

// Faction identifies a house the visitor can swear allegiance to.
type Faction string

const (
	FactionNone      Faction = ""
	FactionTargaryen Faction = "targaryen"
	FactionStark     Faction = "stark"
	FactionLannister Faction = "lannister"
	FactionTyrell    Faction = "tyrell"
	FactionBaratheon Faction = "baratheon"
	FactionMartell   Faction = "martell"
	FactionGreyjoy   Faction = "greyjoy"
	FactionArryn     Faction = "arryn"
	FactionTully     Faction = "tully"
	// FactionHedge is only reachable through the hedge knight easter egg.
	FactionHedge Faction = "dunkthelunk"
)

// House is the display data for a faction.
type House struct {
	Key     Faction
	Display string
	Words   string
}

var houses = []House{
	{Key: FactionTargaryen, Display: "Targaryen", Words: "Fire and Blood"},
	{Key: FactionStark, Display: "Stark", Words: "Winter is Coming"},
	{Key: FactionLannister, Display: "Lannister", Words: "Hear Me Roar"},
	{Key: FactionTyrell, Display: "Tyrell", Words: "Growing Strong"},
	{Key: FactionBaratheon, Display: "Baratheon", Words: "Ours is the Fury"},
	{Key: FactionMartell, Display: "Martell", Words: "Unbowed, Unbent, Unbroken"},
	{Key: FactionGreyjoy, Display: "Greyjoy", Words: "We Do Not Sow"},
	{Key: FactionArryn, Display: "Arryn", Words: "As High as Honor"},
	{Key: FactionTully, Display: "Tully", Words: "Family, Duty, Honor"},
}

var hedgeHouse = House{Key: FactionHedge, Display: "Dunk the Lunk", Words: "A hedge knight is a true knight."}

// Houses returns the swearable houses in display order.
func Houses() []House {
	return append([]House(nil), houses...)
}

// LookupHouse returns the house data for a faction, including the hidden one.
func LookupHouse(f Faction) (House, bool) {
	if f == FactionHedge {
		return hedgeHouse, true
	}
	for _, h := range houses {
		if h.Key == f {
			return h, true
		}
	}
	return House{}, false
}

// Swearable reports whether the faction can be chosen with swear-allegiance.
func (f Faction) Swearable() bool {
	if f == FactionHedge {
		return false
	}
	_, ok := LookupHouse(f)
	return ok
}

// Display returns the house display name or an empty string.
func (f Faction) Display() string {
	h, _ := LookupHouse(f)
	return h.Display
}

// ParseFaction normalizes user input such as "House-Stark" to a faction key.
// The result is not validated.
func ParseFaction(arg string) Faction {
	key := strings.ToLower(strings.TrimSpace(arg))
	if rest, ok := strings.CutPrefix(key, "house"); ok {
		key = strings.TrimPrefix(rest, "-")
	}
	return Faction(key)
}
