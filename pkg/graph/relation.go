package graph

import (
	"fmt"
	"strings"
)

// Relation is one of the fixed, source-independent edge labels.
type Relation string

const (
	RelatedTo                 Relation = "RelatedTo"
	FormOf                    Relation = "FormOf"
	IsA                       Relation = "IsA"
	PartOf                    Relation = "PartOf"
	HasA                      Relation = "HasA"
	UsedFor                   Relation = "UsedFor"
	CapableOf                 Relation = "CapableOf"
	AtLocation                Relation = "AtLocation"
	Causes                    Relation = "Causes"
	HasSubevent               Relation = "HasSubevent"
	HasFirstSubevent          Relation = "HasFirstSubevent"
	HasLastSubevent           Relation = "HasLastSubevent"
	HasPrerequisite           Relation = "HasPrerequisite"
	HasProperty               Relation = "HasProperty"
	MotivatedByGoal           Relation = "MotivatedByGoal"
	ObstructedBy              Relation = "ObstructedBy"
	Desires                   Relation = "Desires"
	CreatedBy                 Relation = "CreatedBy"
	Synonym                   Relation = "Synonym"
	Antonym                   Relation = "Antonym"
	DistinctFrom              Relation = "DistinctFrom"
	DerivedFrom               Relation = "DerivedFrom"
	SymbolOf                  Relation = "SymbolOf"
	DefinedAs                 Relation = "DefinedAs"
	MannerOf                  Relation = "MannerOf"
	LocatedNear               Relation = "LocatedNear"
	HasContext                Relation = "HasContext"
	SimilarTo                 Relation = "SimilarTo"
	EtymologicallyRelatedTo   Relation = "EtymologicallyRelatedTo"
	EtymologicallyDerivedFrom Relation = "EtymologicallyDerivedFrom"
	CausesDesire              Relation = "CausesDesire"
	MadeOf                    Relation = "MadeOf"
	ReceivesAction            Relation = "ReceivesAction"
	InstanceOf                Relation = "InstanceOf"
	Entails                   Relation = "Entails"
	NotDesires                Relation = "NotDesires"
	NotUsedFor                Relation = "NotUsedFor"
	NotCapableOf              Relation = "NotCapableOf"
	NotHasProperty            Relation = "NotHasProperty"
	ExternalURL               Relation = "ExternalURL"
)

var allRelations = []Relation{
	RelatedTo, FormOf, IsA, PartOf, HasA, UsedFor, CapableOf, AtLocation, Causes,
	HasSubevent, HasFirstSubevent, HasLastSubevent, HasPrerequisite, HasProperty,
	MotivatedByGoal, ObstructedBy, Desires, CreatedBy, Synonym, Antonym, DistinctFrom,
	DerivedFrom, SymbolOf, DefinedAs, MannerOf, LocatedNear, HasContext, SimilarTo,
	EtymologicallyRelatedTo, EtymologicallyDerivedFrom, CausesDesire, MadeOf,
	ReceivesAction, InstanceOf, Entails, NotDesires, NotUsedFor, NotCapableOf,
	NotHasProperty, ExternalURL,
}

// relationsByName is keyed by lowercased name; read-only after init.
var relationsByName = func() map[string]Relation {
	m := make(map[string]Relation, len(allRelations))
	for _, r := range allRelations {
		m[strings.ToLower(string(r))] = r
	}
	return m
}()

// Relations returns the enumeration in declaration order.
func Relations() []Relation {
	out := make([]Relation, len(allRelations))
	copy(out, allRelations)
	return out
}

// Valid reports whether r is part of the enumeration.
func (r Relation) Valid() bool {
	known, ok := relationsByName[strings.ToLower(string(r))]
	return ok && known == r
}

// URI returns the relation as a path, e.g. "/r/IsA".
func (r Relation) URI() string { return "/r/" + string(r) }

// UnknownRelationError is returned for relation names outside the
// enumeration, and for source markers with no mapping.
type UnknownRelationError struct {
	Relation string
}

func (e *UnknownRelationError) Error() string {
	return fmt.Sprintf("unknown relation %q", e.Relation)
}

// ParseRelation accepts "IsA", "isa" or "/r/IsA".
func ParseRelation(s string) (Relation, error) {
	name := strings.TrimPrefix(strings.TrimSpace(s), "/r/")
	if r, ok := relationsByName[strings.ToLower(name)]; ok {
		return r, nil
	}
	return "", &UnknownRelationError{Relation: s}
}
