package translate

import (
	"slices"

	"golang.org/x/exp/maps"
)

// DefaultIgnoredMacros come from math.h and netinet/in.h and collide with
// generated enum variants on some platforms
var DefaultIgnoredMacros = []string{
	"FP_INFINITE",
	"FP_NAN",
	"FP_NORMAL",
	"FP_SUBNORMAL",
	"FP_ZERO",
	"IPPORT_RESERVED",
}

// MacroSet is a set of macro names which are not translated
type MacroSet map[string]struct{}

func NewMacroSet(names ...string) MacroSet {
	s := make(MacroSet, len(names))
	for _, n := range names {
		if n != "" {
			s[n] = struct{}{}
		}
	}
	return s
}

// WillParse is the macro predicate for Callbacks.WillParseMacro
func (s MacroSet) WillParse(name string) bool {
	_, ignored := s[name]
	return !ignored
}

// Names returns the sorted macro names
func (s MacroSet) Names() []string {
	res := maps.Keys(s)
	slices.Sort(res)
	return res
}
