package sources

import "sort"

var registry = func() map[string]Transform {
	m := make(map[string]Transform)
	for _, t := range []Transform{
		conceptNet4,
		globalMind,
		jmdict,
		nadya,
		pttPetGame,
		umbel,
		verbosity,
		wiktionaryPre,
		wiktionary,
		wordnet,
	} {
		m[t.Name] = t
	}
	return m
}()

// Lookup returns the transform registered under name.
func Lookup(name string) (Transform, bool) {
	t, ok := registry[name]
	return t, ok
}

// Names returns the registered transform names in sorted order.
func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
