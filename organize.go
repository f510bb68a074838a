package camspec

import "slices"

// Organize puts r into canonical form and returns it. GeneralInformation is
// guaranteed present and first; the remaining sections follow in
// lexicographic order. Section names are cleaned, and sections whose name
// cleans to nothing, or that hold no keys, are dropped. Keys whose name
// cleans to nothing are dropped and the subkeys of grouped values are
// cleaned. Record lists pass through unchanged.
//
// Organize mutates r in place. Error stand-ins are returned untouched.
func Organize(r *Record) *Record {
	if r == nil {
		r = NewRecord()
	}
	if r.Failed() {
		return r
	}

	cleaned := make(map[string]*Section, len(r.names))
	var names []string
	for _, name := range r.names {
		sec := r.sections[name]
		clean := CleanText(name)
		if clean == "" {
			continue
		}
		organizeSection(sec)
		if prev, ok := cleaned[clean]; ok {
			for _, key := range sec.Keys() {
				prev.Set(key, sec.Get(key))
			}
			continue
		}
		cleaned[clean] = sec
		names = append(names, clean)
	}

	general, ok := cleaned[GeneralInformation]
	if !ok {
		general = NewSection()
	}
	rest := slices.DeleteFunc(names, func(n string) bool {
		return n == GeneralInformation || cleaned[n].Len() == 0
	})
	slices.Sort(rest)

	*r = Record{}
	r.SetSection(GeneralInformation, general)
	for _, name := range rest {
		r.SetSection(name, cleaned[name])
	}
	return r
}

func organizeSection(sec *Section) {
	for _, key := range sec.Keys() {
		if CleanText(key) == "" {
			sec.Delete(key)
			continue
		}
		v := sec.Get(key)
		if v == nil {
			sec.Delete(key)
			continue
		}
		if v.Kind == KindGroup {
			v.Group = cleanSubkeys(v.Group)
		}
	}
}

func cleanSubkeys(f *Fields) *Fields {
	out := &Fields{}
	for _, sub := range f.Keys() {
		clean := CleanText(sub)
		if clean == "" {
			continue
		}
		val, _ := f.Get(sub)
		out.Set(clean, val)
	}
	return out
}
