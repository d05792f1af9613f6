package ast

// Access flag bits. Some bits are shared between definition kinds under
// different names (0x0020 is super on classes and synchronized on methods).
const (
	AccPublic       uint16 = 0x0001
	AccPrivate      uint16 = 0x0002
	AccProtected    uint16 = 0x0004
	AccStatic       uint16 = 0x0008
	AccFinal        uint16 = 0x0010
	AccSuper        uint16 = 0x0020
	AccSynchronized uint16 = 0x0020
	AccVolatile     uint16 = 0x0040
	AccBridge       uint16 = 0x0040
	AccTransient    uint16 = 0x0080
	AccVarargs      uint16 = 0x0080
	AccNative       uint16 = 0x0100
	AccInterface    uint16 = 0x0200
	AccAbstract     uint16 = 0x0400
	AccStrict       uint16 = 0x0800
	AccSynthetic    uint16 = 0x1000
	AccAnnotation   uint16 = 0x2000
	AccEnum         uint16 = 0x4000
	AccMandated     uint16 = 0x8000
)

// DefKind selects the flag namespace of a definition.
type DefKind int

const (
	ClassKind DefKind = iota
	FieldKind
	MethodKind
)

func (k DefKind) String() string {
	switch k {
	case ClassKind:
		return "class"
	case FieldKind:
		return "field"
	case MethodKind:
		return "method"
	}
	return "invalid"
}

type modifier struct {
	word string
	bit  uint16
}

// Per-kind modifier tables in canonical print order: visibility first, then
// the remaining words by ascending bit value.
var (
	classModifiers = []modifier{
		{"public", AccPublic},
		{"private", AccPrivate},
		{"protected", AccProtected},
		{"static", AccStatic},
		{"final", AccFinal},
		{"super", AccSuper},
		{"interface", AccInterface},
		{"abstract", AccAbstract},
		{"synthetic", AccSynthetic},
		{"annotation", AccAnnotation},
		{"enum", AccEnum},
		{"mandated", AccMandated},
	}
	fieldModifiers = []modifier{
		{"public", AccPublic},
		{"private", AccPrivate},
		{"protected", AccProtected},
		{"static", AccStatic},
		{"final", AccFinal},
		{"volatile", AccVolatile},
		{"transient", AccTransient},
		{"synthetic", AccSynthetic},
		{"enum", AccEnum},
		{"mandated", AccMandated},
	}
	methodModifiers = []modifier{
		{"public", AccPublic},
		{"private", AccPrivate},
		{"protected", AccProtected},
		{"static", AccStatic},
		{"final", AccFinal},
		{"synchronized", AccSynchronized},
		{"bridge", AccBridge},
		{"varargs", AccVarargs},
		{"native", AccNative},
		{"abstract", AccAbstract},
		{"strict", AccStrict},
		{"synthetic", AccSynthetic},
		{"mandated", AccMandated},
	}
)

var modifierWords = func() map[string]bool {
	words := map[string]bool{}
	for _, table := range [][]modifier{classModifiers, fieldModifiers, methodModifiers} {
		for _, m := range table {
			words[m.word] = true
		}
	}
	return words
}()

func modifierTable(kind DefKind) []modifier {
	switch kind {
	case FieldKind:
		return fieldModifiers
	case MethodKind:
		return methodModifiers
	default:
		return classModifiers
	}
}

// IsModifier reports whether word is a modifier for any definition kind. The
// parser uses it to find where the modifier list ends and the name begins.
func IsModifier(word string) bool {
	return modifierWords[word]
}

// ModifierBit maps a modifier word to its access bit for the given
// definition kind. The second result is false when the word is not a legal
// modifier for that kind.
func ModifierBit(kind DefKind, word string) (uint16, bool) {
	for _, m := range modifierTable(kind) {
		if m.word == word {
			return m.bit, true
		}
	}
	return 0, false
}

// ModifierWords renders access flags back to modifier words in canonical
// order for the given definition kind. Unknown bits are ignored.
func ModifierWords(kind DefKind, flags uint16) []string {
	var words []string
	for _, m := range modifierTable(kind) {
		if flags&m.bit != 0 {
			words = append(words, m.word)
			flags &^= m.bit
		}
	}
	return words
}
