package decl

import "strings"

// Flag is one property toggled by a letter in a declaration's modifier token.
type Flag uint16

const (
	// ErrorSensitive (E): the call is refused while the context is in a FIPS error state.
	ErrorSensitive Flag = 1 << iota
	// MacroFunction (F): an additional context-free "ef" variant is generated.
	MacroFunction
	// UsesContext (P): the library context pointer is forwarded to the callee.
	UsesContext
	// Redirect (M): the call table points at my_<name> instead of the library symbol.
	Redirect
	// JavaOnly (J): exported from the Java step library only, never in public headers.
	JavaOnly
	// FIPSCallback (C): the function supports the FIPS indicator callback.
	FIPSCallback

	MemberA
	MemberB
	MemberC
	MemberD
	MemberE
	MemberF
)

var flagLetters = []struct {
	letter byte
	flag   Flag
}{
	{'E', ErrorSensitive},
	{'F', MacroFunction},
	{'P', UsesContext},
	{'M', Redirect},
	{'J', JavaOnly},
	{'C', FIPSCallback},
	{'a', MemberA},
	{'b', MemberB},
	{'c', MemberC},
	{'d', MemberD},
	{'e', MemberE},
	{'f', MemberF},
}

// Flags is the set of flags parsed from one modifier token.
type Flags uint16

// ParseFlags maps every known letter in s to its flag. Unknown letters are
// ignored so newer inputs keep working with older generators.
func ParseFlags(s string) Flags {
	var f Flags
	for i := 0; i < len(s); i++ {
		for _, fl := range flagLetters {
			if s[i] == fl.letter {
				f |= Flags(fl.flag)
			}
		}
	}
	return f
}

func (f Flags) Has(x Flag) bool { return f&Flags(x) != 0 }

// Member reports whether the membership letter (a..f) is set.
func (f Flags) Member(letter byte) bool {
	if letter < 'a' || letter > 'f' {
		return false
	}
	return f.Has(MemberA << Flag(letter-'a'))
}

// String renders the set back into its canonical letter form.
func (f Flags) String() string {
	var sb strings.Builder
	for _, fl := range flagLetters {
		if f.Has(fl.flag) {
			sb.WriteByte(fl.letter)
		}
	}
	return sb.String()
}
