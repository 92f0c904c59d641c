package reconcile

import (
	"strings"
)

// Normalize maps a filename to its comparison key: the extension is stripped, then every
// character that is not an ASCII letter or digit is removed.
//
//	Normalize("My-Song!!.mp3") == "MySong"
func Normalize(name string) string {
	return Matcher{}.Normalize(name)
}

// Key maps a remote title to its comparison key without stripping an extension.
//
// Titles such as "Mr. Brightside" contain dots that are not extensions.
func Key(title string) string {
	return Matcher{}.Key(title)
}

// Matcher holds the comparison policy shared by the reconciliation operations.
type Matcher struct {
	FoldCase bool // compare keys case-insensitively
	// StripTitleExt treats remote titles like filenames, dropping a trailing ".xyz"
	// before filtering ("Mr. Brightside" keys as "Mr").
	StripTitleExt bool
}

// Normalize is [Normalize] under the matcher's policy.
func (m Matcher) Normalize(name string) string {
	return m.filter(stripExt(name))
}

// Key is [Key] under the matcher's policy.
func (m Matcher) Key(title string) string {
	if m.StripTitleExt {
		title = stripExt(title)
	}
	return m.filter(title)
}

func (m Matcher) filter(title string) string {
	var b strings.Builder
	b.Grow(len(title))
	for i := 0; i < len(title); i++ {
		c := title[i]
		switch {
		case 'a' <= c && c <= 'z', '0' <= c && c <= '9':
			b.WriteByte(c)
		case 'A' <= c && c <= 'Z':
			if m.FoldCase {
				c += 'a' - 'A'
			}
			b.WriteByte(c)
		}
	}
	return b.String()
}

// stripExt removes the suffix starting at the last dot, unless every character before that
// dot is itself a dot (".bashrc" and "..." keep their name).
func stripExt(name string) string {
	base := name
	if i := strings.LastIndexAny(name, `/\`); i >= 0 {
		base = name[i+1:]
	}
	dot := strings.LastIndexByte(base, '.')
	if dot <= 0 {
		return name
	}
	if strings.TrimLeft(base[:dot], ".") == "" {
		return name
	}
	return name[:len(name)-len(base)+dot]
}
