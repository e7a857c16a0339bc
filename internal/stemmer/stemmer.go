// Package stemmer reduces Indonesian words to their root form.
//
// Stripping follows the confix order of the Tala algorithm:
//
//   - particles: -kah, -lah, -tah, -pun
//   - possessive pronouns: -ku, -mu, -nya
//   - first-order prefixes: meN-, peN-, di-, ter-, ke-
//   - then either suffix and second-order prefix (ber-, per-), or the reverse
//     when no first-order prefix was found
//
// Words with two syllables or fewer are treated as roots. Nasal prefixes
// are ambiguous ("memakan" is me+makan, "memukul" is mem+pukul), so every
// plausible reading is generated and the first one found in the root
// dictionary wins. Without a dictionary hit the first reading is returned.
//
// A Stemmer is read-only after construction and safe for concurrent use.
package stemmer

import (
	"bufio"
	"bytes"
	_ "embed"
	"strings"
)

//go:embed roots.txt
var rootsRaw []byte

// Stemmer is a dictionary-assisted rule-based Indonesian stemmer.
type Stemmer struct {
	roots map[string]struct{}
}

// New returns a stemmer backed by the embedded root list.
func New() *Stemmer {
	return NewWithRoots(DefaultRoots())
}

// NewWithRoots returns a stemmer that resolves ambiguity against roots.
// A nil or empty list gives a purely rule-based stemmer.
func NewWithRoots(roots []string) *Stemmer {
	s := &Stemmer{roots: make(map[string]struct{}, len(roots))}
	for _, r := range roots {
		r = strings.ToLower(strings.TrimSpace(r))
		if r != "" {
			s.roots[r] = struct{}{}
		}
	}
	return s
}

// DefaultRoots returns the embedded root word list.
func DefaultRoots() []string {
	var out []string
	scan := bufio.NewScanner(bytes.NewReader(rootsRaw))
	for scan.Scan() {
		if w := strings.TrimSpace(scan.Text()); w != "" {
			out = append(out, w)
		}
	}
	return out
}

// Stem returns the root of word. Words that are not plain lowercase
// letters (apart from reduplication hyphens) are returned unchanged.
func (s *Stemmer) Stem(word string) string {
	w := strings.ToLower(strings.TrimSpace(word))
	if parts := strings.Split(w, "-"); len(parts) == 2 && parts[0] != "" && parts[1] != "" {
		// Reduplication: "kata-kata", "bermain-main".
		a, b := s.Stem(parts[0]), s.Stem(parts[1])
		if a == b {
			return a
		}
		return w
	}
	if w == "" || !isLetters(w) || s.isRoot(w) || syllables(w) <= 2 {
		return w
	}

	first := ""
	for _, v := range inflectionVariants(w) {
		for _, r := range s.derivations(v) {
			if s.isRoot(r) {
				return r
			}
			if first == "" {
				first = r
			}
		}
	}
	return first
}

func (s *Stemmer) isRoot(w string) bool {
	_, ok := s.roots[w]
	return ok
}

var (
	particles   = []string{"kah", "lah", "tah", "pun"}
	possessives = []string{"nya", "ku", "mu"}
	suffixes    = []string{"kan", "an", "i"}

	firstOrderPrefixes  = []string{"meng", "meny", "men", "mem", "me", "peng", "peny", "pen", "pem", "di", "ter", "ke"}
	secondOrderPrefixes = []string{"ber", "per", "bel", "pel", "be", "pe"}

	// Prefix and suffix combinations that do not occur in Indonesian.
	invalidConfix = map[[2]string]bool{
		{"ber", "i"}:  true,
		{"di", "an"}:  true,
		{"ke", "i"}:   true,
		{"ke", "kan"}: true,
		{"me", "an"}:  true,
		{"ter", "an"}: true,
		{"pe", "i"}:   true,
	}
)

type candidate struct {
	prefix string // prefix family used for confix checks
	stem   string
}

// inflectionVariants returns w with particle and possessive removed, with
// only the particle removed, and unchanged, in that order.
func inflectionVariants(w string) []string {
	noParticle := stripInflection(w, particles)
	noPossessive := stripInflection(noParticle, possessives)
	out := []string{noPossessive}
	if noParticle != noPossessive {
		out = append(out, noParticle)
	}
	if w != noParticle {
		out = append(out, w)
	}
	return out
}

func stripInflection(w string, endings []string) string {
	if syllables(w) <= 2 {
		return w
	}
	for _, e := range endings {
		if strings.HasSuffix(w, e) {
			if rest := w[:len(w)-len(e)]; syllables(rest) >= 2 {
				return rest
			}
		}
	}
	return w
}

// derivations lists the readings of w after affix stripping, most
// preferred first, ending with w itself.
func (s *Stemmer) derivations(w string) []string {
	if s.isRoot(w) || syllables(w) <= 2 {
		return []string{w}
	}
	var out []string
	for _, c := range firstOrderCandidates(w) {
		out = append(out, s.afterFirstOrder(c)...)
	}
	if len(out) == 0 {
		for _, c := range secondOrderCandidates(w) {
			out = append(out, s.afterSecondOrder(c)...)
		}
	}
	if len(out) == 0 {
		if rest, ok := stripSuffix(w, ""); ok {
			out = append(out, rest)
		}
	}
	return append(out, w)
}

// afterFirstOrder strips the suffix and then a second-order prefix.
func (s *Stemmer) afterFirstOrder(c candidate) []string {
	if s.isRoot(c.stem) || syllables(c.stem) <= 2 {
		return []string{c.stem}
	}
	rest, ok := stripSuffix(c.stem, c.prefix)
	if !ok {
		return []string{c.stem}
	}
	if s.isRoot(rest) || syllables(rest) <= 2 {
		return []string{rest, c.stem}
	}
	var out []string
	for _, c2 := range secondOrderCandidates(rest) {
		out = append(out, c2.stem)
	}
	return append(out, rest, c.stem)
}

// afterSecondOrder strips the suffix left behind by a second-order prefix.
func (s *Stemmer) afterSecondOrder(c candidate) []string {
	if s.isRoot(c.stem) || syllables(c.stem) <= 2 {
		return []string{c.stem}
	}
	if rest, ok := stripSuffix(c.stem, c.prefix); ok {
		return []string{rest, c.stem}
	}
	return []string{c.stem}
}

func firstOrderCandidates(w string) []candidate {
	var out []candidate
	for _, p := range firstOrderPrefixes {
		if !strings.HasPrefix(w, p) {
			continue
		}
		for _, stem := range recode(p, w[len(p):]) {
			if syllables(stem) >= 2 {
				out = append(out, candidate{prefix: prefixFamily(p), stem: stem})
			}
		}
	}
	return out
}

func secondOrderCandidates(w string) []candidate {
	var out []candidate
	for _, p := range secondOrderPrefixes {
		if !strings.HasPrefix(w, p) {
			continue
		}
		if stem := w[len(p):]; syllables(stem) >= 2 {
			out = append(out, candidate{prefix: prefixFamily(p), stem: stem})
		}
	}
	return out
}

// recode restores the initial consonant a nasal prefix may have absorbed.
func recode(prefix, rest string) []string {
	if rest == "" {
		return nil
	}
	vowel := isVowel(rest[0])
	switch prefix {
	case "meny", "peny":
		if vowel {
			return []string{"s" + rest}
		}
		return nil
	case "mem", "pem":
		if vowel {
			return []string{"p" + rest, rest}
		}
	case "men", "pen":
		if vowel {
			return []string{"t" + rest, rest}
		}
	case "meng", "peng":
		if vowel {
			return []string{rest, "k" + rest}
		}
	}
	return []string{rest}
}

func prefixFamily(p string) string {
	switch p {
	case "meng", "meny", "men", "mem", "me":
		return "me"
	case "peng", "peny", "pen", "pem":
		return "pe"
	case "ber", "bel", "be":
		return "ber"
	case "per", "pel", "pe":
		return "per"
	}
	return p
}

func stripSuffix(w, prefix string) (string, bool) {
	for _, suf := range suffixes {
		if !strings.HasSuffix(w, suf) {
			continue
		}
		// A bare -i is almost always part of the root.
		if suf == "i" && prefix == "" {
			continue
		}
		if invalidConfix[[2]string{prefix, suf}] {
			continue
		}
		if rest := w[:len(w)-len(suf)]; syllables(rest) >= 2 {
			return rest, true
		}
	}
	return "", false
}

func syllables(w string) int {
	n := 0
	for i := 0; i < len(w); i++ {
		if isVowel(w[i]) {
			n++
		}
	}
	return n
}

func isVowel(b byte) bool {
	switch b {
	case 'a', 'e', 'i', 'o', 'u':
		return true
	}
	return false
}

func isLetters(w string) bool {
	for i := 0; i < len(w); i++ {
		if w[i] < 'a' || w[i] > 'z' {
			return false
		}
	}
	return true
}
