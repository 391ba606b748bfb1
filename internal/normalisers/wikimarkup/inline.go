package wikimarkup

import (
	"path"
	"regexp"
	"strconv"
	"strings"
)

var (
	monospaceRe = regexp.MustCompile(`\{\{(.+?)\}\}`)
	macroTagRe  = regexp.MustCompile(`\{(?:color|anchor)(?::[^}]*)?\}`)
	imageRe     = regexp.MustCompile(`!([^\s!|][^!|\n]*?)(\|[^!\n]*)?!`)
	linkRe      = regexp.MustCompile(`\[([^\[\]\n]+)\]`)
	bareURLRe   = regexp.MustCompile(`(?:https?|ftp)://[^\s<>\x00\]]+`)
	issueKeyRe  = regexp.MustCompile(`^[A-Z][A-Z0-9_]+-\d+$`)
	citationRe  = regexp.MustCompile(`\?\?(.+?)\?\?`)

	// Emphasis markers must sit at a word boundary and hug their content.
	boldRe      = emphasisRe(`\*`)
	underlineRe = emphasisRe(`\+`)
	strikeRe    = emphasisRe(`-`)

	// Super- and subscript attach to the preceding word, as in x^2^.
	supRe = regexp.MustCompile(`\^([^\s^](?:[^^\n]*?[^\s^])?)\^`)
	subRe = regexp.MustCompile(`~([^\s~](?:[^~\n]*?[^\s~])?)~`)
)

func emphasisRe(m string) *regexp.Regexp {
	return regexp.MustCompile(`(^|[^\w` + m + `])` + m + `([^\s` + m + `](?:[^` + m + `\n]*[^\s` + m + `])?)` + m + `($|[^\w` + m + `])`)
}

// boldMark stands in for ** until the end so that later passes never
// mistake translated bold for source markup.
const boldMark = "\x01"

// inliner holds spans that later passes must not touch.
type inliner struct {
	t     *Translator
	saved []string
}

func (p *inliner) protect(s string) string {
	p.saved = append(p.saved, s)
	return token(len(p.saved) - 1)
}

func token(i int) string {
	return "\x00" + strconv.Itoa(i) + "\x00"
}

func (p *inliner) restore(s string) string {
	for i := len(p.saved) - 1; i >= 0; i-- {
		s = strings.ReplaceAll(s, token(i), p.saved[i])
	}
	return strings.ReplaceAll(s, boldMark, "**")
}

// inline translates character-level markup in one line.
func (t *Translator) inline(s string) string {
	if s == "" {
		return ""
	}
	s = strings.NewReplacer("\x00", "", boldMark, "").Replace(s)

	p := &inliner{t: t}

	s = monospaceRe.ReplaceAllStringFunc(s, func(m string) string {
		code := monospaceRe.FindStringSubmatch(m)[1]
		return p.protect(codeSpan(code))
	})
	s = macroTagRe.ReplaceAllString(s, "")
	s = imageRe.ReplaceAllStringFunc(s, p.image)
	s = linkRe.ReplaceAllStringFunc(s, p.link)
	s = bareURLRe.ReplaceAllStringFunc(s, p.bareURL)
	s = p.emphasis(s)

	return p.restore(s)
}

func codeSpan(code string) string {
	if strings.Contains(code, "`") {
		return "`` " + code + " ``"
	}
	return "`" + code + "`"
}

func (p *inliner) emphasis(s string) string {
	s = strings.ReplaceAll(s, `\\`, "<br>")
	s = citationRe.ReplaceAllString(s, "<cite>$1</cite>")
	s = replaceAll(boldRe, s, "${1}"+boldMark+"${2}"+boldMark+"${3}")
	s = replaceAll(underlineRe, s, "${1}${2}${3}")
	s = supRe.ReplaceAllString(s, "<sup>${1}</sup>")
	s = subRe.ReplaceAllString(s, "<sub>${1}</sub>")
	s = replaceAll(strikeRe, s, "${1}~~${2}~~${3}")
	return s
}

// replaceAll repeats the replacement until nothing changes, since adjacent
// spans share the boundary character a single pass consumes.
func replaceAll(re *regexp.Regexp, s, repl string) string {
	for {
		next := re.ReplaceAllString(s, repl)
		if next == s {
			return s
		}
		s = next
	}
}

func (p *inliner) image(m string) string {
	target := imageRe.FindStringSubmatch(m)[1]
	if !strings.Contains(target, ".") && !strings.Contains(target, "://") {
		return m
	}
	return p.protect("![" + path.Base(target) + "](" + target + ")")
}

func (p *inliner) link(m string) string {
	body := linkRe.FindStringSubmatch(m)[1]

	switch {
	case strings.HasPrefix(body, "~accountid:"):
		return p.protect("@" + strings.TrimPrefix(body, "~accountid:"))
	case strings.HasPrefix(body, "~"):
		return p.protect("@" + strings.TrimPrefix(body, "~"))
	case strings.HasPrefix(body, "^"):
		name := strings.TrimPrefix(body, "^")
		return p.protect("[" + name + "](" + name + ")")
	}

	if text, target, ok := strings.Cut(body, "|"); ok {
		target, _, _ = strings.Cut(target, "|")
		target = strings.TrimSpace(target)
		if strings.HasPrefix(target, "~") {
			return p.protect(p.emphasis(text))
		}
		return p.protect("[" + p.emphasis(text) + "](" + p.t.resolve(target) + ")")
	}

	body = strings.TrimSpace(body)
	switch {
	case issueKeyRe.MatchString(body):
		if p.t.browseBase == "" {
			return p.protect(m)
		}
		return p.protect("[" + body + "](" + p.t.resolve(body) + ")")
	case strings.Contains(body, "://"), strings.HasPrefix(body, "mailto:"):
		return p.protect("<" + body + ">")
	case strings.HasPrefix(body, "#"):
		return p.protect("[" + body[1:] + "](" + body + ")")
	}
	return m
}

// bareURL protects a URL in running text. Trailing punctuation stays outside.
func (p *inliner) bareURL(m string) string {
	u := strings.TrimRight(m, ".,;:!?)")
	return p.protect(u) + m[len(u):]
}

// resolve turns a link target into a URL, expanding issue keys when a
// browse base is configured.
func (t *Translator) resolve(target string) string {
	if t.browseBase != "" && issueKeyRe.MatchString(target) {
		return t.browseBase + "/browse/" + target
	}
	return target
}
