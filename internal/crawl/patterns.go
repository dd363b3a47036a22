package crawl

import "sort"

// pattern describes a single URL-bearing occurrence to scan for: prefix
// is the literal text preceding the URL, delim is the byte that
// terminates it. This is the closed set the spec calls for -- no DOM
// parsing, just a handful of known attribute/property shapes.
type pattern struct {
	prefix string
	delim  byte
}

var patterns = []pattern{
	{prefix: `href="`, delim: '"'},
	{prefix: `src="`, delim: '"'},
	{prefix: `action="`, delim: '"'},
	{prefix: `background="`, delim: '"'},
	{prefix: `content="`, delim: '"'},
	{prefix: `url(`, delim: ')'},
}

// occurrence is a single extracted URL and the byte range (relative to
// the scanned buffer) its value occupied, excluding the delimiter.
type occurrence struct {
	url   string
	start int // offset of the first byte of the value (after the prefix)
	end   int // offset one past the last byte of the value (before the delim)
}

// scan finds every pattern occurrence in body, in left-to-right order.
func scan(body []byte) []occurrence {
	var out []occurrence
	for _, p := range patterns {
		out = append(out, scanPattern(body, p)...)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].start < out[j].start })
	return out
}

func scanPattern(body []byte, p pattern) []occurrence {
	var out []occurrence
	s := body
	base := 0
	for {
		i := indexOf(s, []byte(p.prefix))
		if i < 0 {
			return out
		}
		start := base + i + len(p.prefix)
		end := -1
		for j := start; j < len(body); j++ {
			if body[j] == p.delim {
				end = j
				break
			}
		}
		if end < 0 {
			return out
		}
		out = append(out, occurrence{url: string(body[start:end]), start: start, end: end})
		s = body[end:]
		base = end
	}
}

func indexOf(hay, needle []byte) int {
outer:
	for i := 0; i+len(needle) <= len(hay); i++ {
		for j := range needle {
			if hay[i+j] != needle[j] {
				continue outer
			}
		}
		return i
	}
	return -1
}
