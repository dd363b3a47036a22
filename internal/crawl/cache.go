package crawl

import "github.com/gamh86/webreaper/internal/urlindex"

// role identifies which half of the alternating two-cache pair a
// cacheCtx currently plays.
type role uint8

const (
	filling role = iota
	draining
)

// cacheCtx pairs a role with its backing index. The crawl engine holds
// two of these and swaps their roles at the end of every level instead
// of copying data between them -- the two-cache alternation is just a
// generic swap of which ordered set is being read from and which is
// being written to.
type cacheCtx struct {
	idx  *urlindex.Index
	role role
}

// pair is the two alternating cache contexts for one crawl run. c1 seeds
// as DRAINING (holding the single seed URL), c2 as FILLING.
type pair struct {
	c1, c2 *cacheCtx
}

func newPair() *pair {
	return &pair{
		c1: &cacheCtx{idx: urlindex.New(), role: draining},
		c2: &cacheCtx{idx: urlindex.New(), role: filling},
	}
}

func (p *pair) filling() *cacheCtx {
	if p.c1.role == filling {
		return p.c1
	}
	return p.c2
}

func (p *pair) draining() *cacheCtx {
	if p.c1.role == draining {
		return p.c1
	}
	return p.c2
}

// swap exchanges which context is filling and which is draining, the
// per-level transition of step 5 in the crawl loop.
func (p *pair) swap() {
	if p.c1.role == filling {
		p.c1.role = draining
		p.c2.role = filling
	} else {
		p.c1.role = filling
		p.c2.role = draining
	}
}
