package resolver

import (
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"

	"git.home.luguber.info/inful/docatlas/internal/catalog"
	"git.home.luguber.info/inful/docatlas/internal/resourceid"
)

// DefaultCacheSize is the number of resolutions a Cached resolver keeps.
const DefaultCacheSize = 4096

// Cached memoises resolutions against a frozen catalog. It is safe for
// concurrent use.
type Cached struct {
	lookup catalog.Reader
	cache  *lru.Cache[string, Result]
}

// NewCached wraps a frozen catalog. A size below one uses DefaultCacheSize.
func NewCached(lookup catalog.Reader, size int) (*Cached, error) {
	if size < 1 {
		size = DefaultCacheSize
	}
	cache, err := lru.New[string, Result](size)
	if err != nil {
		return nil, err
	}
	return &Cached{lookup: lookup, cache: cache}, nil
}

// Catalog returns the wrapped catalog.
func (c *Cached) Catalog() catalog.Reader { return c.lookup }

// ResolvePage is the cached form of ResolvePage.
func (c *Cached) ResolvePage(spec string, ctx *resourceid.Coordinates) (Result, error) {
	return c.resolve("page ID", spec, ctx, resourceid.FamilyPage, []resourceid.Family{resourceid.FamilyPage})
}

// ResolveResource is the cached form of ResolveResource.
func (c *Cached) ResolveResource(spec string, ctx *resourceid.Coordinates, defaultFamily resourceid.Family, permitted ...resourceid.Family) (Result, error) {
	return c.resolve("resource ID", spec, ctx, defaultFamily, permitted)
}

// Len returns the number of cached resolutions.
func (c *Cached) Len() int { return c.cache.Len() }

func (c *Cached) resolve(kind, spec string, ctx *resourceid.Coordinates, defaultFamily resourceid.Family, permitted []resourceid.Family) (Result, error) {
	key := cacheKey(kind, spec, ctx, defaultFamily, permitted)
	if res, ok := c.cache.Get(key); ok {
		return res, nil
	}
	res, err := resolve(kind, spec, c.lookup, ctx, resourceOptions(defaultFamily, permitted)...)
	if err != nil {
		return res, err
	}
	c.cache.Add(key, res)
	return res, nil
}

func cacheKey(kind, spec string, ctx *resourceid.Coordinates, defaultFamily resourceid.Family, permitted []resourceid.Family) string {
	var b strings.Builder
	b.WriteString(kind)
	b.WriteByte('|')
	b.WriteString(spec)
	b.WriteByte('|')
	if ctx != nil {
		b.WriteString(ctx.Key())
	}
	b.WriteByte('|')
	b.WriteString(string(defaultFamily))
	for _, f := range permitted {
		b.WriteByte(',')
		b.WriteString(string(f))
	}
	return b.String()
}
