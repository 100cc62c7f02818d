package sound

// CatalogKey selects which set of sounds a Catalog should list.
type CatalogKey int

const (
	Standard CatalogKey = iota
	Bonus
)

func (k CatalogKey) String() string {
	switch k {
	case Standard:
		return "standard"
	case Bonus:
		return "bonus"
	default:
		return "unknown"
	}
}

// Catalog lists the sound identifiers available for a key. An empty result is
// valid; so is an error, which callers treat as an empty catalog.
type Catalog interface {
	List(key CatalogKey) ([]string, error)
}

// StaticCatalog is an in-memory Catalog, handy for tests and demos.
type StaticCatalog map[CatalogKey][]string

func (c StaticCatalog) List(key CatalogKey) ([]string, error) {
	ids := c[key]
	out := make([]string, len(ids))
	copy(out, ids)
	return out, nil
}
