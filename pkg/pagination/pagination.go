package pagination

const (
	// DefaultLimit is the standard page size when a limit is not provided.
	DefaultLimit = 20
	// MaxLimit caps how many rows any listing query can request.
	MaxLimit = 100
)

// Params holds page pagination inputs from controllers or services.
type Params struct {
	Page  int
	Limit int
}

// Meta describes the pagination state returned alongside listings.
type Meta struct {
	Total int64 `json:"total"`
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
	Pages int   `json:"pages"`
}

// Normalize enforces the configured default and maximum limits.
func Normalize(params Params) Params {
	if params.Page <= 0 {
		params.Page = 1
	}
	if params.Limit <= 0 {
		params.Limit = DefaultLimit
	}
	if params.Limit > MaxLimit {
		params.Limit = MaxLimit
	}
	return params
}

// Offset returns the row offset for the normalized page.
func (p Params) Offset() int {
	normalized := Normalize(p)
	return (normalized.Page - 1) * normalized.Limit
}

// NewMeta builds pagination metadata from a total row count.
func NewMeta(params Params, total int64) Meta {
	normalized := Normalize(params)
	pages := int(total / int64(normalized.Limit))
	if total%int64(normalized.Limit) != 0 {
		pages++
	}
	if pages == 0 {
		pages = 1
	}
	return Meta{
		Total: total,
		Page:  normalized.Page,
		Limit: normalized.Limit,
		Pages: pages,
	}
}
