package rest

import (
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/satoshe-sluggers/ownership-indexer/internal/catalog"
)

const MAX_PAGE_SIZE = 100

type Order string

const (
	OrderAsc  Order = "asc"
	OrderDesc Order = "desc"
)

// ListTokensQueryParams holds query parameters for GET /tokens.
// Traits are passed as repeated trait=<type>:<value> pairs.
type ListTokensQueryParams struct {
	RarityTier string   `form:"rarity_tier"`
	Traits     []string `form:"trait"`
	Search     string   `form:"search"`
	Sort       string   `form:"sort,default=token_number"`
	Order      Order    `form:"order,default=asc"`
	Limit      int      `form:"limit,default=20"`
	Offset     int      `form:"offset,default=0"`
}

// ParseListTokensQuery parses query parameters for GET /tokens
func ParseListTokensQuery(c *gin.Context) (*ListTokensQueryParams, error) {
	var params ListTokensQueryParams
	if err := c.ShouldBindQuery(&params); err != nil {
		return nil, err
	}
	if params.Limit > MAX_PAGE_SIZE {
		params.Limit = MAX_PAGE_SIZE
	}
	return &params, nil
}

// Validate checks the query parameters
func (p *ListTokensQueryParams) Validate() error {
	if p.Limit <= 0 {
		return fmt.Errorf("limit must be positive")
	}
	if p.Offset < 0 {
		return fmt.Errorf("offset must not be negative")
	}

	switch catalog.SortField(p.Sort) {
	case catalog.SortTokenNumber, catalog.SortRarityRank, catalog.SortName:
	default:
		return fmt.Errorf("unsupported sort field: %s", p.Sort)
	}

	switch p.Order {
	case OrderAsc, OrderDesc:
	default:
		return fmt.Errorf("order must be asc or desc")
	}

	for _, trait := range p.Traits {
		if !strings.Contains(trait, ":") {
			return fmt.Errorf("trait filter %q must use the <type>:<value> form", trait)
		}
	}

	return nil
}

// CatalogQuery converts the parsed parameters into a catalog query
func (p *ListTokensQueryParams) CatalogQuery() catalog.Query {
	q := catalog.Query{
		RarityTier: p.RarityTier,
		Search:     p.Search,
		Sort:       catalog.SortField(p.Sort),
		Descending: p.Order == OrderDesc,
		Offset:     p.Offset,
		Limit:      p.Limit,
	}

	if len(p.Traits) > 0 {
		q.Attributes = make(map[string]string, len(p.Traits))
		for _, trait := range p.Traits {
			parts := strings.SplitN(trait, ":", 2)
			q.Attributes[parts[0]] = parts[1]
		}
	}

	return q
}
