package catalog

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/satoshe-sluggers/ownership-indexer/internal/adapter"
	"github.com/satoshe-sluggers/ownership-indexer/internal/domain"
)

// SortField selects the ordering of query results
type SortField string

const (
	SortTokenNumber SortField = "token_number"
	SortRarityRank  SortField = "rarity_rank"
	SortName        SortField = "name"
)

// Query describes a filter/sort/search request against the static metadata
type Query struct {
	RarityTier string
	Attributes map[string]string
	Search     string
	Sort       SortField
	Descending bool
	Offset     int
	Limit      int
}

// Catalog defines read access to the immutable token metadata of the collection
//
//go:generate mockgen -source=catalog.go -destination=../mocks/catalog.go -package=mocks -mock_names=Catalog=MockCatalog
type Catalog interface {
	// Get returns the token with the given number
	Get(tokenNumber uint64) (*domain.Token, error)

	// All returns every token ordered by token number
	All() []*domain.Token

	// Select returns the tokens matching the query plus the total match count
	// before pagination
	Select(q Query) ([]*domain.Token, int)

	// TotalSupply returns the number of tokens in the collection
	TotalSupply() uint64
}

// catalog is the in-memory implementation backed by the bundled metadata file
type catalog struct {
	ordered []*domain.Token
	byNum   map[uint64]*domain.Token
}

// Load reads the bundled metadata file and builds the catalog. The file is
// trusted build output; a malformed file is fatal at startup.
func Load(fs adapter.FileSystem, path string) (Catalog, error) {
	data, err := fs.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read metadata file: %w", err)
	}

	js := adapter.NewJSON()
	var tokens []domain.Token
	if err := js.Unmarshal(data, &tokens); err != nil {
		return nil, fmt.Errorf("failed to parse metadata JSON: %w", err)
	}
	if len(tokens) == 0 {
		return nil, fmt.Errorf("metadata file %s contains no tokens", path)
	}

	c := &catalog{
		ordered: make([]*domain.Token, 0, len(tokens)),
		byNum:   make(map[uint64]*domain.Token, len(tokens)),
	}

	for i := range tokens {
		token := &tokens[i]
		if _, ok := c.byNum[token.TokenNumber]; ok {
			return nil, fmt.Errorf("duplicate token number %d in metadata", token.TokenNumber)
		}
		c.byNum[token.TokenNumber] = token
		c.ordered = append(c.ordered, token)
	}

	sort.Slice(c.ordered, func(i, j int) bool {
		return c.ordered[i].TokenNumber < c.ordered[j].TokenNumber
	})

	return c, nil
}

// Get returns the token with the given number
func (c *catalog) Get(tokenNumber uint64) (*domain.Token, error) {
	token, ok := c.byNum[tokenNumber]
	if !ok {
		return nil, domain.ErrTokenNotFound
	}
	return token, nil
}

// All returns every token ordered by token number
func (c *catalog) All() []*domain.Token {
	return c.ordered
}

// TotalSupply returns the number of tokens in the collection
func (c *catalog) TotalSupply() uint64 {
	return uint64(len(c.ordered))
}

// Select returns the tokens matching the query plus the total match count
// before pagination
func (c *catalog) Select(q Query) ([]*domain.Token, int) {
	matched := make([]*domain.Token, 0, len(c.ordered))
	for _, token := range c.ordered {
		if c.matches(token, q) {
			matched = append(matched, token)
		}
	}

	sortTokens(matched, q.Sort, q.Descending)

	total := len(matched)
	if q.Offset >= total {
		return []*domain.Token{}, total
	}

	matched = matched[q.Offset:]
	if q.Limit > 0 && q.Limit < len(matched) {
		matched = matched[:q.Limit]
	}

	return matched, total
}

func (c *catalog) matches(token *domain.Token, q Query) bool {
	if q.RarityTier != "" && !strings.EqualFold(token.RarityTier, q.RarityTier) {
		return false
	}

	for traitType, value := range q.Attributes {
		if !strings.EqualFold(token.Attribute(traitType), value) {
			return false
		}
	}

	if q.Search != "" {
		needle := strings.ToLower(q.Search)
		name := strings.ToLower(token.Name)
		number := strconv.FormatUint(token.TokenNumber, 10)
		if !strings.Contains(name, needle) && !strings.Contains(number, needle) {
			return false
		}
	}

	return true
}

func sortTokens(tokens []*domain.Token, field SortField, descending bool) {
	var less func(i, j int) bool

	switch field {
	case SortRarityRank:
		less = func(i, j int) bool { return tokens[i].RarityRank < tokens[j].RarityRank }
	case SortName:
		less = func(i, j int) bool { return tokens[i].Name < tokens[j].Name }
	default:
		less = func(i, j int) bool { return tokens[i].TokenNumber < tokens[j].TokenNumber }
	}

	if descending {
		original := less
		less = func(i, j int) bool { return original(j, i) }
	}

	sort.SliceStable(tokens, less)
}
