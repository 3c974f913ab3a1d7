package screening

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/turtacn/SakuraScope/internal/domain/product"
	"github.com/turtacn/SakuraScope/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/SakuraScope/pkg/errors"
)

// ============================================================================
// Search item (PA-API 5.0 SearchItems / GetItems item shape)
// ============================================================================

// DisplayString is a {"DisplayValue": "..."} wrapper.
type DisplayString struct {
	DisplayValue string `json:"DisplayValue"`
}

// FlexNumber accepts a bare number, a numeric string, or an object carrying
// DisplayValue or Value. Anything unparseable leaves it unset.
type FlexNumber struct {
	Value float64
	Set   bool
}

func (f *FlexNumber) UnmarshalJSON(data []byte) error {
	*f = FlexNumber{}
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return nil
	}
	switch data[0] {
	case '{':
		var obj struct {
			DisplayValue json.RawMessage `json:"DisplayValue"`
			Value        json.RawMessage `json:"Value"`
		}
		if err := json.Unmarshal(data, &obj); err != nil {
			return nil
		}
		if len(obj.Value) > 0 {
			_ = f.UnmarshalJSON(obj.Value)
			if f.Set {
				return nil
			}
		}
		if len(obj.DisplayValue) > 0 {
			_ = f.UnmarshalJSON(obj.DisplayValue)
		}
		return nil
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return nil
		}
		s = strings.ReplaceAll(strings.TrimSpace(s), ",", "")
		if v, err := strconv.ParseFloat(s, 64); err == nil {
			f.Value, f.Set = v, true
		}
		return nil
	default:
		var v float64
		if err := json.Unmarshal(data, &v); err == nil {
			f.Value, f.Set = v, true
		}
		return nil
	}
}

type ItemInfo struct {
	Title      DisplayString `json:"Title"`
	ByLineInfo struct {
		Brand DisplayString `json:"Brand"`
	} `json:"ByLineInfo"`
	ManufactureInfo struct {
		ItemPartNumber DisplayString `json:"ItemPartNumber"`
	} `json:"ManufactureInfo"`
}

type CustomerReviews struct {
	StarRating FlexNumber `json:"StarRating"`
	Count      FlexNumber `json:"Count"`
}

type Listing struct {
	Price struct {
		Amount        FlexNumber `json:"Amount"`
		DisplayAmount string     `json:"DisplayAmount"`
	} `json:"Price"`
}

// SearchItem is one product as returned by the product search API.
type SearchItem struct {
	ASIN            string          `json:"ASIN"`
	DetailPageURL   string          `json:"DetailPageURL"`
	ItemInfo        ItemInfo        `json:"ItemInfo"`
	CustomerReviews CustomerReviews `json:"CustomerReviews"`
	Offers          struct {
		Listings []Listing `json:"Listings"`
	} `json:"Offers"`
	MerchantID string `json:"MerchantId"`
}

const amazonProductURL = "https://www.amazon.co.jp/dp/"

// ParseSearchItem converts a search item into a Product. A missing ASIN is
// SRC_003; unparseable numbers are left unset and range-checked by
// product.New.
func ParseSearchItem(item SearchItem) (product.Product, error) {
	asin := strings.TrimSpace(item.ASIN)
	if asin == "" {
		return product.Product{}, errors.New(errors.ErrCodeSourceItemIncomplete, "search item has no ASIN")
	}

	url := item.DetailPageURL
	if url == "" {
		url = amazonProductURL + asin
	}
	opts := []product.Option{
		product.WithBrand(item.ItemInfo.ByLineInfo.Brand.DisplayValue),
		product.WithModel(item.ItemInfo.ManufactureInfo.ItemPartNumber.DisplayValue),
		product.WithMerchantID(item.MerchantID),
		product.WithURLs(url, ""),
	}
	if r := item.CustomerReviews.StarRating; r.Set {
		opts = append(opts, product.WithRating(r.Value))
	}
	if c := item.CustomerReviews.Count; c.Set {
		opts = append(opts, product.WithReviewsCount(int(c.Value)))
	}
	if len(item.Offers.Listings) > 0 {
		if a := item.Offers.Listings[0].Price.Amount; a.Set {
			opts = append(opts, product.WithPrice(a.Value))
		}
	}
	return product.New(asin, item.ItemInfo.Title.DisplayValue, opts...)
}

type itemsEnvelope struct {
	Items []SearchItem `json:"Items"`
}

type searchResponse struct {
	SearchResult *itemsEnvelope `json:"SearchResult"`
	ItemsResult  *itemsEnvelope `json:"ItemsResult"`
	Data         *struct {
		SearchResult *itemsEnvelope `json:"SearchResult"`
		ItemsResult  *itemsEnvelope `json:"ItemsResult"`
	} `json:"data"`
	Items []SearchItem `json:"Items"`
}

// ParseSearchResponse extracts items from a SearchItems or GetItems response
// body, with or without a "data" wrapper. A bare JSON array of items is also
// accepted.
func ParseSearchResponse(body []byte) ([]SearchItem, error) {
	body = bytes.TrimSpace(body)
	if len(body) == 0 {
		return nil, errors.New(errors.ErrCodeSourcePayloadInvalid, "empty search response")
	}
	if body[0] == '[' {
		var items []SearchItem
		if err := json.Unmarshal(body, &items); err != nil {
			return nil, errors.Wrap(err, errors.ErrCodeSourcePayloadInvalid, "malformed search item list")
		}
		return items, nil
	}

	var resp searchResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeSourcePayloadInvalid, "malformed search response")
	}
	for _, env := range []*itemsEnvelope{resp.SearchResult, resp.ItemsResult} {
		if env != nil {
			return env.Items, nil
		}
	}
	if resp.Data != nil {
		for _, env := range []*itemsEnvelope{resp.Data.SearchResult, resp.Data.ItemsResult} {
			if env != nil {
				return env.Items, nil
			}
		}
	}
	return resp.Items, nil
}

// ============================================================================
// Catalog search provider
// ============================================================================

// SearchProvider finds candidate products for a keyword.
type SearchProvider interface {
	Search(ctx context.Context, keyword string, max int) ([]product.Product, error)
}

// CatalogProvider serves searches from a file of search items loaded once.
// JSON and YAML (.yaml/.yml) files are supported.
type CatalogProvider struct {
	products []product.Product
}

// NewCatalogProvider loads path. Items that fail to parse are skipped and
// logged; a file that cannot be read or decoded is SRC_002 / SRC_001.
func NewCatalogProvider(path string, log logging.Logger) (*CatalogProvider, error) {
	if log == nil {
		log = logging.NewNopLogger()
	}
	log = log.Named("catalog")

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeSourceUnavailable, "cannot read catalog")
	}
	if ext := strings.ToLower(filepath.Ext(path)); ext == ".yaml" || ext == ".yml" {
		if raw, err = yamlToJSON(raw); err != nil {
			return nil, errors.Wrap(err, errors.ErrCodeSourcePayloadInvalid, "malformed catalog yaml")
		}
	}
	items, err := ParseSearchResponse(raw)
	if err != nil {
		return nil, err
	}

	c := &CatalogProvider{products: make([]product.Product, 0, len(items))}
	for i, item := range items {
		p, err := ParseSearchItem(item)
		if err != nil {
			log.Warn("catalog item skipped", logging.Int("index", i), logging.Err(err))
			continue
		}
		c.products = append(c.products, p)
	}
	log.Info("catalog loaded", logging.String("path", path), logging.Int("products", len(c.products)))
	return c, nil
}

// NewStaticProvider serves a fixed product list.
func NewStaticProvider(products []product.Product) *CatalogProvider {
	return &CatalogProvider{products: append([]product.Product(nil), products...)}
}

// Search returns up to max products whose name or brand contains every
// whitespace-separated keyword term, case-insensitively, in catalog order.
// An empty keyword matches everything.
func (c *CatalogProvider) Search(ctx context.Context, keyword string, max int) ([]product.Product, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	terms := strings.Fields(strings.ToLower(keyword))
	out := make([]product.Product, 0)
	for _, p := range c.products {
		if max > 0 && len(out) >= max {
			break
		}
		haystack := strings.ToLower(p.Name() + " " + p.Brand())
		match := true
		for _, t := range terms {
			if !strings.Contains(haystack, t) {
				match = false
				break
			}
		}
		if match {
			out = append(out, p)
		}
	}
	return out, nil
}

func (c *CatalogProvider) Len() int { return len(c.products) }

func yamlToJSON(raw []byte) ([]byte, error) {
	var doc interface{}
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, err
	}
	return json.Marshal(doc)
}

//Personal.AI order the ending
