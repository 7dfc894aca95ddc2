// Package catalog proxies product data from the external catalog API and
// memoizes responses in a region-keyed read-through cache.
package catalog

import (
	"context"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-faster/errors"
	"github.com/go-faster/jx"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/xenking/shopcart-api/internal/domain/product"
)

// DefaultTimeout bounds a single catalog request.
const DefaultTimeout = 10 * time.Second

var tracer = otel.Tracer("shopcart.catalog")

// Client fetches products from the external catalog over HTTP. It implements
// product.Source.
type Client struct {
	http    *http.Client
	baseURL string
}

var _ product.Source = (*Client)(nil)

// NewClient creates a catalog Client for the given API root, e.g.
// "https://fakestoreapi.com/products". A non-positive timeout falls back to
// DefaultTimeout.
func NewClient(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		http: &http.Client{
			Timeout:   timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
		baseURL: baseURL,
	}
}

// FetchAll returns every product in the catalog. A failed call or an empty
// body yields product.ErrUnavailable.
func (c *Client) FetchAll(ctx context.Context) ([]product.Product, error) {
	ctx, span := tracer.Start(ctx, "catalog.FetchAll")
	defer span.End()

	body, err := c.get(ctx, c.baseURL)
	if err != nil {
		return nil, errors.Wrap(product.ErrUnavailable, err.Error())
	}

	products, err := decodeProducts(body)
	if err != nil {
		return nil, errors.Wrap(product.ErrUnavailable, err.Error())
	}
	if len(products) == 0 {
		return nil, errors.Wrap(product.ErrUnavailable, "no products returned")
	}

	span.SetAttributes(attribute.Int("catalog.products", len(products)))
	return products, nil
}

// FetchByID returns a single product. The upstream returns an empty or null
// body for unknown ids, which maps to product.ErrNotFound.
func (c *Client) FetchByID(ctx context.Context, id int) (*product.Product, error) {
	ctx, span := tracer.Start(ctx, "catalog.FetchByID",
		trace.WithAttributes(attribute.Int("catalog.product_id", id)))
	defer span.End()

	body, err := c.get(ctx, c.baseURL+"/"+strconv.Itoa(id))
	if err != nil {
		return nil, errors.Wrap(product.ErrUnavailable, err.Error())
	}

	if isEmptyBody(body) {
		return nil, errors.Wrapf(product.ErrNotFound, "id %d", id)
	}

	d := jx.DecodeBytes(body)
	p, err := decodeProduct(d)
	if err != nil {
		return nil, errors.Wrap(product.ErrUnavailable, err.Error())
	}
	return &p, nil
}

func (c *Client) get(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, errors.Wrap(err, "build request")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "catalog request")
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, product.ErrNotFound
	}
	if resp.StatusCode != http.StatusOK {
		return nil, errors.Errorf("catalog returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Wrap(err, "read body")
	}
	return body, nil
}

func isEmptyBody(body []byte) bool {
	trimmed := strings.TrimSpace(string(body))
	return trimmed == "" || trimmed == "null"
}

func decodeProducts(body []byte) ([]product.Product, error) {
	d := jx.DecodeBytes(body)
	var products []product.Product
	if err := d.Arr(func(d *jx.Decoder) error {
		p, err := decodeProduct(d)
		if err != nil {
			return err
		}
		products = append(products, p)
		return nil
	}); err != nil {
		return nil, errors.Wrap(err, "decode products")
	}
	return products, nil
}

func decodeProduct(d *jx.Decoder) (product.Product, error) {
	var p product.Product
	err := d.ObjBytes(func(d *jx.Decoder, key []byte) error {
		switch string(key) {
		case "id":
			id, err := d.Int()
			if err != nil {
				return errors.Wrap(err, "id")
			}
			p.ID = id
		case "title":
			title, err := d.Str()
			if err != nil {
				return errors.Wrap(err, "title")
			}
			p.Title = title
		case "price":
			// Decode as raw number to keep the upstream's exact decimal
			// representation.
			num, err := d.Num()
			if err != nil {
				return errors.Wrap(err, "price")
			}
			price, err := decimal.NewFromString(num.String())
			if err != nil {
				return errors.Wrap(err, "price")
			}
			p.Price = price
		case "description":
			desc, err := d.Str()
			if err != nil {
				return errors.Wrap(err, "description")
			}
			p.Description = desc
		case "category":
			cat, err := d.Str()
			if err != nil {
				return errors.Wrap(err, "category")
			}
			p.Category = cat
		case "image":
			img, err := d.Str()
			if err != nil {
				return errors.Wrap(err, "image")
			}
			p.Image = img
		case "rating":
			rating, err := decodeRating(d)
			if err != nil {
				return errors.Wrap(err, "rating")
			}
			p.Rating = rating
		default:
			return d.Skip()
		}
		return nil
	})
	if err != nil {
		return product.Product{}, errors.Wrap(err, "decode product")
	}
	return p, nil
}

func decodeRating(d *jx.Decoder) (*product.Rating, error) {
	if d.Next() == jx.Null {
		return nil, d.Null()
	}
	var r product.Rating
	err := d.ObjBytes(func(d *jx.Decoder, key []byte) error {
		switch string(key) {
		case "rate":
			rate, err := d.Float64()
			if err != nil {
				return err
			}
			r.Rate = rate
		case "count":
			count, err := d.Int()
			if err != nil {
				return err
			}
			r.Count = count
		default:
			return d.Skip()
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &r, nil
}
