package http

import (
	"net/http"
	"sync/atomic"

	"nutrilog/internal/core"
	nlog "nutrilog/internal/log"
)

// Events announced for catalog changes. They carry no date.
const (
	EventProductCreated = "product.created"
	EventProductDeleted = "product.deleted"
)

type productResponse struct {
	core.Product
	Kcal float64 `json:"kcal"`
}

func newProductResponse(p core.Product) productResponse {
	return productResponse{Product: p, Kcal: p.Kcal()}
}

func (s *Server) handleListProducts(w http.ResponseWriter, r *http.Request) {
	products, err := s.svc.ListProducts(r.Context())
	if err != nil {
		s.fail(w, r, nlog.OpList, err)
		return
	}

	out := make([]productResponse, 0, len(products))
	for _, p := range products {
		out = append(out, newProductResponse(p))
	}
	NewJSONResponse().JSON(out).Write(w)
}

// handleCreateProduct accepts name, protein, fat and carbs. Missing macros
// count as zero.
func (s *Server) handleCreateProduct(w http.ResponseWriter, r *http.Request) {
	parser := NewRequestBodyParser(r)
	if resp := ParseBodyOrFail(parser); resp != nil {
		resp.Write(w)
		return
	}

	macros, err := parseMacros(parser)
	if err != nil {
		s.fail(w, r, nlog.OpCreate, err)
		return
	}

	p, err := s.svc.AddProduct(r.Context(), parser.Get("name"), macros.Protein, macros.Fat, macros.Carbs)
	if err != nil {
		s.fail(w, r, nlog.OpCreate, err)
		return
	}
	atomic.AddInt64(&s.appMetrics.productsCreated, 1)

	NewJSONResponse().
		Status(http.StatusCreated).
		Event(EventProductCreated, core.Date{}).
		JSON(newProductResponse(p)).
		Write(w)
}

// handleDeleteProduct succeeds whether or not the product existed.
func (s *Server) handleDeleteProduct(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		s.fail(w, r, nlog.OpDelete, err)
		return
	}
	if err := s.svc.DeleteProduct(r.Context(), id); err != nil {
		s.fail(w, r, nlog.OpDelete, err)
		return
	}
	NewJSONResponse().
		Status(http.StatusNoContent).
		Event(EventProductDeleted, core.Date{}).
		Write(w)
}

func parseMacros(p *RequestBodyParser) (core.Macros, error) {
	var m core.Macros
	var err error
	if m.Protein, err = p.Quantity("protein", 0); err != nil {
		return core.Macros{}, err
	}
	if m.Fat, err = p.Quantity("fat", 0); err != nil {
		return core.Macros{}, err
	}
	if m.Carbs, err = p.Quantity("carbs", 0); err != nil {
		return core.Macros{}, err
	}
	return m, nil
}
