package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"mime"
	"net/http"
	"strings"

	"route_finder/pkg/geo"
	"route_finder/pkg/geocode"
	"route_finder/pkg/graph"
	"route_finder/pkg/render"
	"route_finder/pkg/routing"
)

// Geocoder resolves free-text place names; satisfied by *geocode.Client.
type Geocoder interface {
	Geocode(ctx context.Context, query string) (*geocode.Result, error)
}

// Handlers holds the HTTP handlers and their dependencies.
type Handlers struct {
	router   routing.Router
	geocoder Geocoder
	stats    StatsResponse
}

// NewHandlers creates handlers with the given router and geocoder.
// The geocoder may be nil; the form endpoints then report it unavailable.
func NewHandlers(router routing.Router, geocoder Geocoder, stats StatsResponse) *Handlers {
	return &Handlers{
		router:   router,
		geocoder: geocoder,
		stats:    stats,
	}
}

// HandleRoute handles POST /api/v1/route.
func (h *Handlers) HandleRoute(w http.ResponseWriter, r *http.Request) {
	req, ok := h.decodeRouteRequest(w, r)
	if !ok {
		return
	}

	result, err := h.router.Route(r.Context(),
		geo.LatLng{Lat: req.Start.Lat, Lng: req.Start.Lng},
		geo.LatLng{Lat: req.End.Lat, Lng: req.End.Lng})
	if err != nil {
		writeRouteError(w, err)
		return
	}

	resp := RouteResponse{
		TotalDistanceMeters: result.TotalDistanceMeters,
		StartSnapMeters:     result.StartSnapMeters,
		EndSnapMeters:       result.EndSnapMeters,
		Geometry:            make([]LatLngJSON, len(result.Geometry)),
	}
	for i, p := range result.Geometry {
		resp.Geometry[i] = LatLngJSON{Lat: p.Lat, Lng: p.Lng}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

// HandleRouteGeoJSON handles POST /api/v1/route/geojson: same request body,
// response is a GeoJSON FeatureCollection ready for any map client.
func (h *Handlers) HandleRouteGeoJSON(w http.ResponseWriter, r *http.Request) {
	req, ok := h.decodeRouteRequest(w, r)
	if !ok {
		return
	}

	start := geo.LatLng{Lat: req.Start.Lat, Lng: req.Start.Lng}
	end := geo.LatLng{Lat: req.End.Lat, Lng: req.End.Lng}

	result, err := h.router.Route(r.Context(), start, end)
	if err != nil {
		writeRouteError(w, err)
		return
	}

	fc := render.RouteFeatureCollection(result.Geometry, result.TotalDistanceMeters,
		render.Endpoint{Label: "start", Coordinate: start},
		render.Endpoint{Label: "end", Coordinate: end})

	w.Header().Set("Content-Type", "application/geo+json")
	json.NewEncoder(w).Encode(fc)
}

// HandleIndex handles GET /: the query form.
func (h *Handlers) HandleIndex(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	indexPage.Execute(w, nil)
}

// HandleRouteForm handles POST /route: the browser flow. Both place names are
// geocoded, the route computed, and a result page with an embedded map
// returned. Failures render as human-readable messages on the form page.
func (h *Handlers) HandleRouteForm(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.renderFormError(w, http.StatusBadRequest, "Could not read the submitted form.")
		return
	}
	pointA := strings.TrimSpace(r.PostFormValue("pointA"))
	pointB := strings.TrimSpace(r.PostFormValue("pointB"))
	if pointA == "" || pointB == "" {
		h.renderFormError(w, http.StatusBadRequest, "Both a starting point and a destination are required.")
		return
	}

	if h.geocoder == nil {
		h.renderFormError(w, http.StatusServiceUnavailable, "Place-name lookup is not configured on this server.")
		return
	}

	locA, err := h.geocoder.Geocode(r.Context(), pointA)
	if err != nil {
		h.renderGeocodeError(w, pointA, err)
		return
	}
	locB, err := h.geocoder.Geocode(r.Context(), pointB)
	if err != nil {
		h.renderGeocodeError(w, pointB, err)
		return
	}

	result, err := h.router.Route(r.Context(), locA.Coordinate, locB.Coordinate)
	if err != nil {
		switch {
		case errors.Is(err, routing.ErrNoRoute):
			h.renderFormError(w, http.StatusOK, "No drivable route connects those two places.")
		case errors.Is(err, routing.ErrPointTooFar):
			h.renderFormError(w, http.StatusOK, "One of the places is too far from the road network.")
		default:
			h.renderFormError(w, http.StatusInternalServerError, "Route calculation failed. Please try again.")
		}
		return
	}

	var mapBuf bytes.Buffer
	err = render.WriteLeafletHTML(&mapBuf, result.Geometry,
		render.Endpoint{Label: pointA, Coordinate: locA.Coordinate},
		render.Endpoint{Label: pointB, Coordinate: locB.Coordinate})
	if err != nil {
		h.renderFormError(w, http.StatusInternalServerError, "Could not draw the route map.")
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	resultPage.Execute(w, resultData{
		PointA:     pointA,
		PointB:     pointB,
		DistanceKM: fmt.Sprintf("%.2f", result.TotalDistanceMeters/1000),
		MapHTML:    mapBuf.String(),
	})
}

// HandleHealth handles GET /api/v1/health.
func (h *Handlers) HandleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(HealthResponse{Status: "ok"})
}

// HandleStats handles GET /api/v1/stats.
func (h *Handlers) HandleStats(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(h.stats)
}

func (h *Handlers) decodeRouteRequest(w http.ResponseWriter, r *http.Request) (RouteRequest, bool) {
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType != "application/json" {
		writeError(w, http.StatusBadRequest, "invalid_request", "")
		return RouteRequest{}, false
	}

	var req RouteRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1024)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "")
		return RouteRequest{}, false
	}

	if !(geo.LatLng{Lat: req.Start.Lat, Lng: req.Start.Lng}).Valid() {
		writeError(w, http.StatusBadRequest, "invalid_coordinates", "start")
		return RouteRequest{}, false
	}
	if !(geo.LatLng{Lat: req.End.Lat, Lng: req.End.Lng}).Valid() {
		writeError(w, http.StatusBadRequest, "invalid_coordinates", "end")
		return RouteRequest{}, false
	}

	return req, true
}

func (h *Handlers) renderGeocodeError(w http.ResponseWriter, query string, err error) {
	if errors.Is(err, geocode.ErrNoMatch) {
		h.renderFormError(w, http.StatusOK,
			fmt.Sprintf("Could not find %q. Please check spelling or provide a more complete name.", query))
		return
	}
	h.renderFormError(w, http.StatusBadGateway, "Place-name lookup failed. Please try again shortly.")
}

func (h *Handlers) renderFormError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	indexPage.Execute(w, indexData{Error: msg})
}

func writeRouteError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, routing.ErrPointTooFar):
		writeError(w, http.StatusUnprocessableEntity, "point_too_far_from_road", "")
	case errors.Is(err, routing.ErrNoRoute):
		writeError(w, http.StatusNotFound, "no_route_found", "")
	case errors.Is(err, graph.ErrEmptyGraph):
		writeError(w, http.StatusServiceUnavailable, "graph_unavailable", "")
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		writeError(w, http.StatusServiceUnavailable, "request_timeout", "")
	default:
		writeError(w, http.StatusInternalServerError, "internal_error", "")
	}
}

func writeError(w http.ResponseWriter, status int, code, field string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(ErrorResponse{Error: code, Field: field})
}
