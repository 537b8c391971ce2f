package api

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/litescript/ls-almanac/internal/catalog"
	"github.com/litescript/ls-almanac/internal/engine"
	"github.com/litescript/ls-almanac/internal/ephem"
)

const (
	idParam   = "id"
	bodyParam = "index"
)

// RegisterObserverRoutes adds the observer endpoints.
func RegisterObserverRoutes(r *Router, g *gin.RouterGroup) {
	g.GET("/observer", r.GetObserver)
	g.PUT("/observer", r.PutObserver)
}

// RegisterStarRoutes adds the catalog star endpoints.
func RegisterStarRoutes(r *Router, g *gin.RouterGroup) {
	g.GET("/stars", r.ListStars)
	g.GET("/stars/count", r.GetStarCount)
	g.GET("/stars/hip/:"+idParam, r.starHandler(catalog.ByHIP))
	g.GET("/stars/nav/:"+idParam, r.starHandler(catalog.ByNav))
	g.GET("/stars/hip/:"+idParam+"/window", r.starWindowHandler(catalog.ByHIP))
	g.GET("/stars/nav/:"+idParam+"/window", r.starWindowHandler(catalog.ByNav))
}

// RegisterBodyRoutes adds the Sun, Moon and planet endpoints.
func RegisterBodyRoutes(r *Router, g *gin.RouterGroup) {
	g.GET("/sun", r.fixedBody(ephem.Sun))
	g.GET("/moon", r.fixedBody(ephem.Moon))
	g.GET("/bodies", r.ListBodies)
	g.GET("/bodies/:"+bodyParam, r.GetBody)
	g.GET("/bodies/:"+bodyParam+"/window", r.GetBodyWindow)
}

// GetObserver returns the current observer.
func (r *Router) GetObserver(c *gin.Context) {
	obs, ok := r.engine.Observer()
	if !ok {
		r.fail(c, engine.ErrObserverUnset)
		return
	}
	c.JSON(http.StatusOK, ObserverResponse{
		Time:      obs.Time,
		Latitude:  obs.LatDeg,
		Longitude: obs.LonDeg,
		Elevation: obs.ElevM,
	})
}

// PutObserver replaces the observer. A missing time means now.
func (r *Router) PutObserver(c *gin.Context) {
	var req ObserverRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	t := time.Now().UTC()
	if req.Time != nil {
		t = *req.Time
	}
	snap := engine.Snapshot{
		Time:   t,
		LatDeg: *req.Latitude,
		LonDeg: *req.Longitude,
		ElevM:  req.Elevation,
	}
	if err := r.engine.SetObserver(snap); err != nil {
		r.fail(c, err)
		return
	}
	r.GetObserver(c)
}

// GetStarCount returns the catalog counts.
func (r *Router) GetStarCount(c *gin.Context) {
	total, nav := r.engine.Counts()
	c.JSON(http.StatusOK, CountResponse{Total: total, Navigational: nav})
}

// ListStars returns every star; ?visible=true keeps those above the horizon.
func (r *Router) ListStars(c *gin.Context) {
	stars, err := r.engine.Stars()
	if err != nil {
		r.fail(c, err)
		return
	}

	visibleOnly, _ := strconv.ParseBool(c.Query("visible"))
	out := make([]StarResponse, 0, len(stars))
	for _, sp := range stars {
		if visibleOnly && sp.ElDeg <= 0 {
			continue
		}
		out = append(out, starResponse(sp))
	}
	c.JSON(http.StatusOK, out)
}

func (r *Router) starHandler(key func(uint32) catalog.Key) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := parseID(c.Param(idParam))
		if err != nil {
			r.fail(c, err)
			return
		}
		sp, err := r.engine.Star(key(id))
		if err != nil {
			r.fail(c, err)
			return
		}
		c.JSON(http.StatusOK, starResponse(sp))
	}
}

func (r *Router) starWindowHandler(key func(uint32) catalog.Key) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := parseID(c.Param(idParam))
		if err != nil {
			r.fail(c, err)
			return
		}
		r.window(c, engine.StarTarget(key(id)))
	}
}

func (r *Router) fixedBody(b ephem.Body) gin.HandlerFunc {
	return func(c *gin.Context) {
		r.body(c, b)
	}
}

// ListBodies returns every body, skipping those outside their model range.
func (r *Router) ListBodies(c *gin.Context) {
	out := make([]BodyResponse, 0, 10)
	for _, b := range ephem.Bodies() {
		p, err := r.engine.Body(b)
		if err != nil {
			if statusFor(err) == http.StatusUnprocessableEntity {
				continue
			}
			r.fail(c, err)
			return
		}
		out = append(out, bodyResponse(b, p))
	}
	c.JSON(http.StatusOK, out)
}

// GetBody returns a body by number or name.
func (r *Router) GetBody(c *gin.Context) {
	b, err := ephem.ParseBody(c.Param(bodyParam))
	if err != nil {
		r.fail(c, err)
		return
	}
	r.body(c, b)
}

// GetBodyWindow returns the rise/set window of a body.
func (r *Router) GetBodyWindow(c *gin.Context) {
	b, err := ephem.ParseBody(c.Param(bodyParam))
	if err != nil {
		r.fail(c, err)
		return
	}
	r.window(c, engine.BodyTarget(b))
}

func (r *Router) body(c *gin.Context, b ephem.Body) {
	p, err := r.engine.Body(b)
	if err != nil {
		r.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, bodyResponse(b, p))
}

func (r *Router) window(c *gin.Context, target engine.Target) {
	span, err := durationQuery(c, "span")
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}
	step, err := durationQuery(c, "step")
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	w, err := r.engine.Window(target, span, step)
	if err != nil {
		r.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, windowResponse(w))
}

func parseID(s string) (uint32, error) {
	id, err := strconv.ParseUint(s, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", engine.ErrInvalidID, s)
	}
	return uint32(id), nil
}

// durationQuery parses an optional Go duration; 0 when absent.
func durationQuery(c *gin.Context, name string) (time.Duration, error) {
	v := c.Query(name)
	if v == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", name, err)
	}
	if d < 0 || d > 7*24*time.Hour {
		return 0, fmt.Errorf("invalid %s: %v out of range", name, d)
	}
	return d, nil
}
