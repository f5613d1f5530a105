package api

import (
	"errors"
	"fmt"
	"net/http"
	"path"
	"strconv"

	"github.com/Domenick1991/flightapi/internal/dto"
	"github.com/Domenick1991/flightapi/internal/service/flights"
	"github.com/gin-gonic/gin"
)

const defaultFlightsPath = "/api/flights"

type FlightHandler struct {
	service  flights.FlightUseCase
	basePath string
}

func NewFlightHandler(service flights.FlightUseCase) *FlightHandler {
	return &FlightHandler{service: service, basePath: defaultFlightsPath}
}

func (h *FlightHandler) Register(router *gin.RouterGroup) {
	h.basePath = router.BasePath()
	router.GET("", h.list)
	router.GET("/", h.list)
	router.GET("/search", h.search)
	router.GET("/number/:flightNumber", h.getByNumber)
	router.GET("/:id", h.get)
	router.POST("", h.create)
	router.POST("/", h.create)
	router.PUT("/:id", h.update)
	router.DELETE("/:id", h.delete)
}

func (h *FlightHandler) list(c *gin.Context) {
	result, err := h.service.GetAll(c.Request.Context())
	if err != nil {
		_ = c.Error(err)
		return
	}
	if len(result) == 0 {
		notFound(c)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *FlightHandler) get(c *gin.Context) {
	req, invalid := parseFlightID(c.Param("id"))
	if invalid != nil {
		validationProblem(c, invalid)
		return
	}
	flight, err := h.service.GetByID(c.Request.Context(), req)
	if err != nil {
		h.renderLookupError(c, err)
		return
	}
	c.JSON(http.StatusOK, flight)
}

func (h *FlightHandler) getByNumber(c *gin.Context) {
	req := flights.GetFlightByNumberRequest{FlightNumber: c.Param("flightNumber")}
	if invalid := validateRequest(req); invalid != nil {
		validationProblem(c, invalid)
		return
	}
	flight, err := h.service.GetByNumber(c.Request.Context(), req)
	if err != nil {
		h.renderLookupError(c, err)
		return
	}
	c.JSON(http.StatusOK, flight)
}

func (h *FlightHandler) create(c *gin.Context) {
	var in dto.Flight
	if err := c.ShouldBindJSON(&in); err != nil {
		writeProblem(c, http.StatusBadRequest, "Bad Request", "Invalid request body.", nil)
		return
	}
	setPayload(c, in)
	if invalid := validateRequest(in); invalid != nil {
		validationProblem(c, invalid)
		return
	}

	created, err := h.service.Add(c.Request.Context(), in)
	if err != nil {
		if errors.Is(err, flights.ErrFlightExists) {
			writeProblem(c, http.StatusBadRequest, "Bad Request", "Unable to add flight.", nil)
			return
		}
		_ = c.Error(err)
		return
	}

	c.Header("Location", path.Join(h.basePath, strconv.FormatInt(created.FlightID, 10)))
	c.JSON(http.StatusCreated, created)
}

func (h *FlightHandler) update(c *gin.Context) {
	req, invalid := parseFlightID(c.Param("id"))
	if invalid != nil {
		validationProblem(c, invalid)
		return
	}
	var in dto.Flight
	if err := c.ShouldBindJSON(&in); err != nil {
		writeProblem(c, http.StatusBadRequest, "Bad Request", "Invalid request body.", nil)
		return
	}
	setPayload(c, in)
	if in.FlightID != req.FlightID {
		writeProblem(c, http.StatusBadRequest, "Invalid Flight ID",
			fmt.Sprintf("The provided flight ID %d does not match the route ID %d.", in.FlightID, req.FlightID), nil)
		return
	}
	if invalid := validateRequest(in); invalid != nil {
		validationProblem(c, invalid)
		return
	}

	if _, err := h.service.Update(c.Request.Context(), in); err != nil {
		h.renderLookupError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *FlightHandler) delete(c *gin.Context) {
	req, invalid := parseFlightID(c.Param("id"))
	if invalid != nil {
		validationProblem(c, invalid)
		return
	}
	deleted, err := h.service.Delete(c.Request.Context(), req)
	if err != nil {
		_ = c.Error(err)
		return
	}
	if !deleted {
		notFound(c)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *FlightHandler) search(c *gin.Context) {
	var req flights.SearchFlightsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		writeProblem(c, http.StatusBadRequest, "Bad Request", "Invalid query parameters.", nil)
		return
	}
	setPayload(c, req)
	if invalid := validateRequest(req); invalid != nil {
		validationProblem(c, invalid)
		return
	}

	result, err := h.service.Search(c.Request.Context(), req)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *FlightHandler) renderLookupError(c *gin.Context, err error) {
	if errors.Is(err, flights.ErrFlightNotFound) {
		notFound(c)
		return
	}
	_ = c.Error(err)
}
