package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

const invalidParamsPrefix = "invalidParams:"

// ProblemDetails is the body of every client error response.
type ProblemDetails struct {
	Title      string              `json:"title"`
	Status     int                 `json:"status"`
	Detail     string              `json:"detail,omitempty"`
	Instance   string              `json:"instance"`
	Extensions map[string][]string `json:"extensions,omitempty"`
}

type faultResponse struct {
	Message string `json:"message"`
	Detail  string `json:"detail"`
}

const faultMessage = "An error occurred while processing your request."

func writeProblem(c *gin.Context, status int, title, detail string, invalid map[string][]string) {
	problem := ProblemDetails{
		Title:    title,
		Status:   status,
		Detail:   detail,
		Instance: c.Request.URL.Path,
	}
	if len(invalid) > 0 {
		problem.Extensions = make(map[string][]string, len(invalid))
		for field, messages := range invalid {
			problem.Extensions[invalidParamsPrefix+field] = messages
		}
	}
	c.Header("Content-Type", "application/problem+json")
	c.JSON(status, problem)
}

func validationProblem(c *gin.Context, invalid map[string][]string) {
	writeProblem(c, http.StatusBadRequest, "Bad Request", "Invalid request parameters.", invalid)
}

func notFound(c *gin.Context) {
	writeProblem(c, http.StatusNotFound, "Not Found", "", nil)
}

func writeFault(c *gin.Context, detail string) {
	c.JSON(http.StatusInternalServerError, faultResponse{Message: faultMessage, Detail: detail})
}
