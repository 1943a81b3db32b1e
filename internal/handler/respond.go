package handler

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"vibepm/internal/ai"
)

// internalError logs err and answers with the generic 500 body for action.
func internalError(c *gin.Context, action string, err error) {
	log.Printf("Failed to %s: %v", action, err)
	c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to " + action})
}

// aiError maps provider failures to a 500, surfacing the upstream message.
func aiError(c *gin.Context, action string, err error) {
	var apiErr *ai.APIError
	switch {
	case errors.Is(err, ai.ErrNotConfigured):
		log.Printf("Failed to %s: %v", action, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "AI provider not configured"})
	case errors.As(err, &apiErr):
		log.Printf("Failed to %s: %v", action, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": apiErr.Message})
	default:
		internalError(c, action, err)
	}
}

func badRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, gin.H{"error": msg})
}

func notFound(c *gin.Context, msg string) {
	c.JSON(http.StatusNotFound, gin.H{"error": msg})
}

func success(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func queryBool(c *gin.Context, key string) bool {
	return c.Query(key) == "true"
}

func queryInt(c *gin.Context, key string, def int) int {
	n, err := strconv.Atoi(c.Query(key))
	if err != nil || n < 0 {
		return def
	}
	return n
}

// trimmedOrNil turns blank optional text into nil.
func trimmedOrNil(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}

// patch is a partial update body. Keys that are absent leave fields alone,
// explicit nulls clear nullable fields.
type patch map[string]json.RawMessage

func bindPatch(c *gin.Context) (patch, bool) {
	var p patch
	if err := c.ShouldBindJSON(&p); err != nil {
		badRequest(c, "Invalid request body")
		return nil, false
	}
	return p, true
}

func (p patch) has(key string) bool {
	_, ok := p[key]
	return ok
}

func (p patch) isNull(key string) bool {
	raw, ok := p[key]
	return ok && string(raw) == "null"
}

func (p patch) decode(key string, dst any) (bool, error) {
	raw, ok := p[key]
	if !ok {
		return false, nil
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return true, errors.New("Invalid " + key)
	}
	return true, nil
}

// String reads a non-null string value.
func (p patch) String(key string) (string, bool, error) {
	if p.isNull(key) {
		return "", true, errors.New("Invalid " + key)
	}
	var s string
	ok, err := p.decode(key, &s)
	return s, ok, err
}

// NullableString reads a string that may be null or blank, both stored as nil.
func (p patch) NullableString(key string) (*string, bool, error) {
	if p.isNull(key) {
		return nil, true, nil
	}
	var s string
	ok, err := p.decode(key, &s)
	if !ok || err != nil {
		return nil, ok, err
	}
	return trimmedOrNil(&s), true, nil
}

func (p patch) Int(key string) (int, bool, error) {
	var n int
	ok, err := p.decode(key, &n)
	return n, ok, err
}

func (p patch) Bool(key string) (bool, bool, error) {
	var b bool
	ok, err := p.decode(key, &b)
	return b, ok, err
}
